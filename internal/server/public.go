package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
)

// public handlers share one shape: parse the tenant ids, call the mirror
// service, let the error middleware translate ErrNotPublic to 404.
func (s *Server) publicList(c *gin.Context, fetch func(orgID, productID snowflake.ID, page pagination.Pagination) (any, error)) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := fetch(orgID, productID, parsePagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PublicObjectives(c *gin.Context) {
	s.publicList(c, func(orgID, productID snowflake.ID, page pagination.Pagination) (any, error) {
		return s.publicSvc.Objectives(c.Request.Context(), orgID, productID, page)
	})
}

func (s *Server) PublicRoadmap(c *gin.Context) {
	s.publicList(c, func(orgID, productID snowflake.ID, page pagination.Pagination) (any, error) {
		return s.publicSvc.Roadmap(c.Request.Context(), orgID, productID, page)
	})
}

func (s *Server) PublicIterations(c *gin.Context) {
	s.publicList(c, func(orgID, productID snowflake.ID, page pagination.Pagination) (any, error) {
		return s.publicSvc.Iterations(c.Request.Context(), orgID, productID, page)
	})
}

func (s *Server) PublicActiveIterations(c *gin.Context) {
	s.publicList(c, func(orgID, productID snowflake.ID, page pagination.Pagination) (any, error) {
		return s.publicSvc.ActiveIterations(c.Request.Context(), orgID, productID, page)
	})
}

func (s *Server) PublicFeed(c *gin.Context) {
	s.publicList(c, func(orgID, productID snowflake.ID, page pagination.Pagination) (any, error) {
		return s.publicSvc.Feed(c.Request.Context(), orgID, productID, page)
	})
}

func (s *Server) PublicIssues(c *gin.Context) {
	s.publicList(c, func(orgID, productID snowflake.ID, page pagination.Pagination) (any, error) {
		return s.publicSvc.Issues(c.Request.Context(), orgID, productID, page)
	})
}

func (s *Server) PublicFeatureRequests(c *gin.Context) {
	s.publicList(c, func(orgID, productID snowflake.ID, page pagination.Pagination) (any, error) {
		return s.publicSvc.FeatureRequests(c.Request.Context(), orgID, productID, page)
	})
}
