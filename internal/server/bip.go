package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	bipdomain "github.com/smallbiznis/northstar/internal/bip/domain"
)

func (s *Server) GetBipSettings(c *gin.Context) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.bipSvc.Get(c.Request.Context(), orgID, productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateBipSettings(c *gin.Context) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req bipdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.bipSvc.Update(c.Request.Context(), orgID, productID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
