package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	frdomain "github.com/smallbiznis/northstar/internal/featurerequest/domain"
)

type createFeatureRequestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateFeatureRequestRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *frdomain.Status `json:"status"`
}

func (s *Server) CreateFeatureRequest(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createFeatureRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.frSvc.Create(c.Request.Context(), actor, frdomain.Scope{OrgID: orgID, ProductID: productID}, frdomain.CreateRequest{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFeatureRequests(c *gin.Context) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.frSvc.List(c.Request.Context(), frdomain.Scope{OrgID: orgID, ProductID: productID}, parsePagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetFeatureRequest(c *gin.Context) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := parseIDParam(c, "featureRequestId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.frSvc.GetByID(c.Request.Context(), frdomain.Scope{OrgID: orgID, ProductID: productID}, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateFeatureRequest(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := parseIDParam(c, "featureRequestId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateFeatureRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.frSvc.Update(c.Request.Context(), actor, frdomain.Scope{OrgID: orgID, ProductID: productID}, id, frdomain.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteFeatureRequest(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := parseIDParam(c, "featureRequestId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.frSvc.Delete(c.Request.Context(), actor, frdomain.Scope{OrgID: orgID, ProductID: productID}, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) UpvoteFeatureRequest(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	orgID, err := parseIDParam(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := parseIDParam(c, "featureRequestId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.frSvc.Upvote(c.Request.Context(), actor, orgID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) DownvoteFeatureRequest(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	orgID, err := parseIDParam(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := parseIDParam(c, "featureRequestId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.frSvc.Downvote(c.Request.Context(), actor, orgID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListMyVotes(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	orgID, err := parseIDParam(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.frSvc.GetVotes(c.Request.Context(), actor, orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
