package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	issuedomain "github.com/smallbiznis/northstar/internal/issue/domain"
)

type createIssueRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Priority    issuedomain.Priority `json:"priority"`
}

type updateIssueRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Status      *issuedomain.Status   `json:"status"`
	Priority    *issuedomain.Priority `json:"priority"`
}

func (s *Server) CreateIssue(c *gin.Context) {
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

	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.issueSvc.Create(c.Request.Context(), actor, issuedomain.Scope{OrgID: orgID, ProductID: productID}, issuedomain.CreateRequest{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    req.Priority,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListIssues(c *gin.Context) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.issueSvc.List(c.Request.Context(), issuedomain.Scope{OrgID: orgID, ProductID: productID}, parsePagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetIssue(c *gin.Context) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := parseIDParam(c, "issueId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.issueSvc.GetByID(c.Request.Context(), issuedomain.Scope{OrgID: orgID, ProductID: productID}, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateIssue(c *gin.Context) {
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
	id, err := parseIDParam(c, "issueId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.issueSvc.Update(c.Request.Context(), actor, issuedomain.Scope{OrgID: orgID, ProductID: productID}, id, issuedomain.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteIssue(c *gin.Context) {
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
	id, err := parseIDParam(c, "issueId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.issueSvc.Delete(c.Request.Context(), actor, issuedomain.Scope{OrgID: orgID, ProductID: productID}, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
