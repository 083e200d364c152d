package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	workitemdomain "github.com/smallbiznis/northstar/internal/workitem/domain"
)

type createWorkItemRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Priority    workitemdomain.Priority `json:"priority"`
	Estimation  *int                    `json:"estimation"`
	AssignedTo  *string                 `json:"assignedTo"`
}

type updateWorkItemRequest struct {
	Title       *string                  `json:"title"`
	Description *string                  `json:"description"`
	Status      *workitemdomain.Status   `json:"status"`
	Priority    *workitemdomain.Priority `json:"priority"`
	Estimation  *int                     `json:"estimation"`
	AssignedTo  *string                  `json:"assignedTo"`
}

func (s *Server) CreateWorkItem(c *gin.Context) {
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

	var req createWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.itemSvc.Create(c.Request.Context(), actor, workitemdomain.Scope{OrgID: orgID, ProductID: productID}, workitemdomain.CreateRequest{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    req.Priority,
		Estimation:  req.Estimation,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListWorkItems(c *gin.Context) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.itemSvc.List(c.Request.Context(), workitemdomain.Scope{OrgID: orgID, ProductID: productID}, parsePagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetWorkItem(c *gin.Context) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := parseIDParam(c, "workItemId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.itemSvc.GetByID(c.Request.Context(), workitemdomain.Scope{OrgID: orgID, ProductID: productID}, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateWorkItem(c *gin.Context) {
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
	id, err := parseIDParam(c, "workItemId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.itemSvc.Update(c.Request.Context(), actor, workitemdomain.Scope{OrgID: orgID, ProductID: productID}, id, workitemdomain.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Estimation:  req.Estimation,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteWorkItem(c *gin.Context) {
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
	id, err := parseIDParam(c, "workItemId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.itemSvc.Delete(c.Request.Context(), actor, workitemdomain.Scope{OrgID: orgID, ProductID: productID}, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
