package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	okrdomain "github.com/smallbiznis/northstar/internal/okr/domain"
)

type createObjectiveRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	KeyResults  []string `json:"key_results"`
}

type updateObjectiveRequest struct {
	Title       *string                    `json:"title"`
	Description *string                    `json:"description"`
	Status      *okrdomain.ObjectiveStatus `json:"status"`
	Progress    *int                       `json:"progress"`
}

func (s *Server) CreateObjective(c *gin.Context) {
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

	var req createObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	keyResults := make([]okrdomain.CreateKeyResultRequest, 0, len(req.KeyResults))
	for _, title := range req.KeyResults {
		keyResults = append(keyResults, okrdomain.CreateKeyResultRequest{Title: strings.TrimSpace(title)})
	}

	resp, err := s.okrSvc.Create(c.Request.Context(), actor, okrdomain.Scope{OrgID: orgID, ProductID: productID}, okrdomain.CreateRequest{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		KeyResults:  keyResults,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListObjectives(c *gin.Context) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.okrSvc.List(c.Request.Context(), okrdomain.Scope{OrgID: orgID, ProductID: productID}, parsePagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetObjective(c *gin.Context) {
	orgID, productID, err := tenantIDs(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := parseIDParam(c, "okrId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.okrSvc.GetByID(c.Request.Context(), okrdomain.Scope{OrgID: orgID, ProductID: productID}, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateObjective(c *gin.Context) {
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
	id, err := parseIDParam(c, "okrId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.okrSvc.Update(c.Request.Context(), actor, okrdomain.Scope{OrgID: orgID, ProductID: productID}, id, okrdomain.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Progress:    req.Progress,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteObjective(c *gin.Context) {
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
	id, err := parseIDParam(c, "okrId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.okrSvc.Delete(c.Request.Context(), actor, okrdomain.Scope{OrgID: orgID, ProductID: productID}, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
