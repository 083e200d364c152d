package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	commentdomain "github.com/smallbiznis/northstar/internal/comment/domain"
)

type addCommentRequest struct {
	ParentType commentdomain.ParentType `json:"parent_type"`
	ParentID   string                   `json:"parent_id"`
	Content    string                   `json:"content"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) AddComment(c *gin.Context) {
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

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	parentID, err := snowflake.ParseString(strings.TrimSpace(req.ParentID))
	if err != nil || parentID == 0 {
		AbortWithError(c, commentdomain.ErrNotFound)
		return
	}

	resp, err := s.commentSvc.Add(c.Request.Context(), actor, orgID, commentdomain.AddRequest{
		ParentType: req.ParentType,
		ParentID:   parentID,
		Content:    req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListComments(c *gin.Context) {
	orgID, err := parseIDParam(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query struct {
		ParentType commentdomain.ParentType `form:"parent_type"`
		ParentID   string                   `form:"parent_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	parentID, err := snowflake.ParseString(strings.TrimSpace(query.ParentID))
	if err != nil || parentID == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.commentSvc.ListByParent(c.Request.Context(), orgID, query.ParentType, parentID, parsePagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateComment(c *gin.Context) {
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
	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.commentSvc.Update(c.Request.Context(), actor, orgID, commentID, req.Content)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteComment(c *gin.Context) {
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
	commentID, err := parseIDParam(c, "commentId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.commentSvc.Delete(c.Request.Context(), actor, orgID, commentID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
