package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	feeddomain "github.com/smallbiznis/northstar/internal/feed/domain"
)

type postFeedTextRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (s *Server) ListFeed(c *gin.Context) {
	orgID, err := parseIDParam(c, "orgId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.feedSvc.List(c.Request.Context(), orgID, parsePagination(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PostFeedText(c *gin.Context) {
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

	var req postFeedTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.feedSvc.PostTextItem(c.Request.Context(), actor, orgID, feeddomain.PostTextRequest{
		Title: strings.TrimSpace(req.Title),
		Text:  strings.TrimSpace(req.Text),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
