package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleBillingWebhook applies a plan transition pushed by the billing
// processor. Failures respond 200 with an error body; the processor keys
// retries off the body, not the status code.
func (s *Server) HandleBillingWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "unreadable payload"})
		return
	}

	signature := c.GetHeader("X-Signature")
	if err := s.paymentSvc.HandleWebhook(c.Request.Context(), body, signature); err != nil {
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
