package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	bipdomain "github.com/smallbiznis/northstar/internal/bip/domain"
	commentdomain "github.com/smallbiznis/northstar/internal/comment/domain"
	"github.com/smallbiznis/northstar/internal/entitlement"
	frdomain "github.com/smallbiznis/northstar/internal/featurerequest/domain"
	feeddomain "github.com/smallbiznis/northstar/internal/feed/domain"
	issuedomain "github.com/smallbiznis/northstar/internal/issue/domain"
	okrdomain "github.com/smallbiznis/northstar/internal/okr/domain"
	orgdomain "github.com/smallbiznis/northstar/internal/organization/domain"
	productdomain "github.com/smallbiznis/northstar/internal/product/domain"
	"github.com/smallbiznis/northstar/internal/public"
	userdomain "github.com/smallbiznis/northstar/internal/user/domain"
	workitemdomain "github.com/smallbiznis/northstar/internal/workitem/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

// ErrorHandlingMiddleware turns errors collected on the gin context into a
// JSON envelope after the handler chain runs.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	case errors.Is(err, entitlement.ErrUpgradeRequired):
		// the gate message names the blocked action; clients show it verbatim
		return http.StatusBadRequest, errorPayload{
			Type:    "upgrade_required",
			Message: err.Error(),
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, issuedomain.ErrForbidden),
		errors.Is(err, frdomain.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, orgdomain.ErrInvalidName),
		errors.Is(err, orgdomain.ErrInvalidUser),
		errors.Is(err, orgdomain.ErrInvalidOrganization),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidOrganization),
		errors.Is(err, okrdomain.ErrInvalidTitle),
		errors.Is(err, okrdomain.ErrInvalidStatus),
		errors.Is(err, workitemdomain.ErrInvalidTitle),
		errors.Is(err, workitemdomain.ErrInvalidStatus),
		errors.Is(err, workitemdomain.ErrInvalidPriority),
		errors.Is(err, workitemdomain.ErrInvalidAssignee),
		errors.Is(err, issuedomain.ErrInvalidTitle),
		errors.Is(err, issuedomain.ErrInvalidStatus),
		errors.Is(err, issuedomain.ErrInvalidPriority),
		errors.Is(err, frdomain.ErrInvalidTitle),
		errors.Is(err, frdomain.ErrInvalidStatus),
		errors.Is(err, commentdomain.ErrInvalidParentType),
		errors.Is(err, commentdomain.ErrEmptyContent),
		errors.Is(err, feeddomain.ErrEmptyText):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, orgdomain.ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, okrdomain.ErrNotFound),
		errors.Is(err, workitemdomain.ErrNotFound),
		errors.Is(err, issuedomain.ErrNotFound),
		errors.Is(err, frdomain.ErrNotFound),
		errors.Is(err, commentdomain.ErrNotFound),
		errors.Is(err, bipdomain.ErrNotFound),
		errors.Is(err, public.ErrNotPublic),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
