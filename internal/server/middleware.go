package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/smallbiznis/northstar/internal/orgcontext"
	"github.com/smallbiznis/northstar/pkg/log/ctxlogger"
	"go.uber.org/zap"
)

// RequestID tags every request with an id for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-Id", id)
		c.Request = c.Request.WithContext(ctxlogger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// AuthRequired validates the bearer token and injects the caller's user and
// org ids into the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return []byte(s.cfg.AuthJWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		userID, err := claimID(claims, "sub")
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		orgID, err := claimID(claims, "org")
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := orgcontext.WithUserID(c.Request.Context(), int64(userID))
		ctx = orgcontext.WithOrgID(ctx, int64(orgID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// OrgScope requires the token's org claim to match the :orgId route param,
// so a token for one tenant cannot address another.
func (s *Server) OrgScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, err := snowflake.ParseString(c.Param("orgId"))
		if err != nil {
			AbortWithError(c, ErrNotFound)
			return
		}

		tokenOrg, ok := orgcontext.OrgIDFromContext(c.Request.Context())
		if !ok || tokenOrg != orgID {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// PublicRateLimit shields the unauthenticated mirror with the redis token
// bucket; it is a no-op when redis is not configured.
func (s *Server) PublicRateLimit(rate float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		key := "ratelimit:public:" + c.ClientIP()
		res, err := s.limiter.Allow(c.Request.Context(), key, rate, burst)
		if err != nil {
			// redis trouble must not take the public pages down
			c.Next()
			return
		}
		if !res.Allowed {
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

func claimID(claims jwt.MapClaims, key string) (snowflake.ID, error) {
	raw, _ := claims[key].(string)
	return snowflake.ParseString(strings.TrimSpace(raw))
}
