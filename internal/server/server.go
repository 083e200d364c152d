// Package server is the HTTP boundary: route registration, auth guard,
// error mapping and metrics for the gin engine.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/northstar/internal/bip"
	bipdomain "github.com/smallbiznis/northstar/internal/bip/domain"
	"github.com/smallbiznis/northstar/internal/comment"
	commentdomain "github.com/smallbiznis/northstar/internal/comment/domain"
	"github.com/smallbiznis/northstar/internal/config"
	"github.com/smallbiznis/northstar/internal/entitlement"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/featurerequest"
	frdomain "github.com/smallbiznis/northstar/internal/featurerequest/domain"
	"github.com/smallbiznis/northstar/internal/feed"
	feeddomain "github.com/smallbiznis/northstar/internal/feed/domain"
	"github.com/smallbiznis/northstar/internal/issue"
	issuedomain "github.com/smallbiznis/northstar/internal/issue/domain"
	"github.com/smallbiznis/northstar/internal/migration"
	"github.com/smallbiznis/northstar/internal/okr"
	okrdomain "github.com/smallbiznis/northstar/internal/okr/domain"
	"github.com/smallbiznis/northstar/internal/organization"
	orgdomain "github.com/smallbiznis/northstar/internal/organization/domain"
	"github.com/smallbiznis/northstar/internal/payment"
	paymentdomain "github.com/smallbiznis/northstar/internal/payment/domain"
	"github.com/smallbiznis/northstar/internal/product"
	productdomain "github.com/smallbiznis/northstar/internal/product/domain"
	"github.com/smallbiznis/northstar/internal/public"
	"github.com/smallbiznis/northstar/internal/ratelimit"
	"github.com/smallbiznis/northstar/internal/user"
	userdomain "github.com/smallbiznis/northstar/internal/user/domain"
	"github.com/smallbiznis/northstar/internal/workitem"
	workitemdomain "github.com/smallbiznis/northstar/internal/workitem/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	config.Module,
	event.Module,
	entitlement.Module,
	organization.Module,
	user.Module,
	product.Module,
	okr.Module,
	workitem.Module,
	issue.Module,
	featurerequest.Module,
	comment.Module,
	bip.Module,
	feed.Module,
	public.Module,
	payment.Module,
	ratelimit.Module,
	migration.Module,
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	genID      *snowflake.Node
	limiter    *ratelimit.TokenBucket
	orgSvc     orgdomain.Service
	userSvc    userdomain.Service
	productSvc productdomain.Service
	okrSvc     okrdomain.Service
	itemSvc    workitemdomain.Service
	issueSvc   issuedomain.Service
	frSvc      frdomain.Service
	commentSvc commentdomain.Service
	bipSvc     bipdomain.Service
	feedSvc    feeddomain.Service
	publicSvc  public.Service
	paymentSvc paymentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	GenID      *snowflake.Node
	Limiter    *ratelimit.TokenBucket `optional:"true"`
	OrgSvc     orgdomain.Service
	UserSvc    userdomain.Service
	ProductSvc productdomain.Service
	OKRSvc     okrdomain.Service
	ItemSvc    workitemdomain.Service
	IssueSvc   issuedomain.Service
	FRSvc      frdomain.Service
	CommentSvc commentdomain.Service
	BipSvc     bipdomain.Service
	FeedSvc    feeddomain.Service
	PublicSvc  public.Service
	PaymentSvc paymentdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		genID:      p.GenID,
		limiter:    p.Limiter,
		orgSvc:     p.OrgSvc,
		userSvc:    p.UserSvc,
		productSvc: p.ProductSvc,
		okrSvc:     p.OKRSvc,
		itemSvc:    p.ItemSvc,
		issueSvc:   p.IssueSvc,
		frSvc:      p.FRSvc,
		commentSvc: p.CommentSvc,
		bipSvc:     p.BipSvc,
		feedSvc:    p.FeedSvc,
		publicSvc:  p.PublicSvc,
		paymentSvc: p.PaymentSvc,
	}

	s.registerOrgRoutes()
	s.registerProductRoutes()
	s.registerPublicRoutes()
	s.registerWebhookRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerOrgRoutes() {
	authed := s.engine.Group("", s.AuthRequired())

	authed.POST("/orgs", s.CreateOrganization)
	authed.GET("/orgs", s.ListMyOrganizations)
	authed.POST("/users", s.CreateUser)

	org := authed.Group("/orgs/:orgId", s.OrgScope())
	{
		org.GET("", s.GetOrganization)

		org.POST("/users/:userId/activate", s.ActivateUser)
		org.POST("/users/:userId/deactivate", s.DeactivateUser)

		org.GET("/feed", s.ListFeed)
		org.POST("/feed", s.PostFeedText)

		org.POST("/comments", s.AddComment)
		org.GET("/comments", s.ListComments)
		org.PATCH("/comments/:commentId", s.UpdateComment)
		org.DELETE("/comments/:commentId", s.DeleteComment)

		org.POST("/feature-requests/:featureRequestId/upvote", s.UpvoteFeatureRequest)
		org.POST("/feature-requests/:featureRequestId/downvote", s.DownvoteFeatureRequest)
		org.GET("/votes", s.ListMyVotes)
	}
}

func (s *Server) registerProductRoutes() {
	products := s.engine.Group("/orgs/:orgId/products", s.AuthRequired(), s.OrgScope())

	products.POST("", s.CreateProduct)
	products.GET("", s.ListProducts)
	products.GET("/:productId", s.GetProduct)
	products.PATCH("/:productId", s.UpdateProduct)
	products.DELETE("/:productId", s.DeleteProduct)

	scoped := products.Group("/:productId")
	{
		scoped.GET("/bip-settings", s.GetBipSettings)
		scoped.PATCH("/bip-settings", s.UpdateBipSettings)

		scoped.POST("/okrs", s.CreateObjective)
		scoped.GET("/okrs", s.ListObjectives)
		scoped.GET("/okrs/:okrId", s.GetObjective)
		scoped.PATCH("/okrs/:okrId", s.UpdateObjective)
		scoped.DELETE("/okrs/:okrId", s.DeleteObjective)

		scoped.POST("/work-items", s.CreateWorkItem)
		scoped.GET("/work-items", s.ListWorkItems)
		scoped.GET("/work-items/:workItemId", s.GetWorkItem)
		scoped.PATCH("/work-items/:workItemId", s.UpdateWorkItem)
		scoped.DELETE("/work-items/:workItemId", s.DeleteWorkItem)

		scoped.POST("/issues", s.CreateIssue)
		scoped.GET("/issues", s.ListIssues)
		scoped.GET("/issues/:issueId", s.GetIssue)
		scoped.PATCH("/issues/:issueId", s.UpdateIssue)
		scoped.DELETE("/issues/:issueId", s.DeleteIssue)

		scoped.POST("/feature-requests", s.CreateFeatureRequest)
		scoped.GET("/feature-requests", s.ListFeatureRequests)
		scoped.GET("/feature-requests/:featureRequestId", s.GetFeatureRequest)
		scoped.PATCH("/feature-requests/:featureRequestId", s.UpdateFeatureRequest)
		scoped.DELETE("/feature-requests/:featureRequestId", s.DeleteFeatureRequest)
	}
}

func (s *Server) registerPublicRoutes() {
	pub := s.engine.Group("/public/org/:orgId/products/:productId", s.PublicRateLimit(10, 30))

	pub.GET("/objectives", s.PublicObjectives)
	pub.GET("/roadmap", s.PublicRoadmap)
	pub.GET("/iterations", s.PublicIterations)
	pub.GET("/active-iterations", s.PublicActiveIterations)
	pub.GET("/feed", s.PublicFeed)
	pub.GET("/issues", s.PublicIssues)
	pub.GET("/feature-requests", s.PublicFeatureRequests)
}

func (s *Server) registerWebhookRoutes() {
	s.engine.POST("/webhooks/billing", s.HandleBillingWebhook)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
