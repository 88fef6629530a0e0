// Package api exposes the storefront over routed JSON endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/example/evoshop/pkg/catalog"
	"github.com/example/evoshop/pkg/checkout"
	"github.com/example/evoshop/pkg/config"
	"github.com/example/evoshop/pkg/media"
	"github.com/example/evoshop/pkg/models"
	"github.com/example/evoshop/pkg/newsletter"
	"github.com/example/evoshop/pkg/repository"
	"github.com/example/evoshop/pkg/reviews"
)

// Service-facing interfaces; the concrete services and repositories satisfy
// them, tests plug in fakes.

type CatalogService interface {
	List(ctx context.Context, q catalog.Query) (*catalog.Result, error)
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context, req *checkout.Request) (*models.Order, error)
}

type ReviewService interface {
	Add(ctx context.Context, productID primitive.ObjectID, req *reviews.Request) (*reviews.Summary, error)
	List(ctx context.Context, productID primitive.ObjectID) (*reviews.ProductReviews, error)
}

type NewsletterService interface {
	Subscribe(ctx context.Context, req *newsletter.SubscribeRequest) (*models.Subscriber, bool, error)
	Unsubscribe(ctx context.Context, email string) error
	List(ctx context.Context, active *bool) ([]models.Subscriber, error)
}

type FeedService interface {
	FashionProducts(ctx context.Context) ([]models.Product, error)
}

type ProductStore interface {
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, update *repository.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type OrderStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Find(ctx context.Context, email, orderNumber string) ([]models.Order, error)
	Update(ctx context.Context, id primitive.ObjectID, update *repository.OrderUpdate) (*models.Order, error)
}

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Catalog    CatalogService
	Checkout   CheckoutService
	Reviews    ReviewService
	Newsletter NewsletterService
	Feed       FeedService
	Products   ProductStore
	Orders     OrderStore
	Categories CategoryStore
	Uploader   media.Uploader
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	router   *gin.Engine
	services Services
}

func NewServer(cfg *config.Config, logger *zap.Logger, services Services) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(logger))

	return &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		services: services,
	}
}

func (s *Server) SetupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := adminOnly(s.config.Server.AdminToken)

	api := s.router.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", s.listProducts)
			products.POST("", admin, s.createProduct)
			products.GET("/:idOrSlug", s.getProduct)
			products.PUT("/:idOrSlug", admin, s.updateProduct)
			products.DELETE("/:idOrSlug", admin, s.deleteProduct)
			products.GET("/:idOrSlug/reviews", s.listReviews)
			products.POST("/:idOrSlug/reviews", s.addReview)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", s.createOrder)
			orders.GET("", s.findOrders)
			orders.GET("/:id", s.getOrder)
			orders.PUT("/:id", admin, s.updateOrder)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", s.listCategories)
			categories.POST("", admin, s.createCategory)
			categories.GET("/:idOrSlug", s.getCategory)
		}

		subscribers := api.Group("/subscribers")
		{
			subscribers.POST("", s.subscribe)
			subscribers.GET("", admin, s.listSubscribers)
			subscribers.DELETE("", s.unsubscribe)
		}

		api.GET("/feed/products", s.listFeedProducts)
		api.POST("/admin/uploads", admin, s.uploadImage)
	}
}

func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	s.logger.Info("Server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// adminOnly gates mutating endpoints behind a shared token. With no token
// configured the admin surface is disabled entirely.
func adminOnly(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("X-Admin-Token") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
			})
			return
		}
		c.Next()
	}
}
