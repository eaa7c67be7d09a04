package handler

import (
	"bff/internal/middleware"
	"bff/internal/signing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouteRegistrar is implemented by every handler that owns a slice of /api.
type RouteRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type RouterOptions struct {
	Verifier    *signing.Verifier
	Metrics     *middleware.Metrics
	CORSOrigins []string
	Log         logrus.FieldLogger
}

// NewRouter assembles the middleware chain and mounts every route. CORS runs
// before the signature gate so preflight requests are answered unsigned.
func NewRouter(opts RouterOptions, app *AppHandler, api ...RouteRegistrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(opts.Log))

	corsConfig := cors.DefaultConfig()
	if len(opts.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = opts.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept",
		signing.HeaderSignature, signing.HeaderTimestamp}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.Use(opts.Metrics.Middleware())
	router.Use(middleware.Signature(opts.Verifier, middleware.DefaultAllowList(), opts.Log))

	router.GET("/health", app.Health)
	router.GET("/metrics", opts.Metrics.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ws", app.Events)

	group := router.Group("/api")
	app.RegisterRoutes(group)
	for _, h := range api {
		h.RegisterRoutes(group)
	}
	return router
}
