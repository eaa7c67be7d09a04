package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "bff/api/swagger" // swagger docs
	"bff/internal/config"
	"bff/internal/database"
	"bff/internal/handler"
	"bff/internal/lock"
	"bff/internal/middleware"
	"bff/internal/repository"
	"bff/internal/service"
	"bff/internal/signing"
	"bff/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// @title           BFF API
// @version         1.0
// @description     Signed backend-for-frontend: users, permissions, heroes and teams.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey Signature
// @in header
// @name x-signature
func main() {
	log := logrus.New()

	cfg, err := config.Load("configs/.env", ".env")
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}
	logger := log.WithFields(logrus.Fields{"app": cfg.Name, "namespace": cfg.Namespace})

	db, err := database.NewConnection(cfg)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	logger.Info("connected to PostgreSQL")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatal("redis connection failed")
		}
		locker = lock.NewRedisLocker(rdb, cfg.Namespace+":"+cfg.Name+":assignment:")
		logger.WithField("addr", cfg.RedisAddr).Info("using redis assignment locks")
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(logger)
	go wsHub.Run(ctx)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	linkRepo := repository.NewUserPermissionRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	heroRepo := repository.NewHeroRepository(db)

	userService := service.NewUserService(userRepo, linkRepo, txManager)
	permissionService := service.NewPermissionService(userRepo, permRepo, linkRepo, txManager, locker, wsHub)
	teamService := service.NewTeamService(teamRepo, heroRepo, txManager)
	heroService := service.NewHeroService(heroRepo, teamRepo, txManager)

	metrics := middleware.NewMetrics(cfg.Namespace, cfg.Name)
	sqlDB, err := db.DB()
	if err != nil {
		logger.WithError(err).Fatal("database handle unavailable")
	}
	metrics.Registerer().MustRegister(
		collectors.NewDBStatsCollector(sqlDB, cfg.DBName),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Name,
			Name:      "websocket_clients",
			Help:      "Connected websocket clients.",
		}, func() float64 { return float64(wsHub.ClientCount()) }),
	)

	router := handler.NewRouter(handler.RouterOptions{
		Verifier:    signing.NewVerifier(cfg.SecretKey, cfg.TimestampSigningThreshold).WithMaxBodyBytes(cfg.MaxBodyBytes),
		Metrics:     metrics,
		CORSOrigins: cfg.CORSOrigins,
		Log:         logger,
	},
		handler.NewAppHandler(db, wsHub, logger),
		handler.NewUserHandler(userService, permissionService, logger),
		handler.NewPermissionHandler(permissionService, logger),
		handler.NewTeamHandler(teamService, heroService, logger),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	_ = sqlDB.Close()
}
