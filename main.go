package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront/auth"
	"github.com/princinho/storefront/cache"
	"github.com/princinho/storefront/catalog"
	"github.com/princinho/storefront/config"
	"github.com/princinho/storefront/controllers"
	"github.com/princinho/storefront/database"
	"github.com/princinho/storefront/logger"
	"github.com/princinho/storefront/middleware"
	"github.com/princinho/storefront/reviews"
	"go.uber.org/zap"
)

// store is everything the services need from the document store.
type store interface {
	catalog.Store
	reviews.Store
	auth.Store
}

const memoryURI = "memory://"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.App.Env); err != nil {
		panic(err)
	}
	defer logger.Close()

	ctx := context.Background()

	var st store
	if cfg.Mongo.URI == memoryURI {
		logger.Warn("using in-memory store, data is lost on restart")
		st = database.NewMemoryStore()
	} else {
		client, err := database.Connect(ctx, cfg.Mongo)
		if err != nil {
			logger.Fatal("failed to connect to mongo", zap.Error(err))
		}
		defer func() {
			_ = client.Disconnect(context.Background())
		}()
		db := client.Database(cfg.Mongo.Database)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			logger.Fatal("failed to create indexes", zap.Error(err))
		}
		st = database.NewMongoStore(db)
	}

	var catalogCache catalog.Cache
	if cfg.Redis.Addr != "" {
		rc, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			defer rc.Close()
			catalogCache = rc
		}
	}

	authSvc := auth.NewService(st, cfg.JWT)
	app := &controllers.App{
		Catalog: catalog.NewService(st, catalogCache),
		Reviews: reviews.NewService(st, authSvc, cfg.Reviews.RequireAuth),
		Auth:    authSvc,
		Cookie:  cfg.Cookie,
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(logger.GinMiddleware(logger.Get()))
	r.Use(logger.Recovery(logger.Get()))
	r.Use(cors.New(corsConfig(cfg.App.AllowedOrigins)))
	app.Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func corsConfig(origins []string) cors.Config {
	allowed := map[string]bool{}
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = true
		}
	}
	logger.Info("allowed origins", zap.Strings("origins", origins))

	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
