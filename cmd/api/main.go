// @title Civic Connect API
// @version 1.0
// @description Civic issue reporting: citizen reports, department resolution and reporter approval
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	docs "github.com/xyz-asif/civic-connect/docs"
	"github.com/xyz-asif/civic-connect/internal/config"
	"github.com/xyz-asif/civic-connect/internal/database"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	"github.com/xyz-asif/civic-connect/internal/pkg/metrics"
	"github.com/xyz-asif/civic-connect/internal/pkg/response"
	"github.com/xyz-asif/civic-connect/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))
	log := logger.Default()

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB, database.DefaultOptions())
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: %v", err)
	}
	defer db.Disconnect(context.Background())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log.Named("http")))
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(metrics.Middleware())

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "database unreachable", "UNAVAILABLE")
			return
		}
		response.Success(c, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})
	router.GET("/metrics", metrics.Handler())

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
			ginSwagger.PersistAuthorization(true),
		),
	)

	app := routes.SetupRoutes(router, db.Database, cfg, log)

	// consumed codes are kept until expiry; sweep them hourly
	scheduler := cron.New()
	_, err = scheduler.AddFunc("@every 1h", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := app.Auth.PurgeStale(ctx)
		if err != nil {
			log.Warn("one-time code purge failed: %v", err)
			return
		}
		log.Debug("purged %d stale one-time codes", n)
	})
	if err != nil {
		log.Fatal("Failed to schedule code purge: %v", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting on port %s (%s)", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	<-scheduler.Stop().Done()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}
	if err := app.Close(ctx); err != nil {
		log.Warn("side effects still running at shutdown: %v", err)
	}

	log.Info("Server exited")
}
