package routes

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/xyz-asif/civic-connect/internal/config"
	"github.com/xyz-asif/civic-connect/internal/features/auth"
	"github.com/xyz-asif/civic-connect/internal/features/departments"
	"github.com/xyz-asif/civic-connect/internal/features/media"
	"github.com/xyz-asif/civic-connect/internal/features/notifications"
	"github.com/xyz-asif/civic-connect/internal/features/quality"
	"github.com/xyz-asif/civic-connect/internal/features/reports"
	"github.com/xyz-asif/civic-connect/internal/features/users"
	"github.com/xyz-asif/civic-connect/internal/middleware"
	"github.com/xyz-asif/civic-connect/internal/pkg/detached"
	"github.com/xyz-asif/civic-connect/internal/pkg/idgen"
	"github.com/xyz-asif/civic-connect/internal/pkg/jwt"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
	"github.com/xyz-asif/civic-connect/internal/pkg/metrics"
	"github.com/xyz-asif/civic-connect/internal/pkg/photostore"
	"github.com/xyz-asif/civic-connect/internal/pkg/queue"
	"github.com/xyz-asif/civic-connect/internal/pkg/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
)

const reportsPerHour = 20

// App holds the long-lived pieces main needs after routes are mounted
type App struct {
	Auth      *auth.Service
	Runner    *detached.Runner
	Publisher queue.Publisher
	redis     *redis.Client
}

// Close waits for in-flight side effects, then releases broker and cache connections
func (a *App) Close(ctx context.Context) error {
	err := a.Runner.Wait(ctx)
	if cerr := a.Publisher.Close(); err == nil {
		err = cerr
	}
	if a.redis != nil {
		if cerr := a.redis.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config, log *logger.Logger) *App {
	api := router.Group("/api/v1")

	runner := detached.NewRunner(10*time.Second, log.Named("detached"))
	runner.OnFailure(func(name string, _ error) {
		task := name
		if i := strings.IndexByte(name, ':'); i > 0 {
			task = name[:i]
		}
		metrics.SideEffectFailures.WithLabelValues(task).Inc()
	})

	app := &App{Runner: runner, Publisher: newPublisher(cfg, log)}

	issuer := jwt.NewIssuer(jwt.DefaultConfig(cfg.JWTSecret, time.Duration(cfg.JWTExpireHours)*time.Hour))
	authMiddleware := middleware.Auth(issuer, cfg.AdminAPIKey)

	app.redis = connectRedis(cfg, log)
	otpLimiter := newLimiter(app.redis, cfg.OTPRequestsPerHour, time.Hour)
	reportLimiter := newLimiter(app.redis, reportsPerHour, time.Hour)

	usersRepo := users.NewRepository(db)
	departmentsRepo := departments.NewRepository(db)
	notificationsRepo := notifications.NewRepository(db)
	reportsRepo := reports.NewRepository(db)

	app.Auth = auth.NewService(
		auth.NewRepository(db),
		usersRepo,
		newCodeSource(cfg, log),
		newSender(cfg, log),
		issuer,
		otpLimiter,
		runner,
		auth.Options{
			TTL:        time.Duration(cfg.OTPTTLMinutes) * time.Minute,
			ExposeCode: cfg.ExposeOTPCode && !cfg.IsProduction(),
		},
		log.Named("otp"),
	)

	fanout := notifications.NewFanout(notificationsRepo, runner, app.Publisher, log.Named("fanout"))
	gate := quality.NewGate(quality.HeuristicScorer{}, time.Duration(cfg.ScorerTimeoutSeconds)*time.Second,
		cfg.ScorerConcurrency, log.Named("quality"))
	reportService := reports.NewService(reportsRepo, idgen.NewGenerator(), gate, fanout, log.Named("reports"))

	auth.RegisterRoutes(api, app.Auth)
	users.RegisterRoutes(api, usersRepo, authMiddleware)
	departments.RegisterRoutes(api, departments.NewService(departmentsRepo, issuer), authMiddleware)
	reports.RegisterRoutes(api, reportService, authMiddleware, reportLimiter)
	notifications.RegisterRoutes(api, notificationsRepo, authMiddleware)
	media.RegisterRoutes(api, newPhotoStore(cfg, log), authMiddleware, log.Named("media"))

	return app
}

func newPublisher(cfg *config.Config, log *logger.Logger) queue.Publisher {
	if cfg.AMQPURI == "" {
		return queue.Noop{}
	}
	pub, err := queue.ConnectAMQP(cfg.AMQPURI, cfg.AMQPEventsQueue)
	if err != nil {
		log.Warn("event publishing disabled: %v", err)
		return queue.Noop{}
	}
	log.Info("publishing notification events to queue %s", cfg.AMQPEventsQueue)
	return pub
}

func connectRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.RedisAddress == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := ratelimit.Connect(ctx, cfg.RedisAddress, cfg.RedisPassword)
	if err != nil {
		log.Warn("falling back to in-memory rate limits: %v", err)
		return nil
	}
	return client
}

// newLimiter shares counters across instances when redis is available. Callers
// namespace their own keys.
func newLimiter(client *redis.Client, limit int, window time.Duration) ratelimit.Limiter {
	if limit <= 0 {
		return nil
	}
	if client != nil {
		return ratelimit.NewRedis(client, "ratelimit:", limit, window)
	}
	rl := ratelimit.New(limit, window)
	rl.StartCleanup(context.Background(), window)
	return rl
}

func newCodeSource(cfg *config.Config, log *logger.Logger) auth.CodeSource {
	if cfg.OTPServiceURL == "" {
		return auth.LocalCodes{}
	}
	return auth.NewRemoteCodes(cfg.OTPServiceURL, 5*time.Second, log.Named("otp-issuer"))
}

func newSender(cfg *config.Config, log *logger.Logger) auth.Sender {
	if cfg.SMTPHost == "" {
		return auth.LogSender{Log: log.Named("otp-delivery")}
	}
	return auth.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
}

func newPhotoStore(cfg *config.Config, log *logger.Logger) photostore.Store {
	switch cfg.PhotoStore {
	case "cloudinary":
		store, err := photostore.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			log.Warn("photo uploads disabled: %v", err)
			return photostore.Disabled{}
		}
		return store
	case "minio":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := photostore.NewMinio(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Warn("photo uploads disabled: %v", err)
			return photostore.Disabled{}
		}
		return store
	default:
		log.Info("photo store %q: uploads disabled", cfg.PhotoStore)
		return photostore.Disabled{}
	}
}
