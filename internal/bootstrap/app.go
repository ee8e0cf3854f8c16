package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/mikemtdev/career-lift/internal/admin"
	"github.com/mikemtdev/career-lift/internal/ats"
	googleauth "github.com/mikemtdev/career-lift/internal/auth"
	"github.com/mikemtdev/career-lift/internal/cvs"
	"github.com/mikemtdev/career-lift/internal/payments"
	"github.com/mikemtdev/career-lift/internal/payments/lenco"
	"github.com/mikemtdev/career-lift/internal/phone"
	"github.com/mikemtdev/career-lift/internal/pricing"
	"github.com/mikemtdev/career-lift/internal/queue"
	"github.com/mikemtdev/career-lift/internal/services/health"
	"github.com/mikemtdev/career-lift/internal/shared/auth"
	"github.com/mikemtdev/career-lift/internal/shared/config"
	"github.com/mikemtdev/career-lift/internal/shared/server"
	"github.com/mikemtdev/career-lift/internal/shared/storage/db"
	"github.com/mikemtdev/career-lift/internal/shared/storage/object"
	localstore "github.com/mikemtdev/career-lift/internal/shared/storage/object/local"
	s3store "github.com/mikemtdev/career-lift/internal/shared/storage/object/s3"
	"github.com/mikemtdev/career-lift/internal/shared/telemetry"
	"github.com/mikemtdev/career-lift/internal/users"
)

const defaultAWSRegion = "us-east-1"

// App holds shared dependencies and the HTTP router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.Store
	// Queue is nil unless PAYMENT_QUEUE_URL is set.
	Queue queue.Client

	UsersService    *users.Service
	PricingService  *pricing.Service
	CVService       *cvs.Service
	PaymentsService *payments.Service
	AdminService    *admin.Service
	HealthService   *health.Service
}

// Build prepares dependencies and the router. In dev and local, an absent
// or unreachable database or cache falls back to memory.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rdb, err := buildRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  rdb,
		Store:  store,
		Queue:  queueClient,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_memory", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.redis_disabled", map[string]any{"addr": cfg.RedisAddr, "error": err})
			return nil, nil
		}
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		store, err := s3store.New(ctx, awsRegion(cfg), cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.PaymentQueueURL) == "" {
		return nil, nil
	}
	client, err := queue.NewSQSClient(ctx, awsRegion(cfg), cfg.PaymentQueueURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func awsRegion(cfg config.Config) string {
	if r := strings.TrimSpace(cfg.AWSRegion); r != "" {
		return r
	}
	return defaultAWSRegion
}

func buildServices(app *App) error {
	cfg := app.Config

	var (
		userRepo    users.Repo
		sessionRepo users.SessionRepo
		cvRepo      cvs.Repo
		paymentRepo payments.Repo
		pricingRepo pricing.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		sessionRepo = &users.PGSessionRepo{DB: app.DB}
		cvRepo = &cvs.PGRepo{DB: app.DB}
		paymentRepo = &payments.PGRepo{DB: app.DB}
		pricingRepo = &pricing.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		sessionRepo = users.NewMemorySessionRepo()
		cvRepo = cvs.NewMemoryRepo()
		paymentRepo = payments.NewMemoryRepo()
		pricingRepo = pricing.NewMemoryRepo()
	}

	var (
		cmd         redis.Cmdable
		priceCache  pricing.Cache
		oauthStates googleauth.StateStore
	)
	if app.Redis != nil {
		cmd = app.Redis
		priceCache = pricing.NewRedisCache(app.Redis)
		oauthStates = googleauth.NewRedisStateStore(app.Redis)
	}

	tokens, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL, cfg.IsDevLike())
	if err != nil {
		return err
	}
	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}

	var gateway payments.Gateway
	if strings.TrimSpace(cfg.LencoAPIKey) != "" {
		client, err := lenco.NewClient(cfg.LencoAPIKey, cfg.LencoBaseURL)
		if err != nil {
			return err
		}
		gateway = client
	} else {
		telemetry.Warn("bootstrap.payments_disabled", map[string]any{"reason": "LENCO_API_KEY empty"})
	}

	usersSvc := users.NewService(userRepo, sessionRepo, tokens, hasher, cfg.IsAdminEmail)
	pricingSvc := pricing.NewService(pricingRepo, priceCache, cfg.PaymentCurrency)
	cvSvc := cvs.NewService(cvRepo, nil, pricingSvc, app.Store)
	paymentsSvc := payments.NewService(paymentRepo, gateway, pricingSvc, cvSvc, cfg.PaymentCurrency, cfg.FrontendURL)
	cvSvc.Payments = paymentsSvc
	adminSvc := admin.NewService(usersSvc, cvSvc, pricingSvc)
	healthSvc := health.NewService(app.DB, cmd)

	google := googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		UIRedirect:   cfg.UIRedirectURL,
	}, usersSvc, oauthStates)

	app.UsersService = usersSvc
	app.PricingService = pricingSvc
	app.CVService = cvSvc
	app.PaymentsService = paymentsSvc
	app.AdminService = adminSvc
	app.HealthService = healthSvc

	paymentsHandler := payments.NewHandler(paymentsSvc, usersSvc, app.Queue, cfg.LencoWebhookSecret)
	paymentsHandler.AllowUnsigned = cfg.IsDevLike()
	if cfg.LencoWebhookSecret == "" && !cfg.IsDevLike() {
		telemetry.Warn("bootstrap.webhooks_disabled", map[string]any{"reason": "LENCO_WEBHOOK_SECRET empty"})
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:   cfg,
		Verifier: usersSvc,
		Health:   healthSvc,
		Handlers: []server.Registrar{
			users.NewHandler(usersSvc),
			google,
			cvs.NewHandler(cvSvc),
			pricing.NewHandler(pricingSvc),
			paymentsHandler,
			admin.NewHandler(adminSvc),
			phone.NewHandler(),
			ats.NewHandler(),
		},
	})
	return nil
}

// Close releases connections held by the app.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
