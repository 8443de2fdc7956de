package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	_ "github.com/nithinv16/DukaaOnWebsite/docs"
	"github.com/nithinv16/DukaaOnWebsite/internal/config"
	"github.com/nithinv16/DukaaOnWebsite/internal/database"
	"github.com/nithinv16/DukaaOnWebsite/internal/events"
	"github.com/nithinv16/DukaaOnWebsite/internal/geo"
	"github.com/nithinv16/DukaaOnWebsite/internal/geolocation"
	"github.com/nithinv16/DukaaOnWebsite/internal/handlers"
	"github.com/nithinv16/DukaaOnWebsite/internal/logger"
	"github.com/nithinv16/DukaaOnWebsite/internal/middleware"
	"github.com/nithinv16/DukaaOnWebsite/internal/ratelimit"
	"github.com/nithinv16/DukaaOnWebsite/internal/services"
	"github.com/nithinv16/DukaaOnWebsite/internal/telemetry"
	"github.com/nithinv16/DukaaOnWebsite/pkg/auth"
	"github.com/nithinv16/DukaaOnWebsite/pkg/email"
	"github.com/nithinv16/DukaaOnWebsite/pkg/firebase"
)

const serviceName = "dukaaon-api"

// @title DukaaOn API
// @version 1.0.0
// @description 농촌 소매점용 B2B 도매상 검색 API
// @host api.dukaaon.in
// @BasePath /v1
// @schemes https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg.ServerEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLog := logger.GetLogger("main")

	// Initialize OpenTelemetry Tracer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracerShutdown, err := telemetry.InitTracer(ctx, serviceName, cfg.SigNozEndpoint)
	if err != nil {
		appLog.Warnf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(context.Background()); err != nil {
			appLog.Warnf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, serviceName, cfg.SigNozEndpoint)
	if err != nil {
		appLog.Warnf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := meterShutdown(context.Background()); err != nil {
			appLog.Warnf("Error shutting down metrics: %v", err)
		}
	}()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		appLog.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		appLog.Fatalf("Failed to run migrations: %v", err)
	}
	go database.StartConnectionPoolMetricsCollector(ctx, db.DB, 15*time.Second)

	svc := buildServices(ctx, cfg, db)
	defer svc.close()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "DukaaOn API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	// JSON 구조화 로깅
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "Asia/Kolkata",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: serviceName,
	}))
	app.Use(middleware.PrometheusMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Authorization, Content-Type, Origin, User-Agent, X-Requested-With",
		AllowCredentials: false, // AllowOrigins가 "*"일 때는 false여야 함
		ExposeHeaders:    "Content-Length, Content-Type, Retry-After, Cache-Control",
		MaxAge:           86400, // Preflight 캐시 24시간
	}))

	setupRoutes(app, db, cfg, svc)

	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		appLog.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			appLog.Errorf("Error shutting down server: %v", err)
		}
	}()

	appLog.Infof("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		appLog.Errorf("Failed to start server: %v", err)
	}

	cancel()
	// 진행 중인 알림 발송 대기
	svc.enquiries.Wait()
	appLog.Info("Server stopped")
}

type appServices struct {
	sellers     *services.SellerService
	products    *services.ProductService
	geolocation *services.GeolocationService
	enquiries   *services.EnquiryService
	auth        *services.AuthService

	limiter *ratelimit.FixedWindow
	window  time.Duration

	publisher *events.Publisher
}

func (s *appServices) close() {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Close(); err != nil {
		logger.GetLogger("main").Warnf("Error closing kafka writer: %v", err)
	}
}

func buildServices(ctx context.Context, cfg *config.Config, db *database.DB) *appServices {
	out := &appServices{
		sellers:  services.NewSellerService(database.NewSellerRepository(db), logger.GetLogger("sellers")),
		products: services.NewProductService(database.NewProductRepository(db)),
		auth:     services.NewAuthService(cfg),
	}

	// IP geolocation: ip-api.com -> ipapi.co -> 인도 중심 좌표
	chain := geolocation.NewChain(logger.GetLogger("geolocation"), cfg.GeoTimeout,
		geolocation.NewIPAPIProvider(cfg.GeoPrimaryURL, cfg.GeoTimeout, cfg.GeoPrimaryPerMin),
		geolocation.NewIPAPICoProvider(cfg.GeoSecondaryURL, cfg.GeoTimeout),
	)
	if cfg.GeoDefaultLat != geolocation.DefaultLocation.Latitude || cfg.GeoDefaultLng != geolocation.DefaultLocation.Longitude {
		def := geolocation.DefaultLocation
		def.Coordinates = geo.Coordinates{Latitude: cfg.GeoDefaultLat, Longitude: cfg.GeoDefaultLng}
		chain.WithDefault(def)
	}
	geoCache := database.NewGeolocationCacheStore(db, cfg.GeoCacheTTL)
	out.geolocation = services.NewGeolocationService(chain, geoCache, cfg.GeoCacheTTL, logger.GetLogger("geolocation"))
	go purgeGeolocationCache(ctx, geoCache, cfg.GeoCacheTTL)

	// Enquiry rate limit: env defaults, rate_limit_configs override
	limits := services.ResolveRateLimit(ctx, database.NewRateLimitConfigRepository(db), services.EnquiryEndpoint,
		services.RateLimitSettings{Window: cfg.RateLimitWindow, MaxRequests: cfg.RateLimitMaxRequests},
		logger.GetLogger("ratelimit"))
	logger.GetLogger("ratelimit").Infof("Enquiry rate limit %d per %s (%s)", limits.MaxRequests, limits.Window, limits.Source)
	out.limiter = ratelimit.NewFixedWindow(limits.Window, limits.MaxRequests, ratelimit.WithName("enquiry"))
	out.window = limits.Window
	go out.limiter.StartSweeper(ctx, cfg.RateLimitSweep)

	out.enquiries = services.NewEnquiryService(database.NewEnquiryRepository(db), logger.GetLogger("enquiry"),
		buildNotifiers(ctx, cfg, out)...)
	return out
}

// buildNotifiers returns only the channels that are configured
func buildNotifiers(ctx context.Context, cfg *config.Config, out *appServices) []services.EnquiryNotifier {
	log := logger.GetLogger("notify")
	var notifiers []services.EnquiryNotifier

	mailer := email.NewEmailService(cfg)
	if mailer.IsConfigured() && cfg.EnquiryNotifyEmail != "" {
		notifiers = append(notifiers, services.NewEmailNotifier(mailer, cfg.EnquiryNotifyEmail))
	} else {
		log.Info("Email notification disabled")
	}

	if cfg.FCMEnquiryTopic != "" {
		fcm := firebase.NewFCMService(ctx, cfg.FirebaseCredentialsJSON, cfg.FirebaseCredentialsPath, logger.GetLogger("fcm"))
		if fcm.IsInitialized() {
			notifiers = append(notifiers, services.NewPushNotifier(fcm, cfg.FCMEnquiryTopic))
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		out.publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEnquiryTopic, logger.GetLogger("events"))
		notifiers = append(notifiers, services.NewEventNotifier(out.publisher))
	}

	return notifiers
}

func purgeGeolocationCache(ctx context.Context, store *database.GeolocationCacheStore, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log := logger.GetLogger("geolocation")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.PurgeExpired(ctx, now)
			if err != nil {
				log.Warnf("Geolocation cache purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Debugf("Purged %d expired geolocation cache rows", n)
			}
		}
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config, svc *appServices) {
	// Swagger UI
	app.Get("/v1/docs/*", swagger.HandlerDefault)

	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/v1/health", handlers.HealthCheck)
	app.Get("/v1/readiness", handlers.ReadinessCheck(db))
	app.Get("/v1/liveness", handlers.LivenessCheck)

	// Prometheus scrape endpoint
	if cfg.MetricsInternalOnly {
		app.Get("/metrics", middleware.InternalOnly(), middleware.PrometheusHandler())
	} else {
		app.Get("/metrics", middleware.PrometheusHandler())
	}

	// API v1 group
	v1 := app.Group("/v1")

	handlers.SetupSellerRoutes(v1.Group("/sellers"), svc.sellers)
	handlers.SetupProductRoutes(v1.Group("/products"), svc.products)
	handlers.SetupGeolocationRoutes(v1.Group("/geolocation"), svc.geolocation)
	handlers.SetupEnquiryRoutes(v1.Group("/enquiry"), svc.enquiries,
		middleware.RateLimit(svc.limiter, svc.window),
		middleware.AdminRequired(cfg.JWTSecretKey))

	// Admin auth (no auth required)
	handlers.SetupAuthRoutes(v1.Group("/admin"), svc.auth)
}
