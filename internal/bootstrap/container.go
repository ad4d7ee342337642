package bootstrap

import (
	"context"
	"log"

	"ai-journaling-be/internal/config"
	"ai-journaling-be/internal/controller"
	"ai-journaling-be/internal/handler"
	"ai-journaling-be/internal/pkg/cache"
	"ai-journaling-be/internal/pkg/logger"
	"ai-journaling-be/internal/pkg/mailer"
	"ai-journaling-be/internal/pkg/serverutils"
	"ai-journaling-be/internal/repository/implementation"
	"ai-journaling-be/internal/repository/memory"
	"ai-journaling-be/internal/repository/unitofwork"
	"ai-journaling-be/internal/service"
	"ai-journaling-be/internal/websocket"
	"ai-journaling-be/pkg/admin/dashboard"
	"ai-journaling-be/pkg/admin/user"
	"ai-journaling-be/pkg/insight"
	pktNats "ai-journaling-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	UserController     controller.IUserController
	JournalController  controller.IJournalController
	WellnessController controller.IWellnessController
	AdminController    controller.IAdminController

	// Services used outside HTTP (cmd/journalctl, main.go)
	AuthService     service.IAuthService
	JournalService  service.IJournalService
	WellnessService service.IWellnessService
	AdminService    service.IAdminService
	Analyzer        *LazyAnalyzer

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService service.INotificationService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	closers []func()
}

// NewContainer wires every layer. NATS and Redis are optional: without
// NATS events are dropped and notifications are read-only, without Redis
// caches are in-process and the hub does not fan out across instances.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	uowFactory := unitofwork.NewRepositoryFactory(db)
	emailService := mailer.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password, cfg.SMTP.SenderName)
	otpRepo := memory.NewOTPRepository(cfg.Auth.OTPTTL)
	location := cfg.Location()

	// 2. Emotion pipeline
	catalog := insight.DefaultCatalog()
	c.Analyzer = NewLazyAnalyzer(cfg, catalog, appLogger.Zap())

	// 3. Redis (cache + websocket fan-out)
	var rdb *redis.Client
	var appCache cache.Cache
	if client, err := cache.NewRedisClient(ctx, cfg.App.RedisURL); err != nil {
		log.Printf("[WARN] Redis unavailable (%v); using in-memory cache", err)
		appCache = cache.NewMemoryCache()
	} else {
		rdb = client
		appCache = cache.NewRedisCache(rdb, "journal:")
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 4. NATS (domain events)
	var sink service.EventSink
	var subscriber service.EventSubscriber
	if pub, err := pktNats.NewPublisher(cfg.App.NatsURL); err != nil {
		log.Printf("[WARN] NATS publisher unavailable: %v", err)
	} else {
		sink = pub
		c.closers = append(c.closers, pub.Close)
	}
	if sub, err := pktNats.NewSubscriber(cfg.App.NatsURL); err != nil {
		log.Printf("[WARN] NATS subscriber unavailable: %v", err)
	} else {
		subscriber = sub
		c.closers = append(c.closers, sub.Close)
	}
	eventPublisher := service.NewEventPublisher(sink, appLogger)

	// 5. In-process post-save jobs
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 6. WebSocket hub
	hubLogger := logger.NewIsolatedLogger("logs/notification.log")
	c.WebSocketHub = websocket.NewHub(rdb, hubLogger)
	go c.WebSocketHub.Run(ctx)

	// 7. Services
	userManager := user.NewManager(appLogger)
	aggregator := dashboard.NewAggregator(appLogger, cfg.Analysis.UnclassifiedLabel, location)

	c.AuthService = service.NewAuthService(uowFactory, emailService, otpRepo, eventPublisher, service.AuthOptions{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
		OTPTTL:    cfg.Auth.OTPTTL,
	})
	userService := service.NewUserService(uowFactory, userManager)
	c.JournalService = service.NewJournalService(uowFactory, c.Analyzer, eventPublisher, pubSub, service.JournalOptions{
		PersistUnclassified: cfg.Analysis.PersistUnclassified,
		UnclassifiedLabel:   cfg.Analysis.UnclassifiedLabel,
		Location:            location,
	})
	c.WellnessService = service.NewWellnessService(uowFactory, catalog, eventPublisher, location)
	quoteService := service.NewQuoteService(appCache, service.QuoteOptions{
		URL:      cfg.Quote.URL,
		Fallback: cfg.Quote.Fallback,
		Location: location,
	})
	c.AdminService = service.NewAdminService(uowFactory, aggregator, userManager, appCache, eventPublisher, appLogger)
	c.NotificationService = service.NewNotificationService(
		implementation.NewNotificationRepository(db),
		subscriber,
		c.WebSocketHub,
		hubLogger,
	)
	c.ConsumerService = service.NewConsumerService(pubSub, service.TopicEntrySaved, appCache)

	// 8. Controllers
	limiter := serverutils.NewRateLimiter(cfg.RateLimit.AnalyzePerMinute, cfg.RateLimit.Burst)
	c.AuthController = controller.NewAuthController(c.AuthService)
	c.UserController = controller.NewUserController(userService, cfg.Auth.JWTSecret)
	c.JournalController = controller.NewJournalController(c.JournalService, limiter, cfg.Auth.JWTSecret)
	c.WellnessController = controller.NewWellnessController(c.WellnessService, quoteService, cfg.Auth.JWTSecret)
	c.AdminController = controller.NewAdminController(c.AdminService, c.AuthService, cfg.Auth.JWTSecret)
	c.NotificationHandler = handler.NewNotificationHandler(c.NotificationService, c.WebSocketHub, cfg.Auth.JWTSecret, hubLogger)

	// 9. Admin account
	if _, err := c.AdminService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Printf("[WARN] Failed to ensure admin account: %v", err)
	}

	return c
}

// Close releases the broker and cache connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
