package bootstrap

import (
	"context"
	"fmt"

	"image-processing-be/internal/config"
	"image-processing-be/internal/controller"
	"image-processing-be/internal/handler"
	"image-processing-be/internal/metrics"
	"image-processing-be/internal/pkg/logger"
	"image-processing-be/internal/repository/contract"
	"image-processing-be/internal/repository/memory"
	"image-processing-be/internal/repository/rediscache"
	"image-processing-be/internal/repository/unitofwork"
	"image-processing-be/internal/service"
	"image-processing-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController  controller.ISessionController
	ImageController    controller.IImageController
	FileController     controller.IFileController
	HistoryController  controller.IHistoryController
	HistoryFeedHandler *handler.HistoryFeedHandler

	// Background services (run by main)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	SessionRepository contract.SessionRepository
	Metrics           *metrics.Metrics
	Logger            logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	appMetrics := metrics.New()

	c := &Container{Metrics: appMetrics, Logger: sysLogger}

	// 2. Storage
	uploads, processed, err := NewFileStores(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("file storage: %w", err)
	}

	// 3. Infrastructure
	rdb := NewRedisClient(ctx, cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	var sessionRepo contract.SessionRepository
	switch cfg.App.SessionStore {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("SESSION_STORE=redis requires REDIS_URL")
		}
		sessionRepo = rediscache.NewSessionRepository(rdb, cfg.App.SessionTTL)
	default:
		sessionRepo = memory.NewSessionRepository(cfg.App.SessionTTL)
	}
	c.SessionRepository = sessionRepo

	eventPublisher, closeEvents := NewEventPublisher(cfg.App.NatsURL, sysLogger)
	c.closers = append(c.closers, closeEvents)

	// 4. Live history feed: services -> gochannel -> consumer -> hub -> clients
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	feedLogger := logger.NewIsolatedLogger(cfg.App.FeedLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, appMetrics, feedLogger)

	publisherService := service.NewPublisherService(service.HistoryFeedTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, service.HistoryFeedTopic, c.WebSocketHub, feedLogger)

	// 5. Domain services
	identityService := service.NewIdentityService(uowFactory, sessionRepo, eventPublisher, sysLogger)
	uploadService := service.NewUploadService(cfg.Storage, uploads, sessionRepo, appMetrics, sysLogger)
	filterService := service.NewFilterService(
		uowFactory,
		identityService,
		uploads,
		processed,
		sessionRepo,
		eventPublisher,
		publisherService,
		appMetrics,
		sysLogger,
		service.FilterOptions{Strict: cfg.App.StrictFilters, JPEGQuality: cfg.Storage.JPEGQuality},
	)
	historyService := service.NewHistoryService(uowFactory, uploads, processed, eventPublisher, publisherService, appMetrics, sysLogger)

	// 6. Controllers
	c.SessionController = controller.NewSessionController(identityService, cfg.App.SessionCookieName)
	c.ImageController = controller.NewImageController(uploadService, filterService)
	c.FileController = controller.NewFileController(uploads, processed)
	c.HistoryController = controller.NewHistoryController(historyService)
	c.HistoryFeedHandler = handler.NewHistoryFeedHandler(c.WebSocketHub, feedLogger)

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}
