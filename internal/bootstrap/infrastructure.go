package bootstrap

import (
	"context"
	"fmt"
	"log"

	"image-processing-be/internal/config"
	"image-processing-be/internal/events"
	"image-processing-be/internal/model"
	"image-processing-be/internal/pkg/logger"
	"image-processing-be/pkg/database"
	"image-processing-be/pkg/filestore"
	pktNats "image-processing-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// OpenDatabase connects with the configured driver and, unless disabled,
// creates the tables the service owns.
func OpenDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := database.Open(database.Options{
		Driver:   cfg.Driver,
		DSN:      cfg.Connection,
		LogLevel: cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	return db, nil
}

// NewFileStores builds the upload and processed stores for the configured
// driver. Both S3 stores share one bucket under different prefixes.
func NewFileStores(ctx context.Context, cfg config.StorageConfig) (uploads, processed filestore.Store, err error) {
	switch cfg.Driver {
	case "", "local":
		up, err := filestore.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		out, err := filestore.NewLocalStore(cfg.ProcessedDir)
		if err != nil {
			return nil, nil, err
		}
		return up, out, nil

	case "s3":
		if cfg.S3.Bucket == "" {
			return nil, nil, fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
		}
		client, err := filestore.NewS3Client(ctx, filestore.S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return filestore.NewS3Store(client, cfg.S3.Bucket, cfg.S3.UploadPrefix),
			filestore.NewS3Store(client, cfg.S3.Bucket, cfg.S3.ProcessedPrefix),
			nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// NewRedisClient returns nil when no URL is configured. An unreachable server
// is logged but not fatal; go-redis reconnects on demand.
func NewRedisClient(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return rdb
}

// NewEventPublisher connects to NATS when a URL is configured. Without one,
// or when the connection fails, events are silently dropped. The returned
// close func is always safe to call.
func NewEventPublisher(url string, log logger.ILogger) (*events.NatsPublisher, func()) {
	if url == "" {
		return events.NewNatsPublisher(nil, log), func() {}
	}

	natsPub, err := pktNats.NewPublisher(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to connect to NATS, events disabled", map[string]interface{}{"error": err.Error()})
		return events.NewNatsPublisher(nil, log), func() {}
	}
	return events.NewNatsPublisher(natsPub, log), natsPub.Close
}
