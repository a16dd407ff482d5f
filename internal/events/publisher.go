package events

import (
	"context"
	"time"

	"image-processing-be/internal/entity"
	"image-processing-be/internal/pkg/logger"
	pkgEvents "image-processing-be/pkg/events"
)

// Publisher emits domain events. Implementations are best-effort: failures
// are logged and never returned to the caller.
type Publisher interface {
	PublishUserCreated(ctx context.Context, user *entity.User)
	PublishImageProcessed(ctx context.Context, image *entity.ProcessedImage)
	PublishHistoryCleared(ctx context.Context, images, users int64)
}

// EventSink is satisfied by *nats.Publisher.
type EventSink interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

type NatsPublisher struct {
	sink   EventSink
	logger logger.ILogger
	now    func() time.Time
}

// NewNatsPublisher accepts a nil sink, in which case every call is a no-op.
func NewNatsPublisher(sink EventSink, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{sink: sink, logger: logger, now: time.Now}
}

func (p *NatsPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p == nil || p.sink == nil {
		return
	}

	evt := pkgEvents.BaseEvent{Type: eventType, Data: data, OccurredAt: p.now()}
	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Warn("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *NatsPublisher) PublishUserCreated(ctx context.Context, user *entity.User) {
	p.publish(ctx, pkgEvents.UserCreated, map[string]interface{}{
		"user_id":  user.Id,
		"username": user.Name,
	})
}

func (p *NatsPublisher) PublishImageProcessed(ctx context.Context, image *entity.ProcessedImage) {
	p.publish(ctx, pkgEvents.ImageProcessed, map[string]interface{}{
		"id":                 image.Id,
		"user_id":            image.UserId,
		"username":           image.UserName,
		"original_filename":  image.OriginalFilename,
		"processed_filename": image.ProcessedFilename,
		"filter_type":        image.FilterKind,
	})
}

func (p *NatsPublisher) PublishHistoryCleared(ctx context.Context, images, users int64) {
	p.publish(ctx, pkgEvents.HistoryCleared, map[string]interface{}{
		"images_deleted": images,
		"users_deleted":  users,
	})
}
