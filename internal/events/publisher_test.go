package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"image-processing-be/internal/entity"
	"image-processing-be/internal/pkg/logger"
	pkgEvents "image-processing-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	events []pkgEvents.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, e pkgEvents.Event) error {
	s.events = append(s.events, e)
	return s.err
}

func TestNatsPublisher_Publishes(t *testing.T) {
	sink := &recordingSink{}
	p := NewNatsPublisher(sink, logger.NewNopLogger())
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	ctx := context.Background()
	p.PublishUserCreated(ctx, &entity.User{Id: 7, Name: "Ada"})
	p.PublishImageProcessed(ctx, &entity.ProcessedImage{Id: 3, UserId: 7, UserName: "Ada", FilterKind: "sepia"})
	p.PublishHistoryCleared(ctx, 4, 2)

	require.Len(t, sink.events, 3)
	assert.Equal(t, pkgEvents.UserCreated, sink.events[0].EventType())
	assert.Equal(t, "Ada", sink.events[0].Payload()["username"])
	assert.Equal(t, pkgEvents.ImageProcessed, sink.events[1].EventType())
	assert.Equal(t, "sepia", sink.events[1].Payload()["filter_type"])
	assert.Equal(t, pkgEvents.HistoryCleared, sink.events[2].EventType())
	assert.Equal(t, int64(4), sink.events[2].Payload()["images_deleted"])
	assert.Equal(t, at, sink.events[2].Timestamp())
}

func TestNatsPublisher_NilSinkAndErrorsAreSwallowed(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() {
		NewNatsPublisher(nil, logger.NewNopLogger()).PublishHistoryCleared(ctx, 0, 0)
	})

	var nilPublisher *NatsPublisher
	assert.NotPanics(t, func() {
		nilPublisher.PublishUserCreated(ctx, &entity.User{Name: "Ada"})
	})

	sink := &recordingSink{err: errors.New("nats down")}
	assert.NotPanics(t, func() {
		NewNatsPublisher(sink, logger.NewNopLogger()).PublishUserCreated(ctx, &entity.User{Name: "Ada"})
	})
	assert.Len(t, sink.events, 1)
}
