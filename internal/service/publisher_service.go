package service

import (
	"context"
	"encoding/json"

	"image-processing-be/internal/dto"
	"image-processing-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const HistoryFeedTopic = "history.feed"

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pubSub.Publish(p.topicName, msg)
}

// publishFeed is best-effort; the live feed never fails a request.
func publishFeed(ctx context.Context, publisher IPublisherService, log logger.ILogger, feed dto.HistoryFeedMessage) {
	if publisher == nil {
		return
	}

	payload, err := json.Marshal(feed)
	if err != nil {
		log.Warn("FEED", "Failed to marshal feed message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := publisher.Publish(ctx, payload); err != nil {
		log.Warn("FEED", "Failed to publish feed message", map[string]interface{}{"error": err.Error(), "type": feed.Type})
	}
}
