package service

import (
	"context"
	"encoding/json"

	"image-processing-be/internal/dto"
	"image-processing-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// FeedBroadcaster delivers a serialized feed message to connected clients.
// *websocket.Hub implements it.
type FeedBroadcaster interface {
	Broadcast(data []byte)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	broadcaster FeedBroadcaster
	logger      logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	broadcaster FeedBroadcaster,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Consume subscribes to the feed topic and forwards messages until ctx ends.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	// Invalid payloads are acked; redelivery would never fix them.
	defer msg.Ack()

	var feed dto.HistoryFeedMessage
	if err := json.Unmarshal(msg.Payload, &feed); err != nil {
		cs.logger.Warn("FEED", "Dropping malformed feed message", map[string]interface{}{"error": err.Error(), "uuid": msg.UUID})
		return
	}

	cs.logger.Debug("FEED", "Broadcasting feed message", map[string]interface{}{"type": feed.Type})
	cs.broadcaster.Broadcast(msg.Payload)
}
