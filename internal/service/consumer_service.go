package service

import (
	"context"
	"encoding/json"
	"time"

	"report-assistant-be/internal/pkg/logger"
	"report-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains session events into the audit log.
type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	auditLogger logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	auditLogger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		auditLogger: auditLogger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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
	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.auditLogger.Error("AUDIT", "Failed to unmarshal session event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Malformed payloads would be redelivered forever.
		msg.Ack()
		return
	}

	cs.auditLogger.Info("AUDIT", event.Type, map[string]interface{}{
		"message_id":  msg.UUID,
		"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
		"data":        event.Data,
	})
	msg.Ack()
}
