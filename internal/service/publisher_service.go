package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"credit-assess-be/internal/dto"
	"credit-assess-be/pkg/events"
)

// IPublisherService puts workflow audit events on the in-process bus. A
// publish failure is an observability gap, never a workflow failure.
type IPublisherService interface {
	PublishAssessmentEvent(ctx context.Context, evt events.Event) error
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

func (ps *publisherService) PublishAssessmentEvent(_ context.Context, evt events.Event) error {
	msgPayload := dto.AssessmentEventMessage{
		Type:       evt.EventType(),
		Data:       evt.Payload(),
		OccurredAt: evt.Timestamp().Format(time.RFC3339),
	}

	payload, err := json.Marshal(msgPayload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return ps.pubSub.Publish(ps.topicName, msg)
}
