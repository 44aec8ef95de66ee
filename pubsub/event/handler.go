package event

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// NotificationsService delivers booking confirmations. Delivery is advisory:
// the booking stays confirmed whether or not the notice goes out.
type NotificationsService interface {
	SendBookingConfirmation(ctx context.Context, email, eventTitle string, ticketCount int, bookingID string) error
}

type Handler struct {
	notificationsService NotificationsService
}

func NewHandler(notificationsService NotificationsService) Handler {
	if notificationsService == nil {
		panic("missing notificationsService")
	}

	return Handler{
		notificationsService: notificationsService,
	}
}

func NewProcessorConfig(rdb *redis.Client, logger watermill.LoggerAdapter) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        rdb,
				ConsumerGroup: "svc-eventmanager." + params.HandlerName,
			}, logger)
		},
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return "events." + params.EventName, nil
		},
		Marshaler: cqrs.JSONMarshaler{
			GenerateName: cqrs.StructName,
		},
		Logger: logger,
	}
}
