package log

import "github.com/ThreeDotsLabs/watermill/message"

// CorrelationPublisherDecorator stamps outgoing messages with the
// correlation ID from the message context.
type CorrelationPublisherDecorator struct {
	message.Publisher
}

func (c CorrelationPublisherDecorator) Publish(topic string, messages ...*message.Message) error {
	for i := range messages {
		// if correlation_id is already set, let's not override
		if messages[i].Metadata.Get("correlation_id") != "" {
			continue
		}

		messages[i].Metadata.Set("correlation_id", CorrelationIDFromContext(messages[i].Context()))
	}

	return c.Publisher.Publish(topic, messages...)
}
