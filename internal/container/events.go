package container

import (
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/tinyurl/internal/events"
	"github.com/serroba/tinyurl/internal/messaging"
	"go.uber.org/zap"
)

// ConsumerGroupName is the Redis stream consumer group of cmd/consumer.
const ConsumerGroupName = "tinyurl-events"

// PublisherGroupPackage provides the link event publishers. With Options.Events
// off, events go to an in-process channel nobody subscribes to.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)
		wmLogger := messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i).Named("events"))

		if !opts.Events {
			return messaging.NewPublisherGroup(gochannel.NewGoChannel(gochannel.Config{}, wmLogger)), nil
		}

		client, err := do.Invoke[*redis.Client](i)
		if err != nil {
			return nil, err
		}

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, wmLogger)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[events.LinkCreated], error) {
		return newPublishFunc[events.LinkCreated](i, events.TopicLinkCreated)
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[events.LinkResolved], error) {
		return newPublishFunc[events.LinkResolved](i, events.TopicLinkResolved)
	})
}

func newPublishFunc[T any](i *do.Injector, topic string) (messaging.Publish[T], error) {
	group, err := do.Invoke[*messaging.PublisherGroup](i)
	if err != nil {
		return nil, err
	}

	return messaging.NewPublishFunc[T](group.Publisher(), topic), nil
}

// ConsumerGroupPackage provides the Redis stream consumers that log link events.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		client, err := do.Invoke[*redis.Client](i)
		if err != nil {
			return nil, err
		}

		wmLogger := messaging.NewZapLogger(do.MustInvoke[*zap.Logger](i).Named("events"))

		return redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: ConsumerGroupName,
		}, wmLogger)
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		subscriber, err := do.Invoke[message.Subscriber](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i)
		sink := events.NewLogSink(logger.Named("sink"))

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, events.TopicLinkCreated, sink.LinkCreated, logger))
		group.Add(messaging.NewConsumer(subscriber, events.TopicLinkResolved, sink.LinkResolved, logger))

		return group, nil
	})
}
