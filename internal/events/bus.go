// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/config"
)

// StreamName is the JetStream stream holding interaction events.
const StreamName = "CURATOR_INTERACTIONS"

// Bus backends.
const (
	BackendInProcess = "gochannel"
	BackendNATS      = "nats"
)

// Bus pairs the publisher and subscriber of one transport.
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Topic      string
	Backend    string

	closeOnce sync.Once
	closeErr  error
}

// NewBus builds the bus selected by cfg.NATS.Enabled. url overrides
// cfg.NATS.URL when non-empty, which is how the embedded server's client
// URL reaches the bus.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewBus(ctx context.Context, cfg *config.Config, url string, logger zerolog.Logger) (*Bus, error) {
	if !cfg.NATS.Enabled {
		return NewInProcessBus(cfg.Events, logger), nil
	}
	natsCfg := cfg.NATS
	if url != "" {
		natsCfg.URL = url
	}
	return NewNATSBus(ctx, natsCfg, cfg.Events, logger)
}

// NewInProcessBus returns a GoChannel bus. Publisher and Subscriber are the
// same instance.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewInProcessBus(cfg config.EventsConfig, logger zerolog.Logger) *Bus {
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 1024
	}
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: buffer,
	}, NewLoggerAdapter(logger))

	return &Bus{
		Publisher:  ch,
		Subscriber: ch,
		Topic:      topicOrDefault(cfg.Topic),
		Backend:    BackendInProcess,
	}
}

// NewNATSBus provisions the interaction stream and returns a JetStream bus
// with a durable queue-group subscriber.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func NewNATSBus(ctx context.Context, natsCfg config.NATSConfig, eventsCfg config.EventsConfig, logger zerolog.Logger) (*Bus, error) {
	topic := topicOrDefault(eventsCfg.Topic)
	wlog := NewLoggerAdapter(logger)

	if err := ensureStream(ctx, natsCfg.URL, topic); err != nil {
		return nil, err
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				wlog.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			wlog.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         natsCfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false, // stream created by ensureStream
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	subscribers := natsCfg.SubscribersCount
	if subscribers <= 0 {
		subscribers = 1
	}
	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              natsCfg.URL,
		QueueGroupPrefix: natsCfg.QueueGroup,
		SubscribersCount: subscribers,
		AckWaitTimeout:   natsCfg.AckWaitTimeout,
		CloseTimeout:     natsCfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false,
			AckAsync:      false,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.BindStream(StreamName),
				natsgo.MaxDeliver(eventsCfg.RetryMaxRetries + 2),
				natsgo.AckWait(natsCfg.AckWaitTimeout),
				natsgo.DeliverAll(),
			},
			DurablePrefix: natsCfg.DurableName,
		},
	}, wlog)
	if err != nil {
		closeErr := pub.Close()
		return nil, errors.Join(fmt.Errorf("create watermill subscriber: %w", err), closeErr)
	}

	return &Bus{
		Publisher:  pub,
		Subscriber: sub,
		Topic:      topic,
		Backend:    BackendNATS,
	}, nil
}

// Close closes the publisher and subscriber once.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		if b.Backend == BackendInProcess {
			b.closeErr = b.Publisher.Close()
			return
		}
		b.closeErr = errors.Join(b.Subscriber.Close(), b.Publisher.Close())
	})
	return b.closeErr
}

// ensureStream creates or updates the interaction stream. The call is
// idempotent.
func ensureStream(ctx context.Context, url, topic string) error {
	nc, err := natsgo.Connect(url, natsgo.Timeout(10*time.Second))
	if err != nil {
		return fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{topic},
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     7 * 24 * time.Hour,
		Duplicates: 2 * time.Minute,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
	})
	if err != nil {
		return fmt.Errorf("ensure stream %s: %w", StreamName, err)
	}
	return nil
}

func topicOrDefault(topic string) string {
	if topic == "" {
		return DefaultTopic
	}
	return topic
}
