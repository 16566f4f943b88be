// Cinequiz - Quiz-Driven Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinequiz

package events

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinequiz/internal/breaker"
	"github.com/tomtom215/cinequiz/internal/logging"
	"github.com/tomtom215/cinequiz/internal/metrics"
)

// Backend selects the transport behind the Bus.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendNATS     Backend = "nats"
	BackendDisabled Backend = "disabled"
)

// Config configures a Bus.
type Config struct {
	Backend Backend

	// NATSURL is used when Backend is nats and Embedded is false.
	NATSURL string

	// Embedded starts an in-process JetStream server.
	Embedded     bool
	EmbeddedHost string
	EmbeddedPort int
	StoreDir     string

	StreamName   string
	StreamMaxAge time.Duration
	DurableName  string

	// BufferSize is the gochannel output buffer.
	BufferSize int64
}

// DefaultConfig returns an in-memory bus configuration.
func DefaultConfig() Config {
	return Config{
		Backend:      BackendMemory,
		NATSURL:      natsgo.DefaultURL,
		EmbeddedHost: "127.0.0.1",
		EmbeddedPort: 4222,
		StreamName:   "CINEQUIZ",
		StreamMaxAge: 7 * 24 * time.Hour,
		DurableName:  "cinequiz-analytics",
		BufferSize:   256,
	}
}

// Bus publishes JSON payloads and exposes the matching subscriber for a
// Router. It is safe for concurrent use.
type Bus struct {
	backend    Backend
	publisher  message.Publisher
	subscriber message.Subscriber
	cb         *breaker.Breaker
	logger     zerolog.Logger

	server *EmbeddedServer
	conn   *natsgo.Conn

	mu     sync.RWMutex
	closed bool
}

var _ Publisher = (*Bus)(nil)

// NewBus creates a Bus for cfg.Backend. A nil breaker disables circuit
// breaking on publish.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(ctx context.Context, cfg Config, cb *breaker.Breaker, logger zerolog.Logger) (*Bus, error) {
	logger = logger.With().Str("component", "events").Logger()
	wmLogger := logging.NewWatermillAdapter(logger)

	b := &Bus{backend: cfg.Backend, cb: cb, logger: logger}

	switch cfg.Backend {
	case BackendMemory, "":
		b.backend = BackendMemory
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, wmLogger)
		b.publisher = ch
		b.subscriber = ch
	case BackendNATS:
		if err := b.initNATS(ctx, cfg, wmLogger); err != nil {
			_ = b.Close()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported event backend %q", cfg.Backend)
	}

	logger.Info().Str("backend", string(b.backend)).Msg("event bus ready")
	return b, nil
}

func (b *Bus) initNATS(ctx context.Context, cfg Config, wmLogger watermill.LoggerAdapter) error {
	url := cfg.NATSURL
	if cfg.Embedded {
		srv, err := NewEmbeddedServer(ServerConfig{
			Host:     cfg.EmbeddedHost,
			Port:     cfg.EmbeddedPort,
			StoreDir: cfg.StoreDir,
		})
		if err != nil {
			return err
		}
		b.server = srv
		url = srv.ClientURL()
		b.logger.Info().Str("url", url).Msg("embedded NATS server started")
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				b.logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			b.logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := natsgo.Connect(url, natsOpts...)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	b.conn = nc

	if err := EnsureStream(ctx, nc, StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{"experiment.>", "recommendation.>"},
		MaxAge:   cfg.StreamMaxAge,
	}); err != nil {
		return err
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, wmLogger)
	if err != nil {
		return fmt.Errorf("create NATS publisher: %w", err)
	}
	b.publisher = pub

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     10 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.BindStream(cfg.StreamName),
				natsgo.DeliverNew(),
				natsgo.MaxDeliver(5),
			},
			DurablePrefix:     cfg.DurableName,
			DurableCalculator: durableName,
		},
	}, wmLogger)
	if err != nil {
		return fmt.Errorf("create NATS subscriber: %w", err)
	}
	b.subscriber = sub
	return nil
}

// durableName derives a per-topic consumer name. Consumer names may not
// contain dots or wildcards.
func durableName(prefix, topic string) string {
	return prefix + "-" + strings.NewReplacer(".", "-", ">", "all", "*", "any").Replace(topic)
}

// Publish encodes payload and publishes it to topic.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	msg, err := NewMessage(topic, payload)
	if err != nil {
		metrics.RecordEventPublished(topic, err)
		return err
	}
	msg.SetContext(ctx)
	if b.backend == BackendNATS {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}

	publish := func() (struct{}, error) {
		return struct{}{}, b.publisher.Publish(topic, msg)
	}
	if b.cb != nil {
		_, err = breaker.Do(b.cb, publish)
	} else {
		_, err = publish()
	}
	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscriber returns the subscriber that receives this bus's messages.
// Closing it is a no-op: a watermill router closes its subscribers on
// shutdown, and the bus must outlive router restarts. Bus.Close releases it.
func (b *Bus) Subscriber() message.Subscriber {
	return sharedSubscriber{b.subscriber}
}

type sharedSubscriber struct {
	message.Subscriber
}

func (sharedSubscriber) Close() error { return nil }

// Backend reports the active transport.
func (b *Bus) Backend() Backend {
	return b.backend
}

// Close releases the publisher, subscriber, connection and embedded server.
// It is idempotent.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if b.publisher != nil {
		if err := b.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	// gochannel is both publisher and subscriber.
	if b.subscriber != nil && b.backend != BackendMemory {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.conn != nil {
		b.conn.Close()
	}
	if b.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown NATS server: %w", err))
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
