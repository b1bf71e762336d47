// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/curator/internal/config"
)

// Transport kinds.
const (
	TransportChannel  = "channel"
	TransportNATS     = "nats"
	TransportEmbedded = "embedded"
)

// Transport bundles the publisher and subscriber of one message backend.
type Transport struct {
	Kind       string
	Publisher  message.Publisher
	Subscriber message.Subscriber

	server *EmbeddedServer
}

// NewTransport selects the backend from cfg:
//   - EmbeddedServer: start an in-process NATS server and connect to it
//   - URL set: connect to an external NATS server
//   - otherwise: an in-process Go channel pub/sub
func NewTransport(cfg *config.EventsConfig, logger watermill.LoggerAdapter) (*Transport, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	switch {
	case cfg.EmbeddedServer:
		srv, err := NewEmbeddedServer(cfg.EmbeddedHost, cfg.EmbeddedPort)
		if err != nil {
			return nil, err
		}
		t, err := newNATSTransport(srv.ClientURL(), cfg, logger)
		if err != nil {
			_ = srv.Shutdown(context.Background())
			return nil, err
		}
		t.Kind = TransportEmbedded
		t.server = srv
		return t, nil

	case cfg.URL != "":
		return newNATSTransport(cfg.URL, cfg, logger)

	default:
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, logger)
		return &Transport{
			Kind:       TransportChannel,
			Publisher:  ch,
			Subscriber: ch,
		}, nil
	}
}

func natsOptions(cfg *config.EventsConfig, logger watermill.LoggerAdapter) []natsgo.Option {
	maxReconnects := cfg.MaxReconnects
	if maxReconnects == 0 {
		maxReconnects = 60
	}
	reconnectWait := cfg.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}

	return []natsgo.Option{
		natsgo.Name("curator"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(maxReconnects),
		natsgo.ReconnectWait(reconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}
}

func newNATSTransport(url string, cfg *config.EventsConfig, logger watermill.LoggerAdapter) (*Transport, error) {
	closeTimeout := cfg.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = 30 * time.Second
	}
	opts := natsOptions(cfg, logger)

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: opts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		AckWaitTimeout:   closeTimeout,
		CloseTimeout:     closeTimeout,
		NatsOptions:      opts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &Transport{
		Kind:       TransportNATS,
		Publisher:  pub,
		Subscriber: sub,
	}, nil
}

// Close shuts down the publisher, the subscriber and any embedded server.
func (t *Transport) Close() error {
	var errs []error
	if t.Publisher != nil {
		if err := t.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	// The channel transport uses one object for both roles.
	if t.Subscriber != nil && t.Kind != TransportChannel {
		if err := t.Subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := t.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown NATS server: %w", err))
		}
	}
	return errors.Join(errs...)
}
