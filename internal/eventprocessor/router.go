// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      2,
		RetryInitialInterval: time.Second,
		RetryMaxInterval:     30 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// consumer is one registered handler.
type consumer struct {
	name    string
	topic   string
	handler message.NoPublishHandlerFunc
}

// sharedSubscriber stops the Watermill router from closing a subscriber that
// Transport owns, so the router can be rebuilt after Shutdown.
type sharedSubscriber struct {
	message.Subscriber
}

func (sharedSubscriber) Close() error { return nil }

// Router runs the consumer handlers on a Watermill router. A fresh
// message.Router is built on every Start so a supervisor can restart it.
type Router struct {
	subscriber message.Subscriber
	config     RouterConfig
	logger     watermill.LoggerAdapter
	consumers  []consumer

	mu      sync.Mutex
	router  *message.Router
	done    chan struct{}
	running atomic.Bool
}

// NewRouter creates a router reading from subscriber.
func NewRouter(subscriber message.Subscriber, cfg *RouterConfig, logger watermill.LoggerAdapter) *Router {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}
	return &Router{
		subscriber: subscriber,
		config:     *cfg,
		logger:     logger,
	}
}

// AddConsumerHandler registers a handler for topic. Must be called before Start.
func (r *Router) AddConsumerHandler(name, topic string, handler message.NoPublishHandlerFunc) {
	r.consumers = append(r.consumers, consumer{name: name, topic: topic, handler: handler})
}

func (r *Router) build() (*message.Router, error) {
	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: r.config.CloseTimeout,
	}, r.logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Outer to inner: recover panics, then retry with backoff.
	wmRouter.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      r.config.RetryMaxRetries,
		InitialInterval: r.config.RetryInitialInterval,
		MaxInterval:     r.config.RetryMaxInterval,
		Multiplier:      r.config.RetryMultiplier,
		Logger:          r.logger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	for _, c := range r.consumers {
		wmRouter.AddConsumerHandler(c.name, c.topic, sharedSubscriber{r.subscriber}, c.handler)
	}
	return wmRouter, nil
}

// Start builds the router, runs it in the background and returns once all
// handlers are subscribed.
func (r *Router) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.router != nil {
		return fmt.Errorf("router already started")
	}

	wmRouter, err := r.build()
	if err != nil {
		return err
	}
	done := make(chan struct{})
	runErr := make(chan error, 1)

	go func() {
		defer close(done)
		r.running.Store(true)
		defer r.running.Store(false)
		if err := wmRouter.Run(context.WithoutCancel(ctx)); err != nil {
			r.logger.Error("Router error", err, nil)
			runErr <- err
		}
	}()

	select {
	case <-wmRouter.Running():
	case err := <-runErr:
		return fmt.Errorf("router failed to start: %w", err)
	case <-ctx.Done():
		_ = wmRouter.Close()
		<-done
		return ctx.Err()
	}

	r.router = wmRouter
	r.done = done
	return nil
}

// Shutdown closes the router and waits for in-flight handlers, bounded by ctx.
func (r *Router) Shutdown(ctx context.Context) {
	r.mu.Lock()
	wmRouter, done := r.router, r.done
	r.router, r.done = nil, nil
	r.mu.Unlock()

	if wmRouter == nil {
		return
	}
	if err := wmRouter.Close(); err != nil {
		r.logger.Error("Router close error", err, nil)
	}
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// IsRunning reports whether the router is processing messages.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}
