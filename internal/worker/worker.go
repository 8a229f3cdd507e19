// Package worker runs the network side of the client: it polls the backend,
// applies each event, and flushes the outgoing queue.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zhubert/tgterm/internal/backend"
	"github.com/zhubert/tgterm/internal/errors"
	"github.com/zhubert/tgterm/internal/logger"
	"github.com/zhubert/tgterm/internal/protocol"
)

// Applier consumes backend events. A fatal error stops the worker.
type Applier interface {
	Apply(ev *protocol.Event) error
}

// Drainer hands over every queued request at once.
type Drainer interface {
	Drain() []protocol.Request
}

// Network is the network worker. Each iteration performs one bounded
// receive, applies at most one event, then sends everything queued so far
// in enqueue order.
type Network struct {
	client  backend.Client
	ingest  Applier
	queue   Drainer
	timeout time.Duration
	log     *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

// New creates a worker. timeout bounds each receive and therefore how long
// a cancellation can go unnoticed.
func New(client backend.Client, ingest Applier, queue Drainer, timeout time.Duration) *Network {
	return &Network{
		client:  client,
		ingest:  ingest,
		queue:   queue,
		timeout: timeout,
		log:     logger.WithComponent("worker"),
		done:    make(chan struct{}),
	}
}

// Start runs the loop on its own goroutine.
func (w *Network) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go func() {
		defer w.once.Do(func() { close(w.done) })
		w.err = w.Run(ctx)
	}()
}

// Cancel asks a started worker to stop.
func (w *Network) Cancel() {
	if w.cancel != nil {
		w.cancel()
	}
}

// Wait blocks until a started worker has finished and returns its error.
func (w *Network) Wait() error {
	<-w.done
	return w.err
}

// Done reports whether a started worker has finished.
func (w *Network) Done() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// Run loops until ctx is cancelled or an event produces a fatal error,
// which is returned. Recoverable errors are logged.
func (w *Network) Run(ctx context.Context) error {
	w.log.Info("network worker started", "timeout", w.timeout)
	defer w.log.Info("network worker stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}

		if ev, ok := w.client.Receive(w.timeout); ok {
			if err := w.ingest.Apply(ev); err != nil {
				if errors.IsFatal(err) {
					w.log.Error("fatal error, stopping", "error", err)
					return err
				}
				w.log.Warn("event failed", "type", ev.Type, "error", err)
			}
		}

		for _, req := range w.queue.Drain() {
			w.log.Debug("sending", "request", req.String())
			w.client.Send(req)
		}
	}
}
