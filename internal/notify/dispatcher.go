package notify

import (
	"context"
	"sync"
	"time"

	"carcare/internal/config"
	"carcare/internal/metrics"

	"github.com/rs/zerolog"
)

const (
	defaultQueueSize   = 100
	defaultWorkers     = 2
	defaultSendTimeout = 15 * time.Second
)

// Dispatcher delivers messages in the background through a bounded queue.
// Delivery is best effort: nothing is retried and a full queue drops.
type Dispatcher struct {
	sender  Sender
	queue   chan Message
	workers int
	timeout time.Duration
	logger  zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher; call Start before Enqueue.
func NewDispatcher(sender Sender, cfg config.MailConfig, logger zerolog.Logger) *Dispatcher {
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	return &Dispatcher{
		sender:  sender,
		queue:   make(chan Message, size),
		workers: workers,
		timeout: timeout,
		logger:  logger.With().Str("component", "mail_dispatcher").Logger(),
	}
}

// Start launches the worker goroutines. Calling it twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(i)
	}
	d.logger.Info().Int("workers", d.workers).Int("queue_size", cap(d.queue)).Msg("mail dispatcher started")
}

// Enqueue hands msg to the workers without blocking. It reports false when the
// message was dropped because the queue is full or the dispatcher is stopped.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(msg, "dispatcher stopped")
		return false
	}

	select {
	case d.queue <- msg:
		return true
	default:
		d.drop(msg, "queue full")
		return false
	}
}

// Stop closes the queue and waits for queued messages to be sent, or for ctx
// to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info().Msg("mail dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.logger.Warn().Int("pending", len(d.queue)).Msg("mail dispatcher stop timed out")
		return ctx.Err()
	}
}

func (d *Dispatcher) run(id int) {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(id, msg)
	}
}

func (d *Dispatcher) deliver(worker int, msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	if err := d.sender.Send(ctx, msg); err != nil {
		metrics.IncNotification(metrics.NotificationFailed)
		d.logger.Error().Err(err).
			Int("worker", worker).
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Msg("failed to send email")
		return
	}

	metrics.IncNotification(metrics.NotificationSent)
	d.logger.Info().
		Int("worker", worker).
		Str("to", msg.To).
		Dur("took", time.Since(start)).
		Msg("email sent")
}

func (d *Dispatcher) drop(msg Message, reason string) {
	metrics.IncNotification(metrics.NotificationDropped)
	d.logger.Warn().Str("to", msg.To).Str("reason", reason).Msg("email dropped")
}
