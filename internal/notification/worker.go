package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"salon-booking-backend/internal/model"
)

// Noop discards every booking.
type Noop struct{}

func (Noop) Dispatch(model.Booking) {}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size        int
	jobs        chan model.Booking
	channels    []Channel
	maxAttempts int
	backoff     time.Duration
	log         *zap.Logger
	wg          sync.WaitGroup
}

// PoolOptions tunes a WorkerPool. Zero values fall back to defaults.
type PoolOptions struct {
	Size         int
	QueueSize    int
	MaxAttempts  int
	RetryBackoff time.Duration
}

// NewWorkerPool creates a new worker pool delivering over channels.
func NewWorkerPool(opts PoolOptions, channels []Channel, log *zap.Logger) *WorkerPool {
	if opts.Size <= 0 {
		opts.Size = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = opts.Size
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkerPool{
		size:        opts.Size,
		jobs:        make(chan model.Booking, opts.QueueSize), // Buffered channel
		channels:    channels,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.RetryBackoff,
		log:         log,
	}
}

// Start launches the worker goroutines. They exit when ctx is done.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until all workers have exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	wp.log.Debug("notification worker started", zap.Int("worker", id))
	for {
		select {
		case b := <-wp.jobs:
			Deliver(ctx, b, wp.channels, wp.maxAttempts, wp.backoff, wp.log)
		case <-ctx.Done():
			wp.log.Debug("notification worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues b without blocking. When the queue is full the booking is
// dropped and logged.
func (wp *WorkerPool) Dispatch(b model.Booking) {
	select {
	case wp.jobs <- b:
	default:
		wp.log.Warn("notification queue full, confirmation dropped",
			zap.String("booking", b.ID), zap.Int("queue", cap(wp.jobs)))
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan model.Booking {
	return wp.jobs
}

// Deliver sends b over every applicable channel, retrying each up to
// maxAttempts times with linear backoff. Channels that still fail are logged
// as dead letters. Deliver never returns an error.
func Deliver(ctx context.Context, b model.Booking, channels []Channel, maxAttempts int, backoff time.Duration, log *zap.Logger) {
	for _, ch := range channels {
		if !ch.Applies(b) {
			continue
		}
		err := attempt(ctx, b, ch, maxAttempts, backoff, log)
		if err != nil {
			log.Error("notification dead-lettered",
				zap.String("channel", ch.Name()),
				zap.String("booking", b.ID),
				zap.String("date", b.Date),
				zap.String("time", b.Time),
				zap.Error(err),
			)
			continue
		}
		log.Info("notification sent", zap.String("channel", ch.Name()), zap.String("booking", b.ID))
	}
}

func attempt(ctx context.Context, b model.Booking, ch Channel, maxAttempts int, backoff time.Duration, log *zap.Logger) error {
	var err error
	for n := 1; n <= maxAttempts; n++ {
		if err = ch.Send(ctx, b); err == nil || IsPermanent(err) {
			return err
		}
		if n == maxAttempts {
			break
		}
		log.Warn("notification failed, retrying",
			zap.String("channel", ch.Name()), zap.String("booking", b.ID),
			zap.Int("attempt", n), zap.Error(err))
		select {
		case <-time.After(time.Duration(n) * backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
