package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"salon-booking-backend/internal/model"
)

// TypeBookingConfirmation is the asynq task type for confirmations.
const TypeBookingConfirmation = "booking:confirm"

// taskPayload names one channel and carries the fields the booking's JSON
// form hides.
type taskPayload struct {
	Channel string                 `json:"channel"`
	Booking model.Booking          `json:"booking"`
	Push    model.PushSubscription `json:"push"`
}

// NewConfirmationTask builds the asynq task delivering b over one channel.
func NewConfirmationTask(channel string, b model.Booking, maxAttempts int) (*asynq.Task, error) {
	raw, err := json.Marshal(taskPayload{Channel: channel, Booking: b, Push: b.Push})
	if err != nil {
		return nil, err
	}
	retries := maxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return asynq.NewTask(TypeBookingConfirmation, raw,
		asynq.MaxRetry(retries),
		asynq.Timeout(30*time.Second),
	), nil
}

// Enqueuer is the subset of *asynq.Client used for dispatch.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher hands confirmations to a redis-backed asynq queue, one
// task per applicable channel so retries never repeat a delivered channel.
// Enqueueing runs on its own goroutine so the caller never waits on redis.
type QueueDispatcher struct {
	client      Enqueuer
	channels    []Channel
	maxAttempts int
	log         *zap.Logger
	wg          sync.WaitGroup
}

// NewQueueDispatcher creates a dispatcher on client.
func NewQueueDispatcher(client Enqueuer, channels []Channel, maxAttempts int, log *zap.Logger) *QueueDispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueueDispatcher{client: client, channels: channels, maxAttempts: maxAttempts, log: log}
}

func (d *QueueDispatcher) Dispatch(b model.Booking) {
	for _, ch := range d.channels {
		if !ch.Applies(b) {
			continue
		}
		d.wg.Add(1)
		go d.enqueue(ch.Name(), b)
	}
}

// Wait blocks until in-flight enqueues finish.
func (d *QueueDispatcher) Wait() {
	d.wg.Wait()
}

func (d *QueueDispatcher) enqueue(channel string, b model.Booking) {
	defer d.wg.Done()
	task, err := NewConfirmationTask(channel, b, d.maxAttempts)
	if err != nil {
		d.log.Error("encode confirmation task", zap.String("booking", b.ID), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		d.log.Error("enqueue confirmation failed",
			zap.String("channel", channel), zap.String("booking", b.ID), zap.Error(err))
		return
	}
	d.log.Debug("confirmation enqueued",
		zap.String("channel", channel), zap.String("booking", b.ID), zap.String("task", info.ID))
}

// NewTaskHandler returns the asynq handler that delivers confirmations.
// asynq owns the retries; tasks that exhaust them are archived, and
// permanent failures skip retry.
func NewTaskHandler(channels []Channel, log *zap.Logger) asynq.HandlerFunc {
	byName := make(map[string]Channel, len(channels))
	for _, ch := range channels {
		byName[ch.Name()] = ch
	}
	return func(ctx context.Context, task *asynq.Task) error {
		var p taskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Error("invalid confirmation payload", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		ch, ok := byName[p.Channel]
		if !ok {
			log.Warn("confirmation for unconfigured channel dropped", zap.String("channel", p.Channel))
			return nil
		}
		b := p.Booking
		b.Push = p.Push

		if err := ch.Send(ctx, b); err != nil {
			log.Warn("confirmation delivery failed",
				zap.String("channel", ch.Name()), zap.String("booking", b.ID), zap.Error(err))
			if IsPermanent(err) {
				return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
			}
			return err
		}
		log.Info("notification sent", zap.String("channel", ch.Name()), zap.String("booking", b.ID))
		return nil
	}
}

// NewQueueServer creates the asynq server and mux for confirmation tasks.
func NewQueueServer(redis asynq.RedisClientOpt, concurrency int, channels []Channel, log *zap.Logger) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{"default": 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingConfirmation, NewTaskHandler(channels, log))
	return srv, mux
}
