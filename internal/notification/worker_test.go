package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"salon-booking-backend/internal/model"
)

var studio = Studio{Name: "H&L Hair Studio", Phone: "555-0199", Address: "1 Main St", URL: "https://salon.example"}

func testBooking() model.Booking {
	return model.Booking{
		ID: "b-1", Name: "Ana", Phone: "555-0100", Email: "ana@example.com",
		ServiceID: "w3", ServiceName: "Blowout", ServiceCategory: "women",
		Date: "2026-10-14", Time: "10:00", EndTime: "11:00", DurationMinutes: 60,
		Status: model.StatusConfirmed,
	}
}

// fakeChannel fails the first failures sends with err, then succeeds.
type fakeChannel struct {
	name     string
	applies  bool
	failures int
	err      error

	mu    sync.Mutex
	calls int
	done  chan struct{}
}

func newFakeChannel(name string, failures int, err error) *fakeChannel {
	return &fakeChannel{name: name, applies: true, failures: failures, err: err, done: make(chan struct{}, 16)}
}

func (c *fakeChannel) Name() string                 { return c.name }
func (c *fakeChannel) Applies(model.Booking) bool   { return c.applies }
func (c *fakeChannel) Calls() int                   { c.mu.Lock(); defer c.mu.Unlock(); return c.calls }
func (c *fakeChannel) Send(context.Context, model.Booking) error {
	c.mu.Lock()
	c.calls++
	n := c.calls
	c.mu.Unlock()
	defer func() { c.done <- struct{}{} }()
	if n <= c.failures {
		return c.err
	}
	return nil
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(PoolOptions{Size: 1}, nil, nil)

	// Dispatch a job
	wp.Dispatch(testBooking())

	// Check if the job is in the channel
	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "b-1", job.ID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchNeverBlocks(t *testing.T) {
	log, logs := observed()
	wp := NewWorkerPool(PoolOptions{Size: 1, QueueSize: 1}, nil, log)

	finished := make(chan struct{})
	go func() {
		wp.Dispatch(testBooking())
		wp.Dispatch(testBooking())
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
	assert.Len(t, wp.Jobs(), 1)
	assert.Equal(t, 1, logs.FilterMessage("notification queue full, confirmation dropped").Len())
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	t.Run("delivers over applicable channels only", func(t *testing.T) {
		email := newFakeChannel("email", 0, nil)
		push := newFakeChannel("push", 0, nil)
		push.applies = false

		ctx, cancel := context.WithCancel(context.Background())
		wp := NewWorkerPool(PoolOptions{Size: 2}, []Channel{email, push}, nil)
		wp.Start(ctx)

		wp.Dispatch(testBooking())
		<-email.done
		cancel()
		wp.Wait()

		assert.Equal(t, 1, email.Calls())
		assert.Equal(t, 0, push.Calls())
	})

	t.Run("retries transient failures", func(t *testing.T) {
		log, logs := observed()
		ch := newFakeChannel("email", 2, errors.New("421 try again"))

		Deliver(context.Background(), testBooking(), []Channel{ch}, 3, time.Millisecond, log)

		assert.Equal(t, 3, ch.Calls())
		assert.Equal(t, 2, logs.FilterMessage("notification failed, retrying").Len())
		assert.Equal(t, 1, logs.FilterMessage("notification sent").Len())
		assert.Zero(t, logs.FilterMessage("notification dead-lettered").Len())
	})

	t.Run("dead-letters after the last attempt", func(t *testing.T) {
		log, logs := observed()
		ch := newFakeChannel("email", 10, errors.New("connection refused"))

		Deliver(context.Background(), testBooking(), []Channel{ch}, 3, time.Millisecond, log)

		assert.Equal(t, 3, ch.Calls())
		dead := logs.FilterMessage("notification dead-lettered").All()
		require.Len(t, dead, 1)
		assert.Equal(t, "b-1", dead[0].ContextMap()["booking"])
		assert.Equal(t, "email", dead[0].ContextMap()["channel"])
	})

	t.Run("permanent failures are not retried", func(t *testing.T) {
		log, logs := observed()
		ch := newFakeChannel("push", 10, Permanent(errors.New("subscription expired")))

		Deliver(context.Background(), testBooking(), []Channel{ch}, 5, time.Millisecond, log)

		assert.Equal(t, 1, ch.Calls())
		assert.Equal(t, 1, logs.FilterMessage("notification dead-lettered").Len())
	})

	t.Run("cancellation stops the backoff", func(t *testing.T) {
		ch := newFakeChannel("email", 10, errors.New("timeout"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		Deliver(ctx, testBooking(), []Channel{ch}, 3, time.Hour, zap.NewNop())
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, 1, ch.Calls())
	})
}

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func respond(status int) (*http.Response, error) {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}, nil
}

func TestPushChannel(t *testing.T) {
	b := testBooking()
	b.Push = model.PushSubscription{Endpoint: "https://example.com/push", P256DH: "test_p256dh", Auth: "test_auth"}

	ch := NewPushChannel(&webpush.Options{TTL: 60}, studio)
	assert.True(t, ch.Applies(b))
	assert.False(t, ch.Applies(testBooking()))

	t.Run("sends the confirmation payload", func(t *testing.T) {
		ch.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "test_p256dh", sub.Keys.P256dh)
				assert.Equal(t, 60, options.TTL)

				var p pushPayload
				require.NoError(t, json.Unmarshal(payload, &p))
				assert.Equal(t, "H&L Hair Studio - Booking Confirmed", p.Title)
				assert.Equal(t, "Blowout on 2026-10-14 at 10:00", p.Body)
				return respond(http.StatusCreated)
			},
		}
		assert.NoError(t, ch.Send(context.Background(), b))
	})

	t.Run("expired subscription is permanent", func(t *testing.T) {
		ch.sender = &mockSender{SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			return respond(http.StatusGone)
		}}
		err := ch.Send(context.Background(), b)
		require.Error(t, err)
		assert.True(t, IsPermanent(err))
	})

	t.Run("server errors are retryable", func(t *testing.T) {
		ch.sender = &mockSender{SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			return respond(http.StatusServiceUnavailable)
		}}
		err := ch.Send(context.Background(), b)
		require.Error(t, err)
		assert.False(t, IsPermanent(err))
	})
}

func TestEmailChannel(t *testing.T) {
	ch := NewEmailChannel("smtp.example.com", 587, "studio@example.com", "pw", "", studio)
	assert.Equal(t, "studio@example.com", ch.From)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	ch.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	b := testBooking()
	require.NoError(t, ch.Send(context.Background(), b))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "studio@example.com", gotFrom)
	assert.Equal(t, []string{"ana@example.com"}, gotTo)

	raw := string(gotMsg)
	assert.Contains(t, raw, "To: ana@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/alternative;")
	assert.Contains(t, raw, "text/plain; charset=UTF-8")
	assert.Contains(t, raw, "text/html; charset=UTF-8")
	assert.Contains(t, raw, "Time: 10:00-11:00")

	b.Email = ""
	assert.False(t, ch.Applies(b))

	ch.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("535 auth failed") }
	err := ch.Send(context.Background(), testBooking())
	assert.ErrorContains(t, err, "535 auth failed")
	assert.False(t, IsPermanent(err))
}

func TestConfirmation(t *testing.T) {
	b := testBooking()
	b.Name = "<Ana>"

	msg, err := Confirmation(b, studio)
	require.NoError(t, err)
	assert.Equal(t, "H&L Hair Studio - Booking confirmed for 2026-10-14 at 10:00", msg.Subject)
	assert.Contains(t, msg.Text, "Hi <Ana>,")
	assert.Contains(t, msg.Text, "Service: women - Blowout")
	assert.Contains(t, msg.Text, "call 555-0199")
	assert.Contains(t, msg.HTML, "Hi &lt;Ana&gt;")
	assert.Contains(t, msg.HTML, `<a href="https://salon.example">`)
	assert.False(t, strings.Contains(msg.HTML, "<Ana>"))
}

// fakeEnqueuer records enqueued tasks.
type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t-1"}, nil
}

func TestQueueDispatcher(t *testing.T) {
	email := newFakeChannel("email", 0, nil)
	push := newFakeChannel("push", 0, nil)
	push.applies = false
	q := &fakeEnqueuer{}

	d := NewQueueDispatcher(q, []Channel{email, push}, 3, nil)
	b := testBooking()
	b.Push = model.PushSubscription{Endpoint: "https://example.com/push", P256DH: "k", Auth: "a"}
	d.Dispatch(b)
	d.Wait()

	require.Len(t, q.tasks, 1)
	task := q.tasks[0]
	assert.Equal(t, TypeBookingConfirmation, task.Type())

	var p taskPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "email", p.Channel)
	assert.Equal(t, "b-1", p.Booking.ID)
	assert.Equal(t, "https://example.com/push", p.Push.Endpoint)

	log, logs := observed()
	failing := NewQueueDispatcher(&fakeEnqueuer{err: errors.New("redis down")}, []Channel{email}, 3, log)
	failing.Dispatch(b)
	failing.Wait()
	assert.Equal(t, 1, logs.FilterMessage("enqueue confirmation failed").Len())
}

func TestTaskHandler(t *testing.T) {
	ok := newFakeChannel("email", 0, nil)
	gone := newFakeChannel("push", 10, Permanent(errors.New("expired")))
	flaky := newFakeChannel("sms", 10, errors.New("timeout"))
	handler := NewTaskHandler([]Channel{ok, gone, flaky}, zap.NewNop())
	ctx := context.Background()

	task := func(channel string) *asynq.Task {
		task, err := NewConfirmationTask(channel, testBooking(), 3)
		require.NoError(t, err)
		return task
	}

	assert.NoError(t, handler(ctx, task("email")))
	assert.Equal(t, 1, ok.Calls())

	err := handler(ctx, task("push"))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = handler(ctx, task("sms"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	assert.NoError(t, handler(ctx, task("pigeon")), "unknown channels are dropped")

	err = handler(ctx, asynq.NewTask(TypeBookingConfirmation, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
