package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingReminder struct {
	calls     atomic.Int32
	olderThan atomic.Int64
}

func (r *countingReminder) RemindPendingPayments(_ context.Context, olderThan time.Duration) int {
	r.calls.Add(1)
	r.olderThan.Store(int64(olderThan))
	return 1
}

func TestPaymentReminderJob_RunOnce(t *testing.T) {
	r := &countingReminder{}
	job := NewPaymentReminderJob(r, 15*time.Minute, time.Minute)

	assert.Equal(t, 1, job.RunOnce(context.Background()))
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, int64(15*time.Minute), r.olderThan.Load())
}

func TestPaymentReminderJob_StartStop(t *testing.T) {
	r := &countingReminder{}
	job := NewPaymentReminderJob(r, time.Minute, 5*time.Millisecond)

	job.Start(context.Background())
	job.Start(context.Background()) // second start is a no-op

	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	job.Stop()
	stopped := r.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, r.calls.Load())

	job.Stop()
}

func TestPaymentReminderJob_StopsWithContext(t *testing.T) {
	r := &countingReminder{}
	job := NewPaymentReminderJob(r, time.Minute, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
	assert.Zero(t, r.calls.Load())
}
