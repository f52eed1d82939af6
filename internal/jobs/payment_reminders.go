package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// Reminder nudges customers who were sent a payment link but never confirmed
type Reminder interface {
	RemindPendingPayments(ctx context.Context, olderThan time.Duration) int
}

// PaymentReminderJob periodically reminds customers about unpaid Kaspi links
type PaymentReminderJob struct {
	reminder Reminder
	after    time.Duration
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPaymentReminderJob creates a reminder job. Sessions waiting longer than
// after are reminded; the check runs every interval.
func NewPaymentReminderJob(reminder Reminder, after, interval time.Duration) *PaymentReminderJob {
	return &PaymentReminderJob{
		reminder: reminder,
		after:    after,
		interval: interval,
	}
}

// Start begins the scheduled check
func (j *PaymentReminderJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		log.Println("Payment reminder job already running")
		return
	}

	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})

	log.Printf("⏰ Payment reminders scheduled every %s (after %s)", j.interval, j.after)
	go j.run(ctx, j.done)
}

// Stop halts the job and waits for an in-flight check to finish
func (j *PaymentReminderJob) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	log.Println("Stopping payment reminder job...")
	cancel()
	<-done
}

func (j *PaymentReminderJob) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single reminder pass and returns how many were sent
func (j *PaymentReminderJob) RunOnce(ctx context.Context) int {
	n := j.reminder.RemindPendingPayments(ctx, j.after)
	if n > 0 {
		log.Printf("💸 Sent %d payment reminders", n)
	}
	return n
}
