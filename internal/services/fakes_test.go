package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alidoner/orderbot/internal/models"
)

type sentMessage struct {
	To   string
	Text string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
	seq  int
}

func (f *fakeNotifier) Send(_ context.Context, to, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	f.seq++
	f.sent = append(f.sent, sentMessage{To: to, Text: text})
	return fmt.Sprintf("out-%d", f.seq), nil
}

func (f *fakeNotifier) to(dest string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		if m.To == dest {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeAI struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	prompts []string
	turns   [][]models.Turn
}

func (f *fakeAI) Complete(_ context.Context, systemPrompt string, turns []models.Turn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, systemPrompt)
	f.turns = append(f.turns, turns)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakePayments struct {
	mu      sync.Mutex
	amounts []int64
	err     error
}

func (f *fakePayments) CreateLink(_ context.Context, amount int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.amounts = append(f.amounts, amount)
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://pay.example/kaspi?amount=%d", amount), nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
