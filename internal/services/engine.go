package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/alidoner/orderbot/internal/dedup"
	"github.com/alidoner/orderbot/internal/menu"
	"github.com/alidoner/orderbot/internal/metrics"
	"github.com/alidoner/orderbot/internal/models"
	"github.com/alidoner/orderbot/internal/slots"
	"github.com/alidoner/orderbot/internal/storage"
	"github.com/alidoner/orderbot/internal/utils"
)

// Defaults for EngineConfig
const (
	DefaultDeliveryFee = 700
	DefaultAITimeout   = 15 * time.Second
	DefaultSendTimeout = 10 * time.Second
)

// InboundEvent is a webhook message normalized by the provider handler
type InboundEvent struct {
	CustomerID     string
	Text           string
	MessageID      string
	SelfOriginated bool
	Timestamp      time.Time
}

// Status tells what the engine did with an event
type Status string

// Status constants
const (
	StatusProcessed Status = "processed"
	StatusDuplicate Status = "duplicate"
	StatusSelf      Status = "self"
	StatusIgnored   Status = "ignored"
)

// Result is the outcome of handling one event
type Result struct {
	Status  Status       `json:"status"`
	Stage   models.Stage `json:"stage,omitempty"`
	Replies []string     `json:"replies,omitempty"`
}

// EngineConfig wires the engine's collaborators.
// Notifier, Payments and OperatorID are required; AI and Orders may be nil.
type EngineConfig struct {
	Sessions      *SessionManager
	Catalog       *menu.Catalog
	Notifier      Notifier
	AI            AIResponder
	Payments      PaymentLinkGenerator
	Orders        storage.OrderStore
	Metrics       *metrics.Metrics
	OperatorID    string
	DeliveryFee   int64
	RestartOnDone bool
	AITimeout     time.Duration
	SendTimeout   time.Duration
	NewOrderID    func() string
}

// OrderEngine is the per-customer order state machine
type OrderEngine struct {
	cfg       EngineConfig
	sessions  *SessionManager
	extractor *slots.Extractor
}

// NewOrderEngine validates the configuration and fills defaults
func NewOrderEngine(cfg EngineConfig) (*OrderEngine, error) {
	if cfg.Notifier == nil {
		return nil, errors.New("engine: notifier is required")
	}
	if cfg.Payments == nil {
		return nil, errors.New("engine: payment link generator is required")
	}
	if cfg.OperatorID == "" {
		return nil, errors.New("engine: operator id is required")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = menu.Default()
	}
	if cfg.Sessions == nil {
		cfg.Sessions = NewSessionManager()
	}
	if cfg.DeliveryFee < 0 {
		return nil, fmt.Errorf("engine: negative delivery fee %d", cfg.DeliveryFee)
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = DefaultAITimeout
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	if cfg.NewOrderID == nil {
		cfg.NewOrderID = utils.NewOrderID
	}

	return &OrderEngine{
		cfg:       cfg,
		sessions:  cfg.Sessions,
		extractor: slots.NewExtractor(cfg.Catalog),
	}, nil
}

// Sessions exposes the session store (health and admin views)
func (e *OrderEngine) Sessions() *SessionManager {
	return e.sessions
}

// Catalog returns the menu the engine matches against
func (e *OrderEngine) Catalog() *menu.Catalog {
	return e.cfg.Catalog
}

// outbound is a message queued during a transition
type outbound struct {
	to   string
	text string
}

// turn carries one event through the state machine
type turn struct {
	ctx     context.Context
	s       *Session
	text    string
	slots   slots.Result
	lang    Lang
	replies []string
	ops     []outbound
}

func (t *turn) reply(text string) {
	t.replies = append(t.replies, text)
}

func (t *turn) p() phrasebook {
	return phrases(t.lang)
}

// Handle processes one inbound event. Events for the same customer are
// handled one at a time; the session lock is held until the replies are sent
// so a following event sees the committed state. Callers that need arrival
// order must submit a customer's events sequentially.
// Upstream failures are logged and turned into apologies, never returned.
func (e *OrderEngine) Handle(ctx context.Context, ev InboundEvent) Result {
	if ev.SelfOriginated {
		e.cfg.Metrics.Inbound(metrics.ResultSelf)
		return Result{Status: StatusSelf}
	}
	text := strings.TrimSpace(ev.Text)
	if ev.CustomerID == "" || text == "" {
		e.cfg.Metrics.Inbound(metrics.ResultIgnored)
		return Result{Status: StatusIgnored}
	}

	var res Result
	_ = e.sessions.WithSession(ev.CustomerID, func(s *Session) error {
		if !s.ShouldProcess(ev.MessageID, dedup.Inbound) {
			log.Printf("🔁 Duplicate message %s from %s skipped", ev.MessageID, ev.CustomerID)
			e.cfg.Metrics.Inbound(metrics.ResultDuplicate)
			res = Result{Status: StatusDuplicate, Stage: s.Stage}
			return nil
		}

		log.Printf("📩 %s [%s]: %s", ev.CustomerID, s.Stage, text)
		e.cfg.Metrics.Inbound(metrics.ResultProcessed)

		t := &turn{
			ctx:   ctx,
			s:     s,
			text:  text,
			slots: e.extractor.Extract(text),
			lang:  DetectLang(text, s.Lang),
		}
		s.Lang = t.lang

		e.transition(t)

		s.AppendTurn(models.RoleUser, text)
		s.AppendTurn(models.RoleAssistant, strings.Join(t.replies, "\n\n"))

		e.flush(t)

		res = Result{Status: StatusProcessed, Stage: s.Stage, Replies: t.replies}
		return nil
	})
	return res
}

// flush sends the customer replies and operator messages queued by a transition
func (e *OrderEngine) flush(t *turn) {
	for _, text := range t.replies {
		if id, err := e.send(t.ctx, t.s.CustomerID, text); err == nil {
			t.s.ShouldProcess(id, dedup.Outbound)
		}
	}
	for _, msg := range t.ops {
		_, _ = e.send(t.ctx, msg.to, msg.text)
	}
}

func (e *OrderEngine) send(ctx context.Context, to, text string) (string, error) {
	sendCtx, cancel := context.WithTimeout(ctx, e.cfg.SendTimeout)
	defer cancel()

	id, err := e.cfg.Notifier.Send(sendCtx, to, text)
	if err != nil {
		e.cfg.Metrics.UpstreamError(UpstreamNotifier)
		log.Printf("❌ Send to %s failed: %v", to, err)
		return "", NewUpstreamError(UpstreamNotifier, err)
	}
	return id, nil
}

func (e *OrderEngine) setStage(s *Session, stage models.Stage) {
	if s.Stage == stage {
		return
	}
	e.cfg.Metrics.Transition(string(s.Stage), string(stage))
	log.Printf("🔀 %s: %s -> %s", s.CustomerID, s.Stage, stage)
	s.Stage = stage
	s.StageSince = e.sessions.Now()
}

func (e *OrderEngine) resetOrder(s *Session) {
	from := s.Stage
	s.ResetOrder()
	s.Stage = from
	e.setStage(s, models.StageBrowsing)
}

// consult asks the AI responder for a reply without touching order state.
// The responder only sees copies of the session data.
func (e *OrderEngine) consult(t *turn) string {
	if e.cfg.AI == nil {
		return t.p().apology
	}

	snapshot := t.s.clone()
	prompt := BuildSystemPrompt(e.cfg.Catalog, &snapshot, e.cfg.DeliveryFee)
	turns := append(snapshot.Window, models.Turn{Role: models.RoleUser, Text: t.text})

	ctx, cancel := context.WithTimeout(t.ctx, e.cfg.AITimeout)
	defer cancel()

	reply, err := e.cfg.AI.Complete(ctx, prompt, turns)
	if err != nil || strings.TrimSpace(reply) == "" {
		e.cfg.Metrics.UpstreamError(UpstreamAI)
		log.Printf("❌ AI reply for %s failed: %v", t.s.CustomerID, err)
		return t.p().apology
	}
	return strings.TrimSpace(reply)
}

func (e *OrderEngine) buildOrder(s *Session, status string) *models.Order {
	subtotal := s.Cart.Total()
	return &models.Order{
		OrderID:       s.OrderID,
		CustomerID:    s.CustomerID,
		Lines:         s.Cart.Clone().Lines,
		Subtotal:      subtotal,
		DeliveryFee:   e.cfg.DeliveryFee,
		Total:         subtotal + e.cfg.DeliveryFee,
		Address:       s.Address,
		Phone:         s.Phone,
		PaymentMethod: string(s.PaymentMethod),
		PaymentLink:   s.PaymentLink,
		Status:        status,
	}
}

// recordOrder writes the ledger entry. Ledger failures never reach the customer.
func (e *OrderEngine) recordOrder(ctx context.Context, s *Session, status string) {
	e.cfg.Metrics.Order(string(s.PaymentMethod), status)
	if e.cfg.Orders == nil {
		return
	}

	order := e.buildOrder(s, status)
	if status != models.OrderStatusAwaitingPayment {
		now := e.sessions.Now()
		order.CompletedAt = &now
	}
	if err := e.cfg.Orders.SaveOrder(ctx, order); err != nil {
		log.Printf("⚠️  Failed to record order %s: %v", s.OrderID, err)
	}
}

// RemindPendingPayments sends one reminder to every session that has been
// waiting for payment confirmation for at least olderThan. Returns the
// number of reminders sent.
func (e *OrderEngine) RemindPendingPayments(ctx context.Context, olderThan time.Duration) int {
	sent := 0
	for _, id := range e.sessions.CustomerIDs() {
		if ctx.Err() != nil {
			break
		}
		_ = e.sessions.WithSession(id, func(s *Session) error {
			if s.Stage != models.StageAwaitingPaymentConfirmation || s.Reminded {
				return nil
			}
			if e.sessions.Now().Sub(s.StageSince) < olderThan {
				return nil
			}

			text := fmt.Sprintf(phrases(s.Lang).paymentReminder, s.OrderID, s.PaymentLink)
			msgID, err := e.send(ctx, s.CustomerID, text)
			if err != nil {
				return err
			}
			s.ShouldProcess(msgID, dedup.Outbound)
			s.Reminded = true
			sent++
			log.Printf("⏰ Payment reminder sent to %s for order %s", s.CustomerID, s.OrderID)
			return nil
		})
	}
	return sent
}
