package services

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alidoner/orderbot/internal/dedup"
	"github.com/alidoner/orderbot/internal/models"
)

// DefaultWindowSize is the number of chat turns kept as AI context
const DefaultWindowSize = 6

// Session is one customer's order state
type Session struct {
	CustomerID    string               `json:"customer_id"`
	Stage         models.Stage         `json:"stage"`
	Cart          models.Cart          `json:"cart"`
	Address       string               `json:"address,omitempty"`
	Phone         string               `json:"phone,omitempty"`
	PaymentMethod models.PaymentMethod `json:"payment_method,omitempty"`
	OrderID       string               `json:"order_id,omitempty"`
	PaymentLink   string               `json:"payment_link,omitempty"`
	Lang          Lang                 `json:"lang"`
	Window        []models.Turn        `json:"window,omitempty"`
	Reminded      bool                 `json:"reminded,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	StageSince    time.Time            `json:"stage_since"`

	seen       *dedup.Window
	windowSize int
}

// ShouldProcess gates a message id through the session's dedup window
func (s *Session) ShouldProcess(messageID string, dir dedup.Direction) bool {
	if s.seen == nil {
		return true
	}
	return s.seen.ShouldProcess(messageID, dir)
}

// HasSeen reports whether a message id is in the dedup window
func (s *Session) HasSeen(messageID string) bool {
	return s.seen != nil && s.seen.Contains(messageID)
}

// AppendTurn adds a chat turn and drops the oldest turns beyond the window size
func (s *Session) AppendTurn(role, text string) {
	if text == "" {
		return
	}
	s.Window = append(s.Window, models.Turn{Role: role, Text: text})
	limit := s.windowSize
	if limit < 1 {
		limit = DefaultWindowSize
	}
	if len(s.Window) > limit {
		s.Window = append([]models.Turn(nil), s.Window[len(s.Window)-limit:]...)
	}
}

// ResetOrder returns the session to browsing and forgets everything tied to
// the current order. Language, chat window and seen ids survive.
func (s *Session) ResetOrder() {
	s.Cart.Clear()
	s.Address = ""
	s.Phone = ""
	s.PaymentMethod = models.PaymentUnset
	s.OrderID = ""
	s.PaymentLink = ""
	s.Reminded = false
	s.Stage = models.StageBrowsing
}

func (s *Session) clone() Session {
	c := *s
	c.Cart = s.Cart.Clone()
	c.Window = append([]models.Turn(nil), s.Window...)
	c.seen = nil
	return c
}

type sessionSlot struct {
	mu      sync.Mutex
	session *Session
	stage   atomic.Value // models.Stage, readable without mu
}

// SessionManager is a keyed store of sessions with one lock per customer.
// Sessions are created lazily and live for the lifetime of the process.
type SessionManager struct {
	mu           sync.Mutex
	slots        map[string]*sessionSlot
	now          func() time.Time
	seenCapacity int
	windowSize   int
}

// SessionOption configures a SessionManager
type SessionOption func(*SessionManager)

// WithClock replaces time.Now
func WithClock(now func() time.Time) SessionOption {
	return func(sm *SessionManager) { sm.now = now }
}

// WithSeenCapacity sets how many message ids each session remembers.
// Values below 1 fall back to dedup.DefaultCapacity.
func WithSeenCapacity(n int) SessionOption {
	return func(sm *SessionManager) {
		if n < 1 {
			n = dedup.DefaultCapacity
		}
		sm.seenCapacity = n
	}
}

// WithWindowSize sets how many chat turns each session keeps.
// Values below 1 fall back to DefaultWindowSize.
func WithWindowSize(n int) SessionOption {
	return func(sm *SessionManager) {
		if n < 1 {
			n = DefaultWindowSize
		}
		sm.windowSize = n
	}
}

// NewSessionManager creates an empty session store
func NewSessionManager(opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		slots:        make(map[string]*sessionSlot),
		now:          time.Now,
		seenCapacity: dedup.DefaultCapacity,
		windowSize:   DefaultWindowSize,
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// Now returns the manager's clock reading
func (sm *SessionManager) Now() time.Time {
	return sm.now()
}

func (sm *SessionManager) slot(customerID string) *sessionSlot {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	slot, ok := sm.slots[customerID]
	if !ok {
		now := sm.now()
		slot = &sessionSlot{session: &Session{
			CustomerID: customerID,
			Stage:      models.StageBrowsing,
			Lang:       LangRU,
			CreatedAt:  now,
			UpdatedAt:  now,
			StageSince: now,
			seen:       dedup.New(sm.seenCapacity),
			windowSize: sm.windowSize,
		}}
		slot.stage.Store(models.StageBrowsing)
		sm.slots[customerID] = slot
	}
	return slot
}

// WithSession runs fn with exclusive access to the customer's session,
// creating it on first use. Calls for the same customer are serialized;
// calls for different customers run in parallel.
func (sm *SessionManager) WithSession(customerID string, fn func(*Session) error) error {
	slot := sm.slot(customerID)

	slot.mu.Lock()
	defer slot.mu.Unlock()

	err := fn(slot.session)
	slot.session.UpdatedAt = sm.now()
	slot.stage.Store(slot.session.Stage)
	return err
}

// Snapshot returns a copy of the customer's session, if it exists
func (sm *SessionManager) Snapshot(customerID string) (Session, bool) {
	sm.mu.Lock()
	slot, ok := sm.slots[customerID]
	sm.mu.Unlock()
	if !ok {
		return Session{}, false
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.session.clone(), true
}

// Count returns the number of sessions
func (sm *SessionManager) Count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.slots)
}

// Stats counts sessions per stage without waiting for in-flight events
func (sm *SessionManager) Stats() map[models.Stage]int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	stats := make(map[models.Stage]int)
	for _, slot := range sm.slots {
		stage, _ := slot.stage.Load().(models.Stage)
		stats[stage]++
	}
	return stats
}

// CustomerIDs returns all known customer ids in sorted order
func (sm *SessionManager) CustomerIDs() []string {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ids := make([]string, 0, len(sm.slots))
	for id := range sm.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
