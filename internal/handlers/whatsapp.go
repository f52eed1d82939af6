package handlers

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alidoner/orderbot/internal/services"
)

// EventHandler processes normalized inbound messages
type EventHandler interface {
	Handle(ctx context.Context, ev services.InboundEvent) services.Result
}

// DefaultDispatchTimeout bounds the background handling of one webhook event
const DefaultDispatchTimeout = 60 * time.Second

// WhatsAppHandler normalizes provider webhooks into engine events.
// Webhooks are acknowledged right away; events are handled in the background,
// one at a time per customer in arrival order.
type WhatsAppHandler struct {
	engine    EventHandler
	ownNumber string
	timeout   time.Duration
	dispatch  func(services.InboundEvent)
}

// NewWhatsAppHandler creates a webhook handler. ownNumber is the bot's own
// WhatsApp number; messages from it are treated as self-originated.
func NewWhatsAppHandler(engine EventHandler, ownNumber string, timeout time.Duration) *WhatsAppHandler {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	h := &WhatsAppHandler{
		engine:    engine,
		ownNumber: normalizeNumber(ownNumber),
		timeout:   timeout,
	}
	h.dispatch = newCustomerQueue(h.handle).enqueue
	return h
}

func (h *WhatsAppHandler) handle(ev services.InboundEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic while handling message from %s: %v", ev.CustomerID, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.engine.Handle(ctx, ev)
}

func normalizeNumber(n string) string {
	n = services.StripWhatsAppPrefix(n)
	n = strings.TrimSuffix(n, "@c.us")
	return strings.TrimPrefix(n, "+")
}

// TwilioWebhookPayload represents incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid          string `form:"MessageSid"`
	AccountSid          string `form:"AccountSid"`
	MessagingServiceSid string `form:"MessagingServiceSid"`
	From                string `form:"From"` // WhatsApp number (whatsapp:+77010000001)
	To                  string `form:"To"`   // Your Twilio number
	Body                string `form:"Body"` // Message text
	NumMedia            string `form:"NumMedia"`
}

// HandleTwilioWebhook processes incoming Twilio WhatsApp messages
func (h *WhatsAppHandler) HandleTwilioWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// status callbacks and media-only messages carry no text
	if payload.Body == "" || payload.From == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	from := services.StripWhatsAppPrefix(payload.From)
	log.Printf("📱 WhatsApp Message from %s: %s", from, payload.Body)

	h.dispatch(services.InboundEvent{
		CustomerID:     from,
		Text:           payload.Body,
		MessageID:      payload.MessageSid,
		SelfOriginated: h.ownNumber != "" && normalizeNumber(from) == h.ownNumber,
		Timestamp:      time.Now(),
	})

	// Acknowledge webhook receipt
	return c.SendStatus(fiber.StatusOK)
}

// UltraMsgWebhookPayload is the JSON body UltraMsg posts for message events
type UltraMsgWebhookPayload struct {
	EventType  string `json:"event_type"`
	InstanceID string `json:"instanceId"`
	Data       struct {
		ID     string `json:"id"`
		From   string `json:"from"`
		To     string `json:"to"`
		Body   string `json:"body"`
		Type   string `json:"type"`
		FromMe bool   `json:"fromMe"`
		Self   bool   `json:"self"`
		Time   int64  `json:"time"`
	} `json:"data"`
}

// ultraMsgEvents are the event types that carry chat messages
var ultraMsgEvents = map[string]bool{
	"message_received": true,
	"message_create":   true,
}

// HandleUltraMsgWebhook processes incoming UltraMsg messages
func (h *WhatsAppHandler) HandleUltraMsgWebhook(c *fiber.Ctx) error {
	var payload UltraMsgWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing UltraMsg webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	data := payload.Data
	if !ultraMsgEvents[payload.EventType] || data.Type != "chat" || data.Body == "" || data.From == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	from := strings.TrimSuffix(data.From, "@c.us")
	self := data.FromMe || data.Self || strings.HasPrefix(data.ID, "true_") ||
		(h.ownNumber != "" && normalizeNumber(from) == h.ownNumber)

	ts := time.Now()
	if data.Time > 0 {
		ts = time.Unix(data.Time, 0)
	}

	log.Printf("📩 UltraMsg %s from %s (self=%v): %s", payload.EventType, from, self, data.Body)

	h.dispatch(services.InboundEvent{
		CustomerID:     from,
		Text:           data.Body,
		MessageID:      data.ID,
		SelfOriginated: self,
		Timestamp:      ts,
	})

	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload is the development webhook body
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// HandleTestWebhook processes a message synchronously and returns the replies (for development)
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil || payload.From == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Printf("🧪 Test webhook received from %s: %s", payload.From, payload.Message)

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	res := h.engine.Handle(ctx, services.InboundEvent{
		CustomerID: payload.From,
		Text:       payload.Message,
		MessageID:  payload.ID,
		Timestamp:  time.Now(),
	})

	log.Printf("📤 Test response generated: %d replies, stage %s", len(res.Replies), res.Stage)

	return c.JSON(fiber.Map{
		"success": res.Status == services.StatusProcessed,
		"status":  res.Status,
		"stage":   res.Stage,
		"replies": res.Replies,
		"count":   len(res.Replies),
	})
}
