package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alidoner/orderbot/internal/utils"
)

// DefaultUltraMsgBaseURL is the public UltraMsg API
const DefaultUltraMsgBaseURL = "https://api.ultramsg.com"

const defaultUltraMsgTimeout = 10 * time.Second

// UltraMsgService sends WhatsApp messages through the UltraMsg chat API
type UltraMsgService struct {
	endpoint string
	token    string
}

type ultraMsgResponse struct {
	Sent    string `json:"sent"`
	Message string `json:"message"`
	ID      any    `json:"id"`
	Error   any    `json:"error"`
}

// NewUltraMsgService creates a notifier for an UltraMsg instance
func NewUltraMsgService(baseURL, instanceID, token string) (*UltraMsgService, error) {
	if instanceID == "" || token == "" {
		return nil, fmt.Errorf("missing UltraMsg credentials")
	}
	if baseURL == "" {
		baseURL = DefaultUltraMsgBaseURL
	}
	return &UltraMsgService{
		endpoint: fmt.Sprintf("%s/%s/messages/chat", strings.TrimRight(baseURL, "/"), instanceID),
		token:    token,
	}, nil
}

// Send posts the message as a form and returns UltraMsg's message id.
// UltraMsg expects the recipient as bare digits.
func (u *UltraMsgService) Send(ctx context.Context, to, text string) (string, error) {
	timeout := defaultUltraMsgTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil || timeout <= 0 {
		if err == nil {
			err = context.DeadlineExceeded
		}
		return "", NewUpstreamError(UpstreamNotifier, err)
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("token", u.token)
	args.Set("to", utils.DigitsOnly(to))
	args.Set("body", text)

	agent := fiber.Post(u.endpoint)
	agent.Form(args)
	agent.Timeout(timeout)

	var resp ultraMsgResponse
	code, body, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		log.Printf("❌ UltraMsg send to %s failed: %v", to, errs[0])
		return "", NewUpstreamError(UpstreamNotifier, fmt.Errorf("ultramsg request: %w", errs[0]))
	}
	if code != fiber.StatusOK || resp.Error != nil || resp.Sent != "true" {
		log.Printf("❌ UltraMsg rejected message to %s: status=%d body=%s", to, code, body)
		return "", NewUpstreamError(UpstreamNotifier, fmt.Errorf("ultramsg status %d: %s", code, body))
	}

	id := ""
	switch v := resp.ID.(type) {
	case float64:
		id = strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		id = v
	}
	log.Printf("✅ Sent to %s via UltraMsg, id: %s", to, id)
	return id, nil
}
