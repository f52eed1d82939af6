package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsappPrefix = "whatsapp:"

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioService sends WhatsApp messages through the Twilio REST API
type TwilioService struct {
	api  messageCreator
	from string // Format: "whatsapp:+14155238886"
}

// NewTwilioService creates a new Twilio notifier
func NewTwilioService(accountSid, authToken, from string) (*TwilioService, error) {
	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioService{
		api:  client.Api,
		from: WhatsAppAddress(from),
	}, nil
}

// WhatsAppAddress adds the "whatsapp:" channel prefix when missing
func WhatsAppAddress(number string) string {
	if strings.HasPrefix(number, whatsappPrefix) {
		return number
	}
	return whatsappPrefix + number
}

// StripWhatsAppPrefix returns the bare phone number of a Twilio address
func StripWhatsAppPrefix(address string) string {
	return strings.TrimPrefix(address, whatsappPrefix)
}

// From returns the sender address without the channel prefix
func (t *TwilioService) From() string {
	return StripWhatsAppPrefix(t.from)
}

type twilioResult struct {
	sid string
	err error
}

// Send delivers a WhatsApp message and returns the message SID.
// The Twilio client has no context support, so the call runs in its own
// goroutine and Send stops waiting when ctx is done.
func (t *TwilioService) Send(ctx context.Context, to, text string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(WhatsAppAddress(to))
	params.SetBody(text)

	done := make(chan twilioResult, 1)
	go func() {
		resp, err := t.api.CreateMessage(params)
		if err != nil {
			done <- twilioResult{err: err}
			return
		}
		if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
			msg := ""
			if resp.ErrorMessage != nil {
				msg = *resp.ErrorMessage
			}
			done <- twilioResult{err: fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, msg)}
			return
		}
		sid := ""
		if resp.Sid != nil {
			sid = *resp.Sid
		}
		done <- twilioResult{sid: sid}
	}()

	select {
	case <-ctx.Done():
		log.Printf("❌ WhatsApp message to %s timed out: %v", to, ctx.Err())
		return "", NewUpstreamError(UpstreamNotifier, ctx.Err())
	case res := <-done:
		if res.err != nil {
			log.Printf("❌ Failed to send WhatsApp message to %s: %v", to, res.err)
			return "", NewUpstreamError(UpstreamNotifier, res.err)
		}
		log.Printf("✅ WhatsApp message sent! SID: %s", res.sid)
		return res.sid, nil
	}
}
