package middleware

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAuthToken = "12345"
	testPublicURL = "https://bot.example.com"
)

// sign computes Twilio's signature: HMAC-SHA1 over the URL followed by the
// sorted form keys and values.
func sign(token, fullURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := fullURL
	for _, k := range keys {
		data += k + form.Get(k)
	}
	mac := hmac.New(sha1.New, []byte(token))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newTwilioApp(token string) *fiber.App {
	app := fiber.New()
	app.Post("/webhook/whatsapp", ValidateTwilioSignature(token, testPublicURL), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func twilioRequest(form url.Values, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if signature != "" {
		req.Header.Set("X-Twilio-Signature", signature)
	}
	return req
}

func TestValidateTwilioSignature(t *testing.T) {
	form := url.Values{
		"From":       {"whatsapp:+77010000001"},
		"Body":       {"2 Doner Beef 30 см"},
		"MessageSid": {"SM1"},
	}
	valid := sign(testAuthToken, testPublicURL+"/webhook/whatsapp", form)

	tests := []struct {
		name      string
		token     string
		signature string
		want      int
	}{
		{"valid signature", testAuthToken, valid, fiber.StatusOK},
		{"missing signature", testAuthToken, "", fiber.StatusUnauthorized},
		{"wrong signature", testAuthToken, sign("other", testPublicURL+"/webhook/whatsapp", form), fiber.StatusUnauthorized},
		{"no auth token configured", "", valid, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newTwilioApp(tt.token).Test(twilioRequest(form, tt.signature))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestValidateTwilioSignature_TamperedBody(t *testing.T) {
	form := url.Values{"From": {"whatsapp:+77010000001"}, "Body": {"1 фри"}}
	signature := sign(testAuthToken, testPublicURL+"/webhook/whatsapp", form)

	form.Set("Body", "99 фри")
	resp, err := newTwilioApp(testAuthToken).Test(twilioRequest(form, signature))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdminToken(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"valid", "s3cret", "Bearer s3cret", fiber.StatusOK},
		{"wrong token", "s3cret", "Bearer nope", fiber.StatusUnauthorized},
		{"missing header", "s3cret", "", fiber.StatusUnauthorized},
		{"not bearer", "s3cret", "Basic s3cret", fiber.StatusUnauthorized},
		{"admin disabled", "", "Bearer ", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/admin/orders", RequireAdminToken(tt.token), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
