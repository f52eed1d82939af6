package utils

import (
	"strings"

	"github.com/google/uuid"
)

// OrderIDPrefix starts every order id, e.g. "AD-3F9K2C1B"
const OrderIDPrefix = "AD-"

// NewOrderID returns a short random order id that is easy to read out over the phone
func NewOrderID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return OrderIDPrefix + strings.ToUpper(id[:8])
}

// DigitsOnly returns the ASCII digits of s
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
