package slots

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/alidoner/orderbot/internal/utils"
)

// phoneDigits is the length of a local mobile number, e.g. 87771234567
const phoneDigits = 11

// validLeadingDigits are the first digits accepted for a local number
var validLeadingDigits = "78"

// ValidationError describes text that failed a slot heuristic
type ValidationError struct {
	Field  string
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Reason)
}

// NormalizePhone strips everything but digits and checks the result is an
// 11-digit local number starting with 7 or 8.
func NormalizePhone(text string) (string, error) {
	digits := utils.DigitsOnly(text)
	if len(digits) != phoneDigits {
		return "", &ValidationError{
			Field:  "phone",
			Input:  text,
			Reason: fmt.Sprintf("expected %d digits, got %d", phoneDigits, len(digits)),
		}
	}
	if !strings.ContainsRune(validLeadingDigits, rune(digits[0])) {
		return "", &ValidationError{
			Field:  "phone",
			Input:  text,
			Reason: "must start with 7 or 8",
		}
	}
	return digits, nil
}

// addressMarkers are the words that make a text with a digit look like an address
var addressMarkers = map[string]bool{
	"ул": true, "улица": true, "мкр": true, "микрорайон": true, "мкрн": true,
	"дом": true, "д": true, "кв": true, "квартира": true, "подъезд": true,
	"этаж": true, "пр": true, "проспект": true, "блок": true, "корпус": true,
	"street": true, "st": true, "avenue": true, "ave": true, "block": true,
	"house": true, "apt": true, "apartment": true, "district": true,
	"building": true, "bldg": true, "floor": true, "entrance": true, "mkr": true,
}

var hasDigit = regexp.MustCompile(`\d`)

// LooksLikeAddress reports whether text has a digit and at least one address
// marker word. It is a conservative heuristic, not a validation.
func LooksLikeAddress(text string) bool {
	if !hasDigit.MatchString(text) {
		return false
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if addressMarkers[w] {
			return true
		}
	}
	return false
}
