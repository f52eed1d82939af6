// Package slots pulls menu items, quantities, contact details and commands
// out of free-text customer messages.
package slots

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alidoner/orderbot/internal/menu"
)

// maxQuantity caps a parsed quantity; larger numbers are taken as noise
const maxQuantity = 99

// Item is a menu item with the requested quantity
type Item struct {
	Name      string
	UnitPrice int64
	Quantity  int
}

// Result holds every slot found in one message
type Result struct {
	Items            []Item
	LooksLikeAddress bool
	LooksLikePhone   bool
	Phone            string // normalized digits when LooksLikePhone
	Intent           Intent
}

// HasItems reports whether any menu item was recognized
func (r Result) HasItems() bool {
	return len(r.Items) > 0
}

// Extractor parses customer messages against a menu
type Extractor struct {
	catalog *menu.Catalog
}

// NewExtractor creates an extractor for the given catalog
func NewExtractor(catalog *menu.Catalog) *Extractor {
	return &Extractor{catalog: catalog}
}

var (
	segmentSeparators = regexp.MustCompile(`[,;\n+&]|\s(?:и|and|плюс|also)\s`)
	decimalComma      = regexp.MustCompile(`(\d),(\d)`)

	// Tried in order; the first pattern that matches gives the quantity.
	piecesPattern  = regexp.MustCompile(`(\d+)\s*(?:шт|pcs|pc|pieces|piece|порц)`)
	timesPattern   = regexp.MustCompile(`(\d+)\s*[xх×](?:\s|$)`)
	prefixXPattern = regexp.MustCompile(`(?:^|\s)[xх×]\s*(\d+)`)
	numWordPattern = regexp.MustCompile(`(?:^|\s)(\d+)\s+(\p{L}+)`)
)

// sizeUnits are words after a number that describe size, not quantity
var sizeUnits = map[string]bool{
	"см": true, "cm": true, "сантиметров": true, "л": true, "l": true,
	"литр": true, "литра": true, "мл": true, "ml": true, "г": true, "гр": true,
	"g": true, "кг": true, "kg": true,
}

// Extract runs all slot heuristics on text
func (e *Extractor) Extract(text string) Result {
	trimmed := strings.TrimSpace(text)
	res := Result{
		Items:            e.items(trimmed),
		LooksLikeAddress: LooksLikeAddress(trimmed),
		Intent:           DetectIntent(trimmed),
	}
	if phone, err := NormalizePhone(trimmed); err == nil {
		res.LooksLikePhone = true
		res.Phone = phone
	}
	return res
}

// items looks up menu items segment by segment so that each item gets the
// quantity written next to it: "2 doner beef 30 см, фри x3".
func (e *Extractor) items(text string) []Item {
	lower := decimalComma.ReplaceAllString(strings.ToLower(text), "$1.$2")

	var out []Item
	for _, segment := range segmentSeparators.Split(lower, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		matches := e.catalog.Lookup(segment)
		if len(matches) == 0 {
			continue
		}
		qty := ParseQuantity(segment)
		for _, m := range matches {
			out = mergeItem(out, Item{Name: m.Item.Name, UnitPrice: m.Item.Price, Quantity: qty})
		}
	}
	return out
}

func mergeItem(items []Item, item Item) []Item {
	for i := range items {
		if items[i].Name == item.Name {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

// ParseQuantity returns the first quantity found in segment, or 1.
// Numbers followed by a size unit ("30 см", "1 л") are not quantities.
func ParseQuantity(segment string) int {
	s := strings.ToLower(segment)

	for _, re := range []*regexp.Regexp{piecesPattern, timesPattern, prefixXPattern} {
		if m := re.FindStringSubmatch(s); m != nil {
			return clampQuantity(m[1])
		}
	}
	for _, m := range numWordPattern.FindAllStringSubmatch(s, -1) {
		if !sizeUnits[m[2]] {
			return clampQuantity(m[1])
		}
	}
	return 1
}

func clampQuantity(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > maxQuantity {
		return 1
	}
	return n
}
