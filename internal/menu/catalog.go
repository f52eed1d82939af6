// Package menu holds the vendor's priced item catalog and its fuzzy lookup.
package menu

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// minReverseMatch is the shortest compact input, in runes, that may match as a fragment of an item key
const minReverseMatch = 4

// Item is a priced menu entry
type Item struct {
	Name    string   `yaml:"name" json:"name"`
	Price   int64    `yaml:"price" json:"price"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Match is a catalog item found in a piece of text.
// Start and End are byte offsets into the compact normalized text.
type Match struct {
	Item  Item
	Start int
	End   int
}

// Catalog is an immutable, ordered menu
type Catalog struct {
	items []Item
	keys  [][]string
}

type menuFile struct {
	Items []Item `yaml:"items"`
}

// New builds a catalog. Order matters: Lookup resolves overlapping matches
// in favour of the earlier item.
func New(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("menu has no items")
	}

	c := &Catalog{
		items: make([]Item, 0, len(items)),
		keys:  make([][]string, 0, len(items)),
	}
	seen := make(map[string]bool)

	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("menu item without name")
		}
		if item.Price <= 0 {
			return nil, fmt.Errorf("menu item %q: price must be positive", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("menu item %q listed twice", name)
		}
		seen[name] = true

		item.Name = name
		keys := []string{compact(Normalize(name))}
		for _, alias := range item.Aliases {
			if key := compact(Normalize(alias)); key != "" {
				keys = append(keys, key)
			}
		}

		c.items = append(c.items, item)
		c.keys = append(c.keys, keys)
	}

	return c, nil
}

// LoadFile reads a YAML menu of the form `items: [{name, price, aliases}]`
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}

	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}

	return New(file.Items)
}

// Items returns the catalog entries in iteration order
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Keys returns the compact match keys of the item at index i
func (c *Catalog) Keys(i int) []string {
	return append([]string(nil), c.keys[i]...)
}

// Price returns the unit price of an item by exact name
func (c *Catalog) Price(name string) (int64, bool) {
	for _, item := range c.items {
		if item.Name == name {
			return item.Price, true
		}
	}
	return 0, false
}

// Lookup finds catalog items mentioned in text.
//
// Both sides are normalized and compared without spaces. An item matches when
// one of its keys occurs in the text, or when the whole text (at least
// minReverseMatch characters) occurs in one of its keys. When two items claim
// overlapping parts of the text only the one earlier in the catalog is kept,
// so "big hot-dog" resolves to HOT-DOG if HOT-DOG is listed first.
// Results are ordered by position in the text.
func (c *Catalog) Lookup(text string) []Match {
	input := compact(Normalize(text))
	if input == "" {
		return nil
	}

	var matches []Match
	for i, item := range c.items {
		start, end, ok := c.find(i, input)
		if !ok || overlaps(matches, start, end) {
			continue
		}
		matches = append(matches, Match{Item: item, Start: start, End: end})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Start < matches[b].Start
	})
	return matches
}

func (c *Catalog) find(i int, input string) (int, int, bool) {
	for _, key := range c.keys[i] {
		if idx := strings.Index(input, key); idx >= 0 {
			return idx, idx + len(key), true
		}
	}
	if utf8.RuneCountInString(input) < minReverseMatch {
		return 0, 0, false
	}
	for _, key := range c.keys[i] {
		if strings.Contains(key, input) {
			return 0, len(input), true
		}
	}
	return 0, 0, false
}

func overlaps(matches []Match, start, end int) bool {
	for _, m := range matches {
		if start < m.End && m.Start < end {
			return true
		}
	}
	return false
}

var (
	decimalComma = regexp.MustCompile(`(\d),(\d)`)
	centimetres  = regexp.MustCompile(`(\d)\s*(?:сантиметр\p{L}*|cm|см)(\P{L}|$)`)
	litres       = regexp.MustCompile(`(\d)\s*(?:литр\p{L}*|л|l)(\P{L}|$)`)
	punctuation  = strings.NewReplacer("-", " ", "_", " ", "ё", "е", "«", " ", "»", " ", "\"", " ")
)

// Normalize case-folds text, unifies size units ("30cm", "30 см" -> "30см")
// and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = punctuation.Replace(s)
	s = decimalComma.ReplaceAllString(s, "$1.$2")
	s = centimetres.ReplaceAllString(s, "${1}см${2}")
	s = litres.ReplaceAllString(s, "${1}l${2}")
	return strings.Join(strings.Fields(s), " ")
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
