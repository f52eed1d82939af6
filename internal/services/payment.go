package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
)

// DefaultKaspiPayLink is the vendor's fixed Kaspi Pay page
const DefaultKaspiPayLink = "https://pay.kaspi.kz/pay/3ofujmgr"

// KaspiLinkGenerator builds Kaspi Pay links by adding the amount to a fixed
// merchant link. No network call is made.
type KaspiLinkGenerator struct {
	base *url.URL
}

// NewKaspiLinkGenerator validates the merchant link
func NewKaspiLinkGenerator(baseLink string) (*KaspiLinkGenerator, error) {
	if baseLink == "" {
		baseLink = DefaultKaspiPayLink
	}
	u, err := url.Parse(baseLink)
	if err != nil {
		return nil, fmt.Errorf("parse kaspi link: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" || u.Host == "" {
		return nil, fmt.Errorf("kaspi link must be an absolute http(s) URL: %q", baseLink)
	}
	return &KaspiLinkGenerator{base: u}, nil
}

// CreateLink returns the payment link for amount tenge
func (k *KaspiLinkGenerator) CreateLink(_ context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	u := *k.base
	q := u.Query()
	q.Set("amount", strconv.FormatInt(amount, 10))
	u.RawQuery = q.Encode()

	link := u.String()
	log.Printf("🔗 Generated Kaspi link: %s", link)
	return link, nil
}
