package services

import (
	"errors"
	"fmt"
)

// Upstream names used in errors, logs and metrics
const (
	UpstreamAI       = "ai"
	UpstreamNotifier = "notifier"
	UpstreamPayment  = "payment"
)

// ErrInvalidAmount is returned by payment link generators for amounts <= 0
var ErrInvalidAmount = errors.New("invalid payment amount")

// UpstreamError wraps a failed call to an external collaborator
type UpstreamError struct {
	Upstream string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream: %v", e.Upstream, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err unless it is nil or already an UpstreamError
func NewUpstreamError(upstream string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Upstream: upstream, Err: err}
}

// IsUpstream reports whether err came from an external collaborator
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
