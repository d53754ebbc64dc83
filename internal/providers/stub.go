package providers

import (
	"context"
	"sync/atomic"
	"time"
)

// StubProvider is a canned-response provider used in tests and local
// development runs without a real credential.
type StubProvider struct {
	Response string
	Err      error
	Delay    time.Duration

	calls atomic.Int64
}

// Name returns the provider name
func (s *StubProvider) Name() string {
	return "stub"
}

// Generate returns the canned response after the configured delay, honoring
// context cancellation so timeout behavior can be exercised.
func (s *StubProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	s.calls.Add(1)

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	if s.Response != "" {
		return s.Response, nil
	}
	return "This is a stub response", nil
}

// ValidateConfig validates the provider configuration
func (s *StubProvider) ValidateConfig() error {
	return nil
}

// Calls reports how many times Generate has been invoked.
func (s *StubProvider) Calls() int64 {
	return s.calls.Load()
}
