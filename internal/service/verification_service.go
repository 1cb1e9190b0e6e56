package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/memberbase/member-registry/internal/observability"
)

// MockSSNVerifier simulates a call to an external verification authority: it
// waits roughly a network round-trip and then answers positively with a fixed
// probability. It never errors for well-formed input; malformed ssns are
// rejected by validation before this is reached.
type MockSSNVerifier struct {
	delay       time.Duration
	successRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockSSNVerifier(delay time.Duration, successRate float64) *MockSSNVerifier {
	seed := uint64(time.Now().UnixNano())
	return NewMockSSNVerifierWithSource(delay, successRate, rand.NewPCG(seed, seed>>32))
}

// NewMockSSNVerifierWithSource exists so tests can pin the randomness.
func NewMockSSNVerifierWithSource(delay time.Duration, successRate float64, src rand.Source) *MockSSNVerifier {
	return &MockSSNVerifier{
		delay:       delay,
		successRate: successRate,
		rng:         rand.New(src),
	}
}

func (v *MockSSNVerifier) Verify(ctx context.Context, ssn string) (bool, error) {
	if v.delay > 0 {
		timer := time.NewTimer(v.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}

	v.mu.Lock()
	roll := v.rng.Float64()
	v.mu.Unlock()

	verified := roll < v.successRate
	observability.RecordVerificationOutcome(ctx, verified)
	return verified, nil
}
