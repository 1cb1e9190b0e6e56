package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

type Checker interface {
	Check(ctx context.Context) CheckResult
}

type ProbeRunner struct {
	checkers    []Checker
	timeout     time.Duration
	gracePeriod time.Duration
	startedAt   time.Time
}

func NewProbeRunner(timeout, gracePeriod time.Duration, checkers ...Checker) *ProbeRunner {
	if timeout <= 0 {
		timeout = time.Second
	}
	kept := make([]Checker, 0, len(checkers))
	for _, c := range checkers {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &ProbeRunner{
		checkers:    kept,
		timeout:     timeout,
		gracePeriod: gracePeriod,
		startedAt:   time.Now(),
	}
}

// Ready runs all checks concurrently, each with its own timeout, and reports
// whether every dependency answered healthy.
func (r *ProbeRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	if r == nil {
		return true, nil
	}
	if r.gracePeriod > 0 && time.Since(r.startedAt) < r.gracePeriod {
		return false, []CheckResult{{Name: "startup_grace", Healthy: false, Error: "startup grace period active"}}
	}

	results := make([]CheckResult, len(r.checkers))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range r.checkers {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(gctx, r.timeout)
			defer cancel()
			results[i] = c.Check(checkCtx)
			return nil
		})
	}
	_ = g.Wait()

	allHealthy := true
	for _, res := range results {
		if !res.Healthy {
			allHealthy = false
		}
	}
	return allHealthy, results
}
