package middleware

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"slices"
	"time"
)

// FaultConfig describes injected transport faults: a random delay on every
// request and a failure rate for the listed methods.
type FaultConfig struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64
	Methods     []string
}

// Enabled reports whether the config injects anything.
func (c FaultConfig) Enabled() bool {
	return c.MaxLatency > 0 || c.FailureRate > 0
}

type faultInjector struct {
	cfg   FaultConfig
	float func() float64
	sleep func(ctx context.Context, d time.Duration) error
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Faults delays requests and fails a share of writes with 500, so clients
// can be exercised against a slow, unreliable backend.
func Faults(cfg FaultConfig) func(http.Handler) http.Handler {
	return newFaultInjector(cfg, rand.Float64, sleepCtx).wrap
}

func newFaultInjector(cfg FaultConfig, float func() float64, sleep func(context.Context, time.Duration) error) *faultInjector {
	return &faultInjector{cfg: cfg, float: float, sleep: sleep}
}

func (f *faultInjector) delay() time.Duration {
	lo, hi := f.cfg.MinLatency, f.cfg.MaxLatency
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(f.float()*float64(hi-lo))
}

func (f *faultInjector) wrap(next http.Handler) http.Handler {
	if !f.cfg.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := f.sleep(r.Context(), f.delay()); err != nil {
			return
		}
		if f.cfg.FailureRate > 0 && slices.Contains(f.cfg.Methods, r.Method) && f.float() < f.cfg.FailureRate {
			slog.Debug("injected fault", "method", r.Method, "path", r.URL.Path)
			http.Error(w, "injected failure", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}
