// Package ratelimit gates order submission to one per user per window.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
)

// TradeGate admits at most one trade submission per user per window
type TradeGate interface {
	Allow(ctx context.Context, userID string) error
}

// MemoryGate is the process-local implementation: a per-user timestamp map,
// reset on restart and not shared across instances. Deployments needing
// cross-instance correctness use the Redis gate instead.
type MemoryGate struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
	now    func() time.Time
}

func NewMemoryGate(window time.Duration) *MemoryGate {
	return &MemoryGate{
		window: window,
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
}

func (g *MemoryGate) Allow(ctx context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.last[userID]; ok {
		if elapsed := now.Sub(last); elapsed < g.window {
			remaining := g.window - elapsed
			return apperrors.NewRateLimited(
				fmt.Sprintf("trade window active, retry in %dms", remaining.Milliseconds()))
		}
	}
	g.last[userID] = now
	return nil
}
