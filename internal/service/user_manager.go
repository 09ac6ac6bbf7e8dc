package service

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/config"
	"github.com/moonymoon463-sudo/trezury-sub006/internal/model"
)

const (
	defaultQPS   = 5.0
	defaultBurst = 10
)

// UserManager resolves API keys to users and holds the per-user HTTP rate
// limiter. Users are loaded from configuration at startup; this is separate
// from the per-trade gate, which limits order submission specifically.
type UserManager struct {
	mu       sync.RWMutex
	byAPIKey map[string]*model.User
	limiters map[string]*rate.Limiter
	first    *model.User
}

func NewUserManager(users []config.UserConfig) *UserManager {
	m := &UserManager{
		byAPIKey: make(map[string]*model.User, len(users)),
		limiters: make(map[string]*rate.Limiter, len(users)),
	}
	for _, u := range users {
		qps := u.QPS
		if qps <= 0 {
			qps = defaultQPS
		}
		burst := u.Burst
		if burst <= 0 {
			burst = defaultBurst
		}
		user := &model.User{
			ID:     u.ID,
			APIKey: u.APIKey,
			Rate:   model.RateLimitConfig{QPS: qps, Burst: burst},
		}
		m.byAPIKey[u.APIKey] = user
		m.limiters[u.ID] = rate.NewLimiter(rate.Limit(qps), burst)
		if m.first == nil {
			m.first = user
		}
	}
	return m
}

// DefaultUser is the first configured user, used only when the deployment
// disables API-key auth (local development).
func (m *UserManager) DefaultUser() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.first
}

// Authenticate returns the user owning the API key, or nil
func (m *UserManager) Authenticate(apiKey string) *model.User {
	if apiKey == "" {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byAPIKey[apiKey]
}

// Limiter returns the request-rate limiter for a user, creating a default
// one for users registered after startup.
func (m *UserManager) Limiter(userID string) *rate.Limiter {
	m.mu.RLock()
	l, ok := m.limiters[userID]
	m.mu.RUnlock()
	if ok {
		return l
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.limiters[userID]; ok {
		return l
	}
	l = rate.NewLimiter(rate.Limit(defaultQPS), defaultBurst)
	m.limiters[userID] = l
	return l
}
