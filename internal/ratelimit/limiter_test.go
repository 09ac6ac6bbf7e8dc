package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moonymoon463-sudo/trezury-sub006/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGate_SecondSubmissionBlocked(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gate := NewMemoryGate(6000 * time.Millisecond)
	gate.now = func() time.Time { return clock }

	require.NoError(t, gate.Allow(context.Background(), "user-1"))

	// 1s later, inside the window
	clock = clock.Add(1 * time.Second)
	err := gate.Allow(context.Background(), "user-1")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrRateLimited, appErr.Type)
}

func TestMemoryGate_AllowedAfterWindow(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gate := NewMemoryGate(6000 * time.Millisecond)
	gate.now = func() time.Time { return clock }

	require.NoError(t, gate.Allow(context.Background(), "user-1"))

	clock = clock.Add(6001 * time.Millisecond)
	assert.NoError(t, gate.Allow(context.Background(), "user-1"))
}

func TestMemoryGate_UsersIndependent(t *testing.T) {
	gate := NewMemoryGate(6 * time.Second)

	require.NoError(t, gate.Allow(context.Background(), "user-1"))
	assert.NoError(t, gate.Allow(context.Background(), "user-2"))
}
