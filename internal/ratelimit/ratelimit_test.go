package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-auth/internal/models"
)

func freshState(now time.Time, p Policy) *models.RateLimitState {
	return &models.RateLimitState{AttemptsResetAt: now.Add(p.Window)}
}

func TestAllowFreshState(t *testing.T) {
	now := time.Now()
	s := freshState(now, VerificationEmails)
	require.NoError(t, VerificationEmails.Allow(s, now))
}

func TestCooldownBlocksRapidRetry(t *testing.T) {
	p := VerificationEmails
	now := time.Now()
	s := freshState(now, p)

	require.NoError(t, p.Allow(s, now))
	p.Record(s, now)

	assert.ErrorIs(t, p.Allow(s, now.Add(30*time.Second)), ErrCooldown)
	assert.ErrorIs(t, p.Allow(s, now.Add(59*time.Second)), ErrCooldown)
	assert.NoError(t, p.Allow(s, now.Add(60*time.Second)))
}

func TestQuotaBlocksAfterCap(t *testing.T) {
	p := VerificationEmails
	now := time.Now()
	s := freshState(now, p)

	for i := 0; i < p.MaxAttempts; i++ {
		at := now.Add(time.Duration(i) * 2 * time.Minute)
		require.NoError(t, p.Allow(s, at), "send %d should pass", i+1)
		p.Record(s, at)
	}

	at := now.Add(time.Duration(p.MaxAttempts) * 2 * time.Minute)
	assert.ErrorIs(t, p.Allow(s, at), ErrQuota)
}

// A capped account still reports quota after its cooldown has long passed:
// the two checks are independent.
func TestQuotaOutlivesCooldown(t *testing.T) {
	p := ResetEmails
	now := time.Now()
	s := freshState(now, p)

	for i := 0; i < p.MaxAttempts; i++ {
		at := now.Add(time.Duration(i) * 2 * time.Minute)
		require.NoError(t, p.Allow(s, at))
		p.Record(s, at)
	}
	assert.ErrorIs(t, p.Allow(s, now.Add(12*time.Hour)), ErrQuota)
}

func TestWindowResetsLazily(t *testing.T) {
	p := ResetEmails
	now := time.Now()
	s := freshState(now, p)

	for i := 0; i < p.MaxAttempts; i++ {
		at := now.Add(time.Duration(i) * 2 * time.Minute)
		require.NoError(t, p.Allow(s, at))
		p.Record(s, at)
	}

	at := now.Add(p.Window)
	require.NoError(t, p.Allow(s, at))
	assert.Equal(t, 0, s.Attempts)
	assert.Equal(t, at.Add(p.Window), s.AttemptsResetAt)
}

func TestCooldownStillAppliesAfterWindowReset(t *testing.T) {
	p := VerificationEmails
	now := time.Now()
	s := freshState(now, p)

	require.NoError(t, p.Allow(s, now))
	p.Record(s, now)

	// window elapses 30s after the last send; the cooldown must still hold
	s.AttemptsResetAt = now.Add(30 * time.Second)
	assert.ErrorIs(t, p.Allow(s, now.Add(45*time.Second)), ErrCooldown)
}

func TestPolicyConstants(t *testing.T) {
	assert.Equal(t, 3, VerificationEmails.MaxAttempts)
	assert.Equal(t, 2, ResetEmails.MaxAttempts)
	assert.Equal(t, time.Minute, VerificationEmails.Cooldown)
	assert.Equal(t, 24*time.Hour, VerificationEmails.Window)
}
