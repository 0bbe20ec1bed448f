// Package ratelimit bounds how often one account can trigger an outbound
// email of a given kind. Two checks apply independently: a cooldown between
// consecutive sends and a cap on sends per rolling window. The window resets
// lazily on the next request; there is no background sweep.
package ratelimit

import (
	"errors"
	"time"

	"chat-auth/internal/models"
)

var (
	ErrCooldown = errors.New("please wait before requesting another email")
	ErrQuota    = errors.New("too many emails requested, try again later")
)

type Policy struct {
	Cooldown    time.Duration
	Window      time.Duration
	MaxAttempts int
}

// VerificationEmails allows max 3 verification sends per 24h, 60s apart.
var VerificationEmails = Policy{
	Cooldown:    time.Minute,
	Window:      24 * time.Hour,
	MaxAttempts: 3,
}

// ResetEmails allows max 2 reset sends per 24h, 60s apart.
var ResetEmails = Policy{
	Cooldown:    time.Minute,
	Window:      24 * time.Hour,
	MaxAttempts: 2,
}

// Allow decides whether a send may happen at now. It first performs the lazy
// window reset (mutating s), then checks cooldown and cap. The reset is
// idempotent, so a rejected request need not persist anything: the next
// request recomputes it.
func (p Policy) Allow(s *models.RateLimitState, now time.Time) error {
	if !now.Before(s.AttemptsResetAt) {
		s.Attempts = 0
		s.AttemptsResetAt = now.Add(p.Window)
	}
	if s.LastEmailSentAt != nil && now.Sub(*s.LastEmailSentAt) < p.Cooldown {
		return ErrCooldown
	}
	if s.Attempts >= p.MaxAttempts {
		return ErrQuota
	}
	return nil
}

// Record marks a permitted send. The caller persists s atomically with the
// freshly issued token.
func (p Policy) Record(s *models.RateLimitState, now time.Time) {
	s.Attempts++
	sent := now
	s.LastEmailSentAt = &sent
}
