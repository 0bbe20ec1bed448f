package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chat-auth/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return New(db)
}

func seedUser(t *testing.T, s *Store, email, tok string, expires time.Time) *models.User {
	t.Helper()
	u := &models.User{
		Email:                      email,
		Password:                   "digest",
		FullName:                   "Test User",
		VerificationToken:          &tok,
		VerificationTokenExpiresAt: &expires,
	}
	require.NoError(t, s.Create(context.Background(), u))
	return u
}

func TestFindByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "a@x.com", "tok-a", time.Now().Add(time.Hour))

	u, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = s.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByVerificationToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	seedUser(t, s, "a@x.com", "tok-a", now.Add(time.Hour))

	u, err := s.FindByVerificationToken(ctx, "tok-a", now)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = s.FindByVerificationToken(ctx, "tok-b", now)
	assert.ErrorIs(t, err, ErrNotFound)

	// a correct token past its expiry is indistinguishable from a wrong one
	_, err = s.FindByVerificationToken(ctx, "tok-a", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByResetToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	u := seedUser(t, s, "a@x.com", "tok-a", now.Add(time.Hour))
	rtok := "reset-tok"
	rexp := now.Add(time.Hour)
	u.ResetPasswordToken = &rtok
	u.ResetPasswordExpiresAt = &rexp
	require.NoError(t, s.Update(ctx, u))

	found, err := s.FindByResetToken(ctx, "reset-tok", now)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", found.Email)

	_, err = s.FindByResetToken(ctx, "reset-tok", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateClearsNullableFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "a@x.com", "tok-a", time.Now().Add(time.Hour))

	u.IsVerified = true
	u.VerificationToken = nil
	u.VerificationTokenExpiresAt = nil
	require.NoError(t, s.Update(ctx, u))

	saved, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, saved.IsVerified)
	assert.Nil(t, saved.VerificationToken)
	assert.Nil(t, saved.VerificationTokenExpiresAt)
}

func TestUpdateVersionConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "a@x.com", "tok-a", time.Now().Add(time.Hour))

	first, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	first.FullName = "Writer One"
	require.NoError(t, s.Update(ctx, first))

	second.FullName = "Writer Two"
	assert.ErrorIs(t, s.Update(ctx, second), ErrVersionConflict)

	saved, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Writer One", saved.FullName)
}

func TestUpdatePersistsRateLimitState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "a@x.com", "tok-a", time.Now().Add(time.Hour))

	now := time.Now()
	u.Verification.Attempts = 2
	u.Verification.AttemptsResetAt = now.Add(24 * time.Hour)
	u.Verification.LastEmailSentAt = &now
	require.NoError(t, s.Update(ctx, u))

	saved, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Verification.Attempts)
	require.NotNil(t, saved.Verification.LastEmailSentAt)
	assert.WithinDuration(t, now, *saved.Verification.LastEmailSentAt, time.Second)
	// the reset-flow state is independent and untouched
	assert.Equal(t, 0, saved.ResetPassword.Attempts)
	assert.Nil(t, saved.ResetPassword.LastEmailSentAt)
}
