// Package store is the credential store: one row per registered email,
// owning all token, attempt and timestamp fields.
package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"chat-auth/internal/models"
)

var (
	ErrNotFound = errors.New("user not found")

	// ErrVersionConflict means another request updated the row between our
	// read and write. Callers re-read and retry.
	ErrVersionConflict = errors.New("user row changed concurrently")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return first(&u, err)
}

func (s *Store) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	return first(&u, err)
}

// FindByVerificationToken matches the exact token and filters expiry in SQL,
// so an expired token is indistinguishable from an unknown one.
func (s *Store) FindByVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("verification_token = ? AND verification_token_expires_at > ?", token, now).
		First(&u).Error
	return first(&u, err)
}

func (s *Store) FindByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expires_at > ?", token, now).
		First(&u).Error
	return first(&u, err)
}

// Update writes the full row guarded by the version read earlier. A stale
// version touches zero rows and yields ErrVersionConflict.
func (s *Store) Update(ctx context.Context, u *models.User) error {
	next := *u
	next.Version = u.Version + 1
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND version = ?", u.ID, u.Version).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	u.Version = next.Version
	return nil
}

func first(u *models.User, err error) (*models.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
