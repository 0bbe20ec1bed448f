package models

import (
	"time"

	"gorm.io/gorm"
)

// RateLimitState is the per-email-kind send bookkeeping. The user row embeds
// two independent copies: one for verification emails, one for password-reset
// emails.
type RateLimitState struct {
	Attempts        int        `json:"-"`
	AttemptsResetAt time.Time  `json:"-"`
	LastEmailSentAt *time.Time `json:"-"`
}

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Version guards optimistic read-modify-write; every update checks and
	// bumps it so two concurrent requests cannot both act on stale state.
	Version uint `json:"-"`

	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Password   string `json:"-"`
	FullName   string `json:"full_name"`
	ProfilePic string `json:"profile_pic"`

	IsVerified                 bool           `gorm:"default:false" json:"is_verified"`
	VerificationToken          *string        `gorm:"index" json:"-"`
	VerificationTokenExpiresAt *time.Time     `json:"-"`
	Verification               RateLimitState `gorm:"embedded;embeddedPrefix:verification_" json:"-"`

	ResetPasswordToken     *string        `gorm:"index" json:"-"`
	ResetPasswordExpiresAt *time.Time     `json:"-"`
	ResetPassword          RateLimitState `gorm:"embedded;embeddedPrefix:reset_password_" json:"-"`
}

// Public is the sanitized projection returned to clients. The digest, tokens
// and all rate-limit bookkeeping never leave the server.
type Public struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	ProfilePic string    `json:"profile_pic"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) Public() Public {
	return Public{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
