// Package service implements the auth flows: signup with email verification,
// resend, verify, login, the password-reset flow and profile updates. All
// collaborators (store, mailer, lock, uploader) are injected.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"chat-auth/internal/models"
	"chat-auth/internal/ratelimit"
	"chat-auth/internal/session"
	"chat-auth/internal/store"
	"chat-auth/internal/token"
	"chat-auth/internal/uploader"
	"chat-auth/internal/utils"
)

const (
	minPasswordLen = 6

	// sendLockTTL bounds how long a crashed request can keep an account's
	// send lock.
	sendLockTTL = 10 * time.Second

	maxUpdateRetries = 3
)

type EmailSender interface {
	SendVerification(to, tok string) error
	SendWelcome(to, name string) error
	SendPasswordReset(to, resetURL string) error
	SendResetSuccess(to string) error
}

// SendLocker serializes concurrent send requests for one account. A nil
// locker degrades to the store's version check alone.
type SendLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Auth struct {
	store     *store.Store
	email     EmailSender
	locks     SendLocker
	uploads   uploader.Uploader
	jwtSecret []byte
	clientURL string
	now       func() time.Time
}

func New(st *store.Store, email EmailSender, locks SendLocker, uploads uploader.Uploader, jwtSecret []byte, clientURL string) *Auth {
	return &Auth{
		store:     st,
		email:     email,
		locks:     locks,
		uploads:   uploads,
		jwtSecret: jwtSecret,
		clientURL: clientURL,
		now:       time.Now,
	}
}

// Signup creates an unverified user and sends the verification email
// synchronously. A send failure is surfaced so the caller knows no token is
// on its way; the row is kept with zero recorded attempts so a later resend
// is not penalized.
func (a *Auth) Signup(ctx context.Context, fullName, email, password string) (*models.User, error) {
	if fullName == "" || email == "" || password == "" || len(password) < minPasswordLen {
		return nil, ErrValidation
	}

	existing, err := a.store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.IsVerified {
			return nil, ErrDuplicateAccount
		}
		return nil, ErrAlreadyPending
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	tok, err := token.Issue()
	if err != nil {
		return nil, err
	}

	now := a.now()
	expires := now.Add(token.VerificationTTL)
	user := &models.User{
		Email:                      email,
		Password:                   hash,
		FullName:                   fullName,
		VerificationToken:          &tok,
		VerificationTokenExpiresAt: &expires,
		Verification: models.RateLimitState{
			Attempts:        0,
			AttemptsResetAt: now.Add(ratelimit.VerificationEmails.Window),
		},
	}
	if err := a.store.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := a.email.SendVerification(user.Email, tok); err != nil {
		log.Printf("verification email to %s failed: %v", user.Email, err)
		return nil, ErrEmailSend
	}
	return a.persist(ctx, user, func(u *models.User) {
		ratelimit.VerificationEmails.Record(&u.Verification, now)
	})
}

// ResendVerification reissues the verification token under the rate-limit
// policy. The email goes out before the new state is persisted, so a failed
// send burns no quota.
func (a *Auth) ResendVerification(ctx context.Context, email string) error {
	unlock, err := a.lockSend(ctx, "verify", email)
	if err != nil {
		return err
	}
	defer unlock()

	user, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	now := a.now()
	if err := ratelimit.VerificationEmails.Allow(&user.Verification, now); err != nil {
		return err
	}

	tok, err := token.Issue()
	if err != nil {
		return err
	}
	if err := a.email.SendVerification(user.Email, tok); err != nil {
		log.Printf("verification email to %s failed: %v", user.Email, err)
		return ErrEmailSend
	}

	expires := now.Add(token.VerificationTTL)
	_, err = a.persist(ctx, user, func(u *models.User) {
		u.VerificationToken = &tok
		u.VerificationTokenExpiresAt = &expires
		// re-run the lazy window reset against the fresh row
		_ = ratelimit.VerificationEmails.Allow(&u.Verification, now)
		ratelimit.VerificationEmails.Record(&u.Verification, now)
	})
	return err
}

// VerifyEmail consumes a verification token, marks the user verified and
// returns a session credential. The welcome email is fire-and-forget.
func (a *Auth) VerifyEmail(ctx context.Context, tok string) (*models.User, string, error) {
	user, err := a.store.FindByVerificationToken(ctx, tok, a.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidOrExpired
		}
		return nil, "", err
	}

	user, err = a.persist(ctx, user, func(u *models.User) {
		u.IsVerified = true
		u.VerificationToken = nil
		u.VerificationTokenExpiresAt = nil
	})
	if err != nil {
		return nil, "", err
	}

	go func(email, name string) {
		if err := a.email.SendWelcome(email, name); err != nil {
			log.Printf("welcome email to %s failed: %v", email, err)
		}
	}(user.Email, user.FullName)

	sess, err := session.Issue(user.ID, a.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return user, sess, nil
}

// Login answers with one indistinguishable error for unknown email, wrong
// password and unverified account.
func (a *Auth) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !user.IsVerified {
		return nil, "", ErrInvalidCredentials
	}
	if err := utils.CheckPasswordHash(user.Password, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	sess, err := session.Issue(user.ID, a.jwtSecret)
	if err != nil {
		return nil, "", err
	}
	return user, sess, nil
}

// ForgotPassword issues a reset token and mails the reset link. Unknown
// emails and rate-limit rejections both come back as typed errors; the HTTP
// layer masks them behind the generic response so the endpoint reveals
// nothing about account existence.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	unlock, err := a.lockSend(ctx, "reset", email)
	if err != nil {
		return err
	}
	defer unlock()

	user, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	now := a.now()
	if err := ratelimit.ResetEmails.Allow(&user.ResetPassword, now); err != nil {
		return err
	}

	tok, err := token.Issue()
	if err != nil {
		return err
	}
	resetURL := fmt.Sprintf("%s/reset-password/%s", a.clientURL, tok)
	if err := a.email.SendPasswordReset(user.Email, resetURL); err != nil {
		log.Printf("reset email to %s failed: %v", user.Email, err)
		return ErrEmailSend
	}

	expires := now.Add(token.ResetTTL)
	_, err = a.persist(ctx, user, func(u *models.User) {
		u.ResetPasswordToken = &tok
		u.ResetPasswordExpiresAt = &expires
		_ = ratelimit.ResetEmails.Allow(&u.ResetPassword, now)
		ratelimit.ResetEmails.Record(&u.ResetPassword, now)
	})
	return err
}

// ResetPassword consumes a reset token: the digest update and the token
// clear are one write, which is what makes the token single-use.
func (a *Auth) ResetPassword(ctx context.Context, tok, newPassword string) error {
	if newPassword == "" || len(newPassword) < minPasswordLen {
		return ErrValidation
	}

	user, err := a.store.FindByResetToken(ctx, tok, a.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOrExpired
		}
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hash
	user.ResetPasswordToken = nil
	user.ResetPasswordExpiresAt = nil
	if err := a.store.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			// a concurrent request consumed the token first
			return ErrInvalidOrExpired
		}
		return err
	}

	go func(email string) {
		if err := a.email.SendResetSuccess(email); err != nil {
			log.Printf("reset confirmation email to %s failed: %v", email, err)
		}
	}(user.Email)
	return nil
}

func (a *Auth) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := a.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile hands the image to the upload collaborator and stores the
// returned URL.
func (a *Auth) UpdateProfile(ctx context.Context, userID uint, profilePic string) (*models.User, error) {
	if profilePic == "" {
		return nil, ErrValidation
	}
	url, err := a.uploads.Upload(ctx, profilePic)
	if err != nil {
		return nil, fmt.Errorf("uploading profile pic: %w", err)
	}
	user, err := a.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.persist(ctx, user, func(u *models.User) {
		u.ProfilePic = url
	})
}

// persist applies a mutation and writes it, re-reading and re-applying a
// bounded number of times when the row moved underneath us. Used on paths
// where the side effect (an email on the wire) already happened and the new
// state must win.
func (a *Auth) persist(ctx context.Context, user *models.User, apply func(*models.User)) (*models.User, error) {
	for i := 0; i < maxUpdateRetries; i++ {
		apply(user)
		err := a.store.Update(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, err
		}
		fresh, ferr := a.store.FindByID(ctx, user.ID)
		if ferr != nil {
			return nil, ferr
		}
		user = fresh
	}
	return nil, store.ErrVersionConflict
}

func (a *Auth) lockSend(ctx context.Context, kind, email string) (func(), error) {
	if a.locks == nil {
		return func() {}, nil
	}
	key := "send:" + kind + ":" + email
	ok, err := a.locks.Acquire(ctx, key, sendLockTTL)
	if err != nil {
		// redis being down must not take the flow down with it
		log.Printf("send lock unavailable: %v", err)
		return func() {}, nil
	}
	if !ok {
		return nil, ratelimit.ErrCooldown
	}
	return func() { _ = a.locks.Release(context.Background(), key) }, nil
}
