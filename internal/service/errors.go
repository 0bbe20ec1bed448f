package service

import "errors"

// Expected failure modes of the auth flows. Controllers map these to HTTP
// statuses; anything else is an internal error and never reaches the client
// in detail.
var (
	ErrValidation         = errors.New("invalid input")
	ErrDuplicateAccount   = errors.New("email already exists")
	ErrAlreadyPending     = errors.New("account already pending verification")
	ErrNotFound           = errors.New("user not found")
	ErrAlreadyVerified    = errors.New("email is already verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOrExpired   = errors.New("invalid or expired token")
	ErrEmailSend          = errors.New("error sending email")
)
