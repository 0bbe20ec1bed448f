// Package token issues the opaque bearer tokens used for email verification
// and password reset.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

const (
	// rawLen is the number of random bytes per token; hex-encoding doubles it
	// on the wire.
	rawLen = 20

	VerificationTTL = 8 * time.Hour
	ResetTTL        = time.Hour
)

// Issue returns a new cryptographically random, URL-safe token.
func Issue() (string, error) {
	buf := make([]byte, rawLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
