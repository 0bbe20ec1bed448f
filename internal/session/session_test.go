package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	secret := []byte("test-secret")

	tok, err := Issue(42, secret)
	require.NoError(t, err)

	id, err := Parse(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := Issue(42, []byte("secret-a"))
	require.NoError(t, err)

	_, err = Parse(tok, []byte("secret-b"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-jwt", []byte("test-secret"))
	assert.ErrorIs(t, err, ErrInvalid)
}
