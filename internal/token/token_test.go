package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifySession(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("super-secret", time.Hour)

	tok, err := issuer.IssueSession("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := issuer.VerifySession(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifySession_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("super-secret", -time.Second)

	tok, err := issuer.IssueSession("user-123")
	require.NoError(t, err)

	_, err = issuer.VerifySession(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySession_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer("right-secret", time.Hour).IssueSession("user-123")
	require.NoError(t, err)

	_, err = NewIssuer("wrong-secret", time.Hour).VerifySession(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySession_Tampered(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("super-secret", time.Hour)
	tok, err := issuer.IssueSession("user-123")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "X." + parts[2]

	_, err = issuer.VerifySession(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifySession_Garbage(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("super-secret", time.Hour)
	_, err := issuer.VerifySession("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSecret(t *testing.T) {
	t.Parallel()

	plaintext, hash, err := NewSecret()
	require.NoError(t, err)

	assert.Len(t, plaintext, secretBytes*2)
	assert.Equal(t, HashSecret(plaintext), hash)
	assert.NotEqual(t, plaintext, hash)

	other, _, err := NewSecret()
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, other)
}
