package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, "Alice", "alice@example.com", "STUDENT")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.Uid)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, "STUDENT", claims.Role)
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(1, "Bob", "bob@example.com", "FACULTY")
	assert.NoError(t, err)

	claims, err := issuer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	token, err := issuer.Issue(1, "Bob", "bob@example.com", "FACULTY")
	assert.NoError(t, err)

	claims, err := other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, claims)
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	claims, err := issuer.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.Nil(t, claims)
}
