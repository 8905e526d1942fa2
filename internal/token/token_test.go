package token

import (
	"testing"
	"time"

	"simple-ecommerce/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	maker, err := NewMaker("secret", time.Hour)
	require.NoError(t, err)

	raw, err := maker.Issue(&models.User{ID: 7, Email: "a@example.com", IsAdmin: true})
	require.NoError(t, err)

	identity, err := maker.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(7), identity.ID)
	assert.Equal(t, "a@example.com", identity.Email)
	assert.True(t, identity.IsAdmin)
}

func TestVerifyRejectsExpired(t *testing.T) {
	maker, err := NewMaker("secret", time.Hour)
	require.NoError(t, err)

	issued := time.Now().Add(-2 * time.Hour)
	maker.now = func() time.Time { return issued }
	raw, err := maker.Issue(&models.User{ID: 1})
	require.NoError(t, err)

	maker.now = time.Now
	_, err = maker.Verify(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer, err := NewMaker("one", time.Hour)
	require.NoError(t, err)
	verifier, err := NewMaker("two", time.Hour)
	require.NoError(t, err)

	raw, err := issuer.Issue(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	maker, err := NewMaker("secret", time.Hour)
	require.NoError(t, err)

	_, err = maker.Verify("not-a-token")
	assert.Error(t, err)
}

func TestNewMakerRequiresSecret(t *testing.T) {
	_, err := NewMaker("", time.Hour)
	assert.Error(t, err)
}
