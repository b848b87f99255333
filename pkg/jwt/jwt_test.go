package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("op-1", "Giulia", "olbia", []string{"inventory:count"}, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, "Giulia", claims.Name)
	assert.True(t, claims.HasPrivilege("inventory:count"))
	assert.False(t, claims.HasPrivilege("inventory:delete"))
}

func TestValidateToken_Rejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired, err := GenerateToken("op-1", "Giulia", "", nil, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	t.Setenv("JWT_SECRET", "other-secret")
	valid, err := GenerateToken("op-1", "Giulia", "", nil, time.Hour)
	require.NoError(t, err)
	t.Setenv("JWT_SECRET", "test-secret")
	_, err = ValidateToken(valid)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := GenerateToken("op-1", "Giulia", "", nil, time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}
