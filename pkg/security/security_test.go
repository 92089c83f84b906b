package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("unit-test-secret")

func Test_StaffToken_RoundTrip(t *testing.T) {
	claims := NewTokenClaims("maria@firm.example", "attorney", time.Now().Add(time.Hour).Unix())

	signed, err := GenerateJWT(claims, testSecret)
	require.NoError(t, err)

	parsed, err := VerifyToken(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "maria@firm.example", parsed.GetPrincipal())
	assert.Equal(t, "attorney", parsed.Role)
}

func Test_ShareGrant_RoundTrip(t *testing.T) {
	claims := NewShareGrantClaims("letter", "res-1", "tok-1", 10*time.Minute)

	signed, err := GenerateJWT(claims, testSecret)
	require.NoError(t, err)

	parsed, err := VerifyShareGrant(signed, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "letter", parsed.Kind)
	assert.Equal(t, "res-1", parsed.ResourceID)
}

func Test_ShareGrant_Expired(t *testing.T) {
	claims := NewShareGrantClaims("letter", "res-1", "tok-1", -time.Minute)

	signed, err := GenerateJWT(claims, testSecret)
	require.NoError(t, err)

	_, err = VerifyShareGrant(signed, testSecret)
	assert.Error(t, err)
}

func Test_VerifyToken_WrongSecret(t *testing.T) {
	claims := NewTokenClaims("maria@firm.example", "attorney", time.Now().Add(time.Hour).Unix())

	signed, err := GenerateJWT(claims, testSecret)
	require.NoError(t, err)

	_, err = VerifyToken(signed, []byte("other-secret"))
	assert.Error(t, err)
}
