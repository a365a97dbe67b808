package utils

import (
	"testing"
	"time"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyHMAC(t *testing.T) {
	body := []byte(`{"event":"subscription.charged"}`)
	sig := SignHMAC("whsec", body)

	assert.Len(t, sig, 64)
	assert.True(t, VerifyHMAC("whsec", body, sig))
	assert.False(t, VerifyHMAC("other", body, sig))
	assert.False(t, VerifyHMAC("whsec", []byte(`{"event":"subscription.halted"}`), sig))
	assert.False(t, VerifyHMAC("whsec", body, "zz-not-hex"))
	assert.False(t, VerifyHMAC("whsec", body, ""))
	assert.False(t, VerifyHMAC("", body, SignHMAC("", body)))
}

func TestGenerateSecureRandomString(t *testing.T) {
	a, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	b, err := GenerateSecureRandomString(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	businessID := "biz-1"
	user := domain.User{UserID: "user-1", Role: domain.RoleShopkeeper, BusinessID: &businessID}
	now := time.Now()

	token, expiresAt, err := GenerateSessionToken(user, "secret", time.Hour, "billistry", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	claims, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{UserID: "user-1", BusinessID: "biz-1", Role: domain.RoleShopkeeper}, claims.Actor())

	_, err = ParseSessionToken(token, "wrong")
	assert.Error(t, err)

	expired, _, err := GenerateSessionToken(user, "secret", -time.Minute, "billistry", now)
	require.NoError(t, err)
	_, err = ParseSessionToken(expired, "secret")
	assert.Error(t, err)
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("hunter2hunter2", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("anything", ""))
}
