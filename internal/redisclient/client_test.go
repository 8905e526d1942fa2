package redisclient

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestClient(t *testing.T) *Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	c, err := NewClient(addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOTPKeyIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, otpKey("a@example.com"), otpKey("A@Example.com"))
}

func TestConsumeOTP(t *testing.T) {
	c := openTestClient(t)
	ctx := context.Background()
	email := "otp-test@example.com"
	t.Cleanup(func() { c.GetClient().Del(ctx, otpKey(email)) })

	require.NoError(t, c.SaveOTP(ctx, email, "123456", time.Minute))

	ttl, err := c.GetClient().TTL(ctx, otpKey(email)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	result, err := c.ConsumeOTP(ctx, email, "000000", 5)
	require.NoError(t, err)
	assert.Equal(t, OTPMismatch, result)

	result, err = c.ConsumeOTP(ctx, email, "123456", 5)
	require.NoError(t, err)
	assert.Equal(t, OTPValid, result)

	result, err = c.ConsumeOTP(ctx, email, "123456", 5)
	require.NoError(t, err)
	assert.Equal(t, OTPMissing, result)
}

func TestConsumeOTPBurnsAfterMaxAttempts(t *testing.T) {
	c := openTestClient(t)
	ctx := context.Background()
	email := "otp-burn@example.com"
	t.Cleanup(func() { c.GetClient().Del(ctx, otpKey(email)) })

	require.NoError(t, c.SaveOTP(ctx, email, "123456", time.Minute))

	for i := 0; i < 2; i++ {
		result, err := c.ConsumeOTP(ctx, email, "999999", 2)
		require.NoError(t, err)
		assert.Equal(t, OTPMismatch, result)
	}

	result, err := c.ConsumeOTP(ctx, email, "123456", 2)
	require.NoError(t, err)
	assert.Equal(t, OTPMissing, result)
}
