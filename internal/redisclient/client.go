package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/consume_otp.lua
var consumeOTPScript string

// OTPResult is the outcome of checking a submitted reset code.
type OTPResult int

const (
	OTPMismatch OTPResult = -1
	OTPMissing  OTPResult = 0
	OTPValid    OTPResult = 1
)

type Client struct {
	rdb        *redis.Client
	consumeOTP *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:        rdb,
		consumeOTP: redis.NewScript(consumeOTPScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the Redis connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func otpKey(email string) string {
	return fmt.Sprintf("otp:reset:%s", strings.ToLower(email))
}

// SaveOTP stores a reset code for the email, replacing any pending one and
// resetting its attempt counter.
func (c *Client) SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	key := otpKey(email)

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "code", code, "attempts", 0)
	pipe.Expire(ctx, key, ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// ConsumeOTP atomically checks a submitted code using Lua script.
// A matching code is deleted so it cannot be replayed.
func (c *Client) ConsumeOTP(ctx context.Context, email, code string, maxAttempts int) (OTPResult, error) {
	result, err := c.consumeOTP.Run(ctx, c.rdb, []string{otpKey(email)}, code, maxAttempts).Result()
	if err != nil {
		return OTPMissing, fmt.Errorf("consume otp script failed: %w", err)
	}

	n, ok := result.(int64)
	if !ok {
		return OTPMissing, fmt.Errorf("unexpected script result type")
	}

	return OTPResult(n), nil
}
