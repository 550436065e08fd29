package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "cafeCart", cfg.SlotKey)
	assert.Equal(t, "cafeCart:changes", cfg.ChangesChan)
	assert.Equal(t, 2*time.Second, cfg.CheckoutDelay)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("CART_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_CustomRedisAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.prod:6380")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "redis.prod:6380", cfg.RedisAddr)
}

func TestLoad_CustomSlotKey(t *testing.T) {
	t.Setenv("CART_SLOT_KEY", "testCart")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "testCart", cfg.SlotKey)
}

func TestLoad_CustomCheckoutDelay(t *testing.T) {
	t.Setenv("CHECKOUT_DELAY", "250ms")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.CheckoutDelay)
}

func TestLoad_NegativeCheckoutDelay(t *testing.T) {
	t.Setenv("CHECKOUT_DELAY", "-1s")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "checkout delay")
}
