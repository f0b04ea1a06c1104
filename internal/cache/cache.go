package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// AudioCache stores synthesized audio keyed by the inputs that produced
// it. A nil *AudioCache is valid and always misses, so callers need no
// enabled checks.
type AudioCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *AudioCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AudioCache{client: client, ttl: ttl}
}

// Key derives a stable cache key from everything that influences the
// synthesized bytes.
func Key(modelID, voiceID, text string) string {
	h := sha256.New()
	h.Write([]byte(modelID))
	h.Write([]byte{0})
	h.Write([]byte(voiceID))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "tts:" + hex.EncodeToString(h.Sum(nil))
}

func (c *AudioCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *AudioCache) Set(ctx context.Context, key string, audio []byte) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key, audio, c.ttl).Err()
}
