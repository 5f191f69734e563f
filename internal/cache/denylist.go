package cache

import (
	"context"
	"fmt"
	"time"
)

const revokedPrefix = "auth:revoked:"

// Revoke помещает идентификатор токена в список отозванных на ttl.
// Запись живёт не дольше самого токена, поэтому список не растёт бесконечно.
func (c *Cache) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	const op = "cache.Revoke"
	if ttl <= 0 {
		return nil
	}
	if err := c.Db.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsRevoked сообщает, отозван ли токен.
func (c *Cache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	const op = "cache.IsRevoked"
	n, err := c.Db.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
