package utils

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pennypusher/pennypusher/internal/core/domain"
)

// KeyExistsFunc reports whether a candidate pusher key is already taken.
type KeyExistsFunc func(ctx context.Context, key string) (bool, error)

// GeneratePusherKey produces an 8-character uppercase hex key, retrying
// until the exists check reports it free.
func GeneratePusherKey(ctx context.Context, exists KeyExistsFunc) (string, error) {
	for {
		hex := strings.ReplaceAll(uuid.NewString(), "-", "")
		key := strings.ToUpper(hex[:domain.KeyLength])
		taken, err := exists(ctx, key)
		if err != nil {
			return "", err
		}
		if !taken {
			return key, nil
		}
	}
}
