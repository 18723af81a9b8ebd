package features

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/vsinha/picking/pkg/domain/repositories"
)

// DefaultKeyPrefix namespaces feature keys in redis
const DefaultKeyPrefix = "picking:feature:"

// RedisToggles reads feature switches from redis keys "<prefix><feature>".
// A missing key falls back to the configured default.
type RedisToggles struct {
	client    redis.UniversalClient
	keyPrefix string
	defaults  map[string]bool
}

var _ repositories.FeatureToggles = (*RedisToggles)(nil)

// NewRedisToggles creates toggles over client; defaults apply to unset keys
func NewRedisToggles(client redis.UniversalClient, keyPrefix string, defaults map[string]bool) *RedisToggles {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	copied := make(map[string]bool, len(defaults))
	for feature, enabled := range defaults {
		copied[feature] = enabled
	}
	return &RedisToggles{
		client:    client,
		keyPrefix: keyPrefix,
		defaults:  copied,
	}
}

func (t *RedisToggles) IsEnabled(ctx context.Context, feature string) (bool, error) {
	value, err := t.client.Get(ctx, t.key(feature)).Result()
	if errors.Is(err, redis.Nil) {
		return t.defaults[feature], nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read feature %s: %w", feature, err)
	}

	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("feature %s has invalid value %q", feature, value)
	}
	return enabled, nil
}

// SetEnabled stores a feature switch
func (t *RedisToggles) SetEnabled(ctx context.Context, feature string, enabled bool) error {
	return t.client.Set(ctx, t.key(feature), strconv.FormatBool(enabled), 0).Err()
}

// Clear removes a feature switch so the default applies again
func (t *RedisToggles) Clear(ctx context.Context, feature string) error {
	return t.client.Del(ctx, t.key(feature)).Err()
}

func (t *RedisToggles) key(feature string) string {
	return t.keyPrefix + feature
}
