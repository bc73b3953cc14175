package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-cielo/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const optionCacheKeyPrefix = "go-cielo::option::v1"

// cachedOption is the cached read result, absent options included.
type cachedOption struct {
	Value []byte
	Found bool
}

// CachedOptionStore is a read-through cache in front of a SettingsStore.
// Writes go to the base store first and then invalidate the cached key.
type CachedOptionStore struct {
	base  core.SettingsStore
	cache repositorycache.CacheService
}

func NewCachedOptionStore(base core.SettingsStore, cacheService repositorycache.CacheService) (*CachedOptionStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base settings store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: option cache service is required")
	}
	return &CachedOptionStore{base: base, cache: cacheService}, nil
}

// OptionCacheKey returns go-cielo::option::v1::<name> with the name URL-path
// escaped.
func OptionCacheKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("sqlstore: option name is required")
	}
	return optionCacheKeyPrefix + "::" + url.PathEscape(name), nil
}

func (s *CachedOptionStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return nil, false, fmt.Errorf("sqlstore: cached option store is not configured")
	}
	key = strings.TrimSpace(key)
	cacheKey, err := OptionCacheKey(key)
	if err != nil {
		return nil, false, err
	}
	option, err := repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (cachedOption, error) {
		value, found, fetchErr := s.base.Get(ctx, key)
		if fetchErr != nil {
			return cachedOption{}, fetchErr
		}
		return cachedOption{Value: append([]byte(nil), value...), Found: found}, nil
	})
	if err != nil {
		return nil, false, err
	}
	if !option.Found {
		return nil, false, nil
	}
	return append([]byte(nil), option.Value...), true, nil
}

func (s *CachedOptionStore) Set(ctx context.Context, key string, value []byte) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached option store is not configured")
	}
	if err := s.base.Set(ctx, key, value); err != nil {
		return err
	}
	return s.invalidate(ctx, key)
}

func (s *CachedOptionStore) Delete(ctx context.Context, key string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached option store is not configured")
	}
	if err := s.base.Delete(ctx, key); err != nil {
		return err
	}
	return s.invalidate(ctx, key)
}

func (s *CachedOptionStore) invalidate(ctx context.Context, key string) error {
	cacheKey, err := OptionCacheKey(key)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}
