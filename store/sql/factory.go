package sqlstore

import (
	"fmt"

	"github.com/goliatone/go-cielo/core"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// RepositoryFactory builds the SQL settings store from a persistence client
// or a bun db. With a cache service the store is wrapped in a
// CachedOptionStore.
type RepositoryFactory struct {
	db    *bun.DB
	cache repositorycache.CacheService

	optionStore   *OptionStore
	settingsStore core.SettingsStore
}

type FactoryOption func(*RepositoryFactory)

func WithCacheService(cacheService repositorycache.CacheService) FactoryOption {
	return func(f *RepositoryFactory) {
		f.cache = cacheService
	}
}

func NewRepositoryFactory(opts ...FactoryOption) *RepositoryFactory {
	factory := &RepositoryFactory{}
	for _, opt := range opts {
		if opt != nil {
			opt(factory)
		}
	}
	return factory
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client, opts ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if _, err := factory.BuildSettingsStore(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB, opts ...FactoryOption) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(opts...)
	if _, err := factory.BuildSettingsStore(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildSettingsStore(persistenceClient any) (core.SettingsStore, error) {
	if f == nil {
		return nil, fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.settingsStore != nil {
		return f.settingsStore, nil
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return nil, err
		}
		f.db = db
	}
	optionStore, err := NewOptionStore(f.db)
	if err != nil {
		return nil, err
	}
	f.optionStore = optionStore
	f.settingsStore = optionStore
	if f.cache != nil {
		cached, cacheErr := NewCachedOptionStore(optionStore, f.cache)
		if cacheErr != nil {
			return nil, cacheErr
		}
		f.settingsStore = cached
	}
	return f.settingsStore, nil
}

func (f *RepositoryFactory) SettingsStore() core.SettingsStore {
	if f == nil {
		return nil
	}
	return f.settingsStore
}

func (f *RepositoryFactory) OptionStore() *OptionStore {
	if f == nil {
		return nil
	}
	return f.optionStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}
