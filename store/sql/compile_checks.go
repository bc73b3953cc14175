package sqlstore

import "github.com/goliatone/go-cielo/core"

var (
	_ core.SettingsStore        = (*OptionStore)(nil)
	_ core.SettingsStore        = (*CachedOptionStore)(nil)
	_ core.SettingsStoreFactory = (*RepositoryFactory)(nil)
)
