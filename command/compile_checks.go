package command

import (
	"github.com/goliatone/go-cielo/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Commander[MigrateSettingsMessage] = (*MigrateSettingsCommand)(nil)
	_ gocmd.Commander[StartPluginMessage]     = (*StartPluginCommand)(nil)
	_ SettingsMigrator                        = (*core.Plugin)(nil)
	_ PluginStarter                           = (*core.Plugin)(nil)
)
