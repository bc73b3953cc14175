package command

import (
	"context"

	"github.com/goliatone/go-cielo/core"
	gocmd "github.com/goliatone/go-command"
)

type SettingsMigrator interface {
	Migrate(ctx context.Context) (core.MigrationReport, error)
}

type PluginStarter interface {
	Start(ctx context.Context) (core.StartupReport, error)
}

type MigrateSettingsCommand struct {
	migrator SettingsMigrator
}

func NewMigrateSettingsCommand(migrator SettingsMigrator) *MigrateSettingsCommand {
	return &MigrateSettingsCommand{migrator: migrator}
}

func (c *MigrateSettingsCommand) Execute(ctx context.Context, msg MigrateSettingsMessage) error {
	if c == nil || c.migrator == nil {
		return commandDependencyError("command: settings migrator is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if msg.Administrative {
		ctx = core.WithAdminRequest(ctx)
	}
	report, err := c.migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, report)
	return nil
}

type StartPluginCommand struct {
	starter PluginStarter
}

func NewStartPluginCommand(starter PluginStarter) *StartPluginCommand {
	return &StartPluginCommand{starter: starter}
}

// Execute stores the startup report even when Start fails so callers can
// inspect how far startup got.
func (c *StartPluginCommand) Execute(ctx context.Context, msg StartPluginMessage) error {
	if c == nil || c.starter == nil {
		return commandDependencyError("command: plugin starter is required")
	}
	if msg.Administrative {
		ctx = core.WithAdminRequest(ctx)
	}
	report, err := c.starter.Start(ctx)
	storeResult(ctx, report)
	return err
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
