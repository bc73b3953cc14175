package cielo

import (
	"context"
	"fmt"

	cielocommand "github.com/goliatone/go-cielo/command"
	"github.com/goliatone/go-cielo/core"
	cieloquery "github.com/goliatone/go-cielo/query"
	gocmd "github.com/goliatone/go-command"
)

// CommandQueryService is the plugin surface the facade dispatches to.
type CommandQueryService interface {
	cielocommand.SettingsMigrator
	cielocommand.PluginStarter
	cieloquery.SettingsReader
	cieloquery.GatewayLister
}

type Commands struct {
	MigrateSettings *cielocommand.MigrateSettingsCommand
	StartPlugin     *cielocommand.StartPluginCommand
}

type Queries struct {
	LoadCreditSettings *cieloquery.LoadCreditSettingsQuery
	LoadDebitSettings  *cieloquery.LoadDebitSettingsQuery
	LoadSchemaVersion  *cieloquery.LoadSchemaVersionQuery
	ListGateways       *cieloquery.ListGatewaysQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	currentVersion string
}

// WithCurrentVersion sets the version the schema version query compares
// against. Plugins default to their configured version.
func WithCurrentVersion(version string) FacadeOption {
	return func(options *facadeOptions) {
		options.currentVersion = version
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("cielo: command/query service is required")
	}
	cfg := facadeOptions{}
	if provider, ok := service.(interface{ Config() core.Config }); ok {
		cfg.currentVersion = provider.Config().Version
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		MigrateSettings: cielocommand.NewMigrateSettingsCommand(service),
		StartPlugin:     cielocommand.NewStartPluginCommand(service),
	}
	facade.queries = Queries{
		LoadCreditSettings: cieloquery.NewLoadCreditSettingsQuery(service),
		LoadDebitSettings:  cieloquery.NewLoadDebitSettingsQuery(service),
		LoadSchemaVersion:  cieloquery.NewLoadSchemaVersionQuery(service, cfg.currentVersion),
		ListGateways:       cieloquery.NewListGatewaysQuery(service),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

// MigrateSettings runs one administrative migration attempt.
func (f *Facade) MigrateSettings(ctx context.Context, requestedBy string) (core.MigrationReport, error) {
	if f == nil || f.commands.MigrateSettings == nil {
		return core.MigrationReport{}, fmt.Errorf("cielo: facade is not configured")
	}
	msg := cielocommand.MigrateSettingsMessage{RequestedBy: requestedBy, Administrative: true}
	if err := msg.Validate(); err != nil {
		return core.MigrationReport{}, err
	}
	collector := gocmd.NewResult[core.MigrationReport]()
	ctx = gocmd.ContextWithResult(ctx, collector)
	if err := f.commands.MigrateSettings.Execute(ctx, msg); err != nil {
		return core.MigrationReport{}, err
	}
	report, _ := collector.Load()
	return report, nil
}
