package cielo

import "github.com/goliatone/go-cielo/core"

type Config = core.Config

type KeysConfig = core.KeysConfig

type LabelsConfig = core.LabelsConfig

type Option = core.Option

type Plugin = core.Plugin

type PluginDependencies = core.PluginDependencies

type Controller = core.Controller

type SettingsStore = core.SettingsStore
type CapabilityProvider = core.CapabilityProvider
type Notifier = core.Notifier
type Translator = core.Translator
type AdminResolver = core.AdminResolver
type Host = core.Host

type MigrationReport = core.MigrationReport
type MigrationOutcome = core.MigrationOutcome
type StartupReport = core.StartupReport
type MethodID = core.MethodID
type Gateway = core.Gateway

var (
	WithLogger             = core.WithLogger
	WithLoggerProvider     = core.WithLoggerProvider
	WithMetricsRecorder    = core.WithMetricsRecorder
	WithErrorFactory       = core.WithErrorFactory
	WithErrorMapper        = core.WithErrorMapper
	NewErrorMapper         = core.NewErrorMapper
	WithPersistenceClient  = core.WithPersistenceClient
	WithRepositoryFactory  = core.WithRepositoryFactory
	WithConfigProvider     = core.WithConfigProvider
	WithOptionsResolver    = core.WithOptionsResolver
	WithSettingsStore      = core.WithSettingsStore
	WithCapabilityProvider = core.WithCapabilityProvider
	WithNotifier           = core.WithNotifier
	WithTranslator         = core.WithTranslator
	WithAdminResolver      = core.WithAdminResolver
	WithGatewayRegistry    = core.WithGatewayRegistry
	WithHost               = core.WithHost
	WithAdminInitializer   = core.WithAdminInitializer
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewPlugin(cfg Config, opts ...Option) (*Plugin, error) {
	return core.NewPlugin(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Plugin, error) {
	return core.Setup(cfg, opts...)
}

func NewController(cfg Config, opts ...Option) *Controller {
	return core.NewController(cfg, opts...)
}
