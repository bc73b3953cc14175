package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Plugin wires the capability gate, the settings migration and the gateway
// registration into the host startup sequence.
type Plugin struct {
	config             Config
	logger             Logger
	loggerProvider     LoggerProvider
	metricsRecorder    MetricsRecorder
	errorFactory       ErrorFactory
	errorMapper        ErrorMapper
	persistenceClient  any
	repositoryFactory  any
	configProvider     ConfigProvider
	optionsResolver    OptionsResolver
	settingsStore      SettingsStore
	capabilityProvider CapabilityProvider
	capabilityGate     *CapabilityGate
	notifier           Notifier
	translator         Translator
	adminResolver      AdminResolver
	gatewayRegistry    *GatewayRegistry
	host               Host
	adminInitializers  []AdminInitializer
}

type PluginDependencies struct {
	Logger             Logger
	LoggerProvider     LoggerProvider
	MetricsRecorder    MetricsRecorder
	ErrorFactory       ErrorFactory
	ErrorMapper        ErrorMapper
	PersistenceClient  any
	RepositoryFactory  any
	ConfigProvider     ConfigProvider
	OptionsResolver    OptionsResolver
	SettingsStore      SettingsStore
	CapabilityProvider CapabilityProvider
	Notifier           Notifier
	Translator         Translator
	AdminResolver      AdminResolver
	GatewayRegistry    *GatewayRegistry
	Host               Host
}

func NewPlugin(cfg Config, opts ...Option) (*Plugin, error) {
	builder := defaultPluginBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("cielo", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("cielo"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = NewErrorMapper(builder.errorFactory)
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.notifier == nil {
		builder.notifier = NopNotifier{}
	}
	if builder.translator == nil {
		builder.translator = NopTranslator{}
	}
	if builder.adminResolver == nil {
		builder.adminResolver = ContextAdminResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.settingsStore == nil && builder.repositoryFactory != nil {
		if factory, ok := builder.repositoryFactory.(SettingsStoreFactory); ok {
			store, buildErr := factory.BuildSettingsStore(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			builder.settingsStore = store
		} else if provider, ok := builder.repositoryFactory.(interface{ SettingsStore() SettingsStore }); ok {
			builder.settingsStore = provider.SettingsStore()
		}
	}
	if builder.settingsStore == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: settings store is required"))
	}
	if builder.capabilityProvider == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: capability provider is required"))
	}
	if builder.gatewayRegistry == nil {
		registry, regErr := NewGatewayRegistry(DefaultGateways(finalConfig)...)
		if regErr != nil {
			return nil, mapBuildError(builder.errorMapper, regErr)
		}
		builder.gatewayRegistry = registry
	}

	return &Plugin{
		config:             finalConfig,
		logger:             logger,
		loggerProvider:     provider,
		metricsRecorder:    builder.metricsRecorder,
		errorFactory:       builder.errorFactory,
		errorMapper:        builder.errorMapper,
		persistenceClient:  builder.persistenceClient,
		repositoryFactory:  builder.repositoryFactory,
		configProvider:     builder.configProvider,
		optionsResolver:    builder.optionsResolver,
		settingsStore:      builder.settingsStore,
		capabilityProvider: builder.capabilityProvider,
		capabilityGate:     NewCapabilityGate(builder.capabilityProvider, builder.notifier, finalConfig.MissingDependencyNotice),
		notifier:           builder.notifier,
		translator:         builder.translator,
		adminResolver:      builder.adminResolver,
		gatewayRegistry:    builder.gatewayRegistry,
		host:               builder.host,
		adminInitializers:  append([]AdminInitializer(nil), builder.adminInitializers...),
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Plugin, error) {
	return NewPlugin(cfg, opts...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (p *Plugin) Config() Config {
	if p == nil {
		return Config{}
	}
	return p.config
}

func (p *Plugin) Dependencies() PluginDependencies {
	if p == nil {
		return PluginDependencies{}
	}
	return PluginDependencies{
		Logger:             p.logger,
		LoggerProvider:     p.loggerProvider,
		MetricsRecorder:    p.metricsRecorder,
		ErrorFactory:       p.errorFactory,
		ErrorMapper:        p.errorMapper,
		PersistenceClient:  p.persistenceClient,
		RepositoryFactory:  p.repositoryFactory,
		ConfigProvider:     p.configProvider,
		OptionsResolver:    p.optionsResolver,
		SettingsStore:      p.settingsStore,
		CapabilityProvider: p.capabilityProvider,
		Notifier:           p.notifier,
		Translator:         p.translator,
		AdminResolver:      p.adminResolver,
		GatewayRegistry:    p.gatewayRegistry,
		Host:               p.host,
	}
}

// Start runs the startup sequence. A missing capability or a failed
// migration is reported, not returned; the next administrative request
// retries the migration.
func (p *Plugin) Start(ctx context.Context) (report StartupReport, err error) {
	if p == nil {
		return StartupReport{}, fmt.Errorf("core: plugin is nil")
	}
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		fields["capability_missing"] = report.CapabilityMissing
		fields["gateways_wired"] = report.GatewaysWired
		fields["admin_initialized"] = report.AdminInitialized
		if report.Migration.Outcome != "" {
			fields["outcome"] = string(report.Migration.Outcome)
		}
		p.observeOperation(ctx, startedAt, "plugin_start", err, fields)
	}()

	report.TranslationsLoaded = p.loadTranslations(ctx)

	if !p.CheckCapability(ctx) {
		report.CapabilityMissing = true
		return report, nil
	}

	report.Migration, report.MigrationErr = p.Migrate(ctx)

	if p.host != nil {
		p.host.AddGatewayFilter(p.RegisterGateways)
		report.GatewaysWired = true
	}

	if p.adminResolver.IsAdmin(ctx) && len(p.adminInitializers) > 0 {
		for _, initializer := range p.adminInitializers {
			if err = initializer(ctx); err != nil {
				err = p.mapError(err)
				return report, err
			}
		}
		report.AdminInitialized = true
	}
	return report, nil
}

func (p *Plugin) loadTranslations(ctx context.Context) bool {
	if p.translator == nil {
		return false
	}
	if err := p.translator.Load(ctx, p.config.TextDomain, p.config.Locale); err != nil {
		p.logWarn(ctx, "translations load failed", map[string]any{
			"text_domain": p.config.TextDomain,
			"locale":      p.config.Locale,
			"error":       err.Error(),
		})
		return false
	}
	return true
}

// CheckCapability evaluates the capability gate. The missing dependency
// notice is sent at most once per plugin.
func (p *Plugin) CheckCapability(ctx context.Context) (available bool) {
	if p == nil {
		return false
	}
	startedAt := time.Now().UTC()
	var err error
	defer func() {
		p.observeOperation(ctx, startedAt, "capability_check", err, map[string]any{
			"capability": p.config.RequiredCapability,
			"available":  available,
		})
	}()
	available, err = p.capabilityGate.Evaluate(ctx)
	if err != nil {
		err = fmt.Errorf("core: missing dependency notice failed: %w", err)
	}
	return available
}

// Migrate runs the settings migration for the current request.
func (p *Plugin) Migrate(ctx context.Context) (report MigrationReport, err error) {
	if p == nil {
		return MigrationReport{}, fmt.Errorf("core: plugin is nil")
	}
	startedAt := time.Now().UTC()
	defer func() {
		fields := map[string]any{
			"from_version":   report.FromVersion,
			"to_version":     report.ToVersion,
			"credit_written": report.CreditWritten,
			"debit_written":  report.DebitWritten,
			"legacy_deleted": report.LegacyDeleted,
		}
		if report.Outcome != "" {
			fields["outcome"] = string(report.Outcome)
		}
		p.observeOperation(ctx, startedAt, "migrate_settings", err, fields)
	}()

	migrator, err := p.Migrator(ctx)
	if err != nil {
		return MigrationReport{}, err
	}
	return migrator.Migrate(ctx)
}

// MigrateIfNeeded runs the migration and returns only its outcome.
func (p *Plugin) MigrateIfNeeded(ctx context.Context) (MigrationOutcome, error) {
	report, err := p.Migrate(ctx)
	if err != nil {
		return "", err
	}
	return report.Outcome, nil
}

// Migrator builds a migrator using translated variant titles.
func (p *Plugin) Migrator(ctx context.Context) (*Migrator, error) {
	if p == nil {
		return nil, fmt.Errorf("core: plugin is nil")
	}
	return NewMigrator(p.settingsStore, p.config,
		WithMigratorAdminResolver(p.adminResolver),
		WithTransformOptions(TransformOptions{
			StoreContract: p.config.StoreContract,
			CreditTitle:   p.translate(ctx, p.config.Labels.CreditTitle),
			DebitTitle:    p.translate(ctx, p.config.Labels.DebitTitle),
		}),
	)
}

// RegisterGateways is the host gateway filter.
func (p *Plugin) RegisterGateways(existing []MethodID) []MethodID {
	if p == nil || p.gatewayRegistry == nil {
		return RegisterGateways(existing)
	}
	startedAt := time.Now().UTC()
	registered := p.gatewayRegistry.RegisterGateways(existing)
	p.observeOperation(context.Background(), startedAt, "register_gateways", nil, map[string]any{
		"existing":   len(existing),
		"registered": len(registered) - len(existing),
	})
	return registered
}

func (p *Plugin) Gateways() []Gateway {
	if p == nil || p.gatewayRegistry == nil {
		return nil
	}
	return p.gatewayRegistry.List()
}

func (p *Plugin) CreditSettings(ctx context.Context) (CreditSettings, bool, error) {
	payload, found, err := p.readSetting(ctx, p.config.Keys.CreditSettings)
	if err != nil || !found {
		return CreditSettings{}, found, err
	}
	settings, err := DecodeCreditSettings(payload)
	if err != nil {
		return CreditSettings{}, true, err
	}
	return settings, true, nil
}

func (p *Plugin) DebitSettings(ctx context.Context) (DebitSettings, bool, error) {
	payload, found, err := p.readSetting(ctx, p.config.Keys.DebitSettings)
	if err != nil || !found {
		return DebitSettings{}, found, err
	}
	settings, err := DecodeDebitSettings(payload)
	if err != nil {
		return DebitSettings{}, true, err
	}
	return settings, true, nil
}

// SchemaVersion returns the persisted version marker, "0" when absent.
func (p *Plugin) SchemaVersion(ctx context.Context) (string, error) {
	migrator, err := p.Migrator(ctx)
	if err != nil {
		return "", err
	}
	return migrator.StoredVersion(ctx)
}

// TemplatesPath returns the directory holding the plugin templates, with a
// trailing separator.
func (p *Plugin) TemplatesPath() string {
	if p == nil {
		return ""
	}
	dir := strings.TrimSpace(p.config.PluginDir)
	if dir == "" {
		return "templates/"
	}
	return filepath.ToSlash(filepath.Join(dir, "templates")) + "/"
}

// MapError converts err into the plugin error envelope.
func (p *Plugin) MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if p == nil || p.errorMapper == nil {
		return defaultErrorMapper(err)
	}
	return p.errorMapper(err)
}

func (p *Plugin) readSetting(ctx context.Context, key string) ([]byte, bool, error) {
	if p == nil || p.settingsStore == nil {
		return nil, false, fmt.Errorf("core: plugin is not configured")
	}
	payload, found, err := p.settingsStore.Get(ctx, key)
	if err != nil {
		return nil, false, &StoreReadError{Key: key, Cause: err}
	}
	return payload, found, nil
}

func (p *Plugin) translate(ctx context.Context, text string) string {
	if p.translator == nil {
		return text
	}
	translated := p.translator.Translate(ctx, p.config.TextDomain, text)
	if strings.TrimSpace(translated) == "" {
		return text
	}
	return translated
}

func (p *Plugin) mapError(err error) error {
	if err == nil {
		return nil
	}
	if p == nil || p.errorMapper == nil {
		return err
	}
	mapped := p.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
