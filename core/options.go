package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type ErrorFactory func(message string, category ...goerrors.Category) *goerrors.Error

type ErrorMapper func(err error) *goerrors.Error

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type pluginBuilder struct {
	runtimeConfig      Config
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
	notifier           Notifier
	translator         Translator
	adminResolver      AdminResolver
	gatewayRegistry    *GatewayRegistry
	host               Host
	adminInitializers  []AdminInitializer
}

type Option func(*pluginBuilder)

func WithLogger(logger Logger) Option {
	return func(b *pluginBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *pluginBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *pluginBuilder) {
		b.metricsRecorder = recorder
	}
}

// WithErrorFactory sets how the default error mapper creates the envelopes
// it owns. A mapper set through WithErrorMapper ignores it.
func WithErrorFactory(factory ErrorFactory) Option {
	return func(b *pluginBuilder) {
		b.errorFactory = factory
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *pluginBuilder) {
		b.errorMapper = mapper
	}
}

// WithPersistenceClient sets the client handed to a SettingsStoreFactory
// configured through WithRepositoryFactory.
func WithPersistenceClient(client any) Option {
	return func(b *pluginBuilder) {
		b.persistenceClient = client
	}
}

func WithRepositoryFactory(factory any) Option {
	return func(b *pluginBuilder) {
		b.repositoryFactory = factory
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *pluginBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *pluginBuilder) {
		b.optionsResolver = resolver
	}
}

func WithSettingsStore(store SettingsStore) Option {
	return func(b *pluginBuilder) {
		b.settingsStore = store
	}
}

func WithCapabilityProvider(provider CapabilityProvider) Option {
	return func(b *pluginBuilder) {
		b.capabilityProvider = provider
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(b *pluginBuilder) {
		b.notifier = notifier
	}
}

func WithTranslator(translator Translator) Option {
	return func(b *pluginBuilder) {
		b.translator = translator
	}
}

func WithAdminResolver(resolver AdminResolver) Option {
	return func(b *pluginBuilder) {
		b.adminResolver = resolver
	}
}

func WithGatewayRegistry(registry *GatewayRegistry) Option {
	return func(b *pluginBuilder) {
		b.gatewayRegistry = registry
	}
}

func WithHost(host Host) Option {
	return func(b *pluginBuilder) {
		b.host = host
	}
}

// WithAdminInitializer appends a hook run at the end of startup for
// administrative requests only.
func WithAdminInitializer(initializer AdminInitializer) Option {
	return func(b *pluginBuilder) {
		if initializer != nil {
			b.adminInitializers = append(b.adminInitializers, initializer)
		}
	}
}

func defaultPluginBuilder(runtime Config) pluginBuilder {
	loggerProvider, logger := glog.Resolve("cielo", nil, nil)
	return pluginBuilder{
		runtimeConfig:   runtime,
		loggerProvider:  loggerProvider,
		logger:          logger,
		metricsRecorder: NopMetricsRecorder{},
		errorFactory:    goerrors.New,
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
		notifier:        NopNotifier{},
		translator:      NopTranslator{},
		adminResolver:   ContextAdminResolver{},
	}
}

// NewErrorMapper returns the plugin error mapper with envelopes created by
// factory.
func NewErrorMapper(factory ErrorFactory) ErrorMapper {
	if factory == nil {
		factory = goerrors.New
	}
	return func(err error) *goerrors.Error {
		return mapPluginError(factory, err)
	}
}

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	return pluginErrorMapper(err)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// StaticConfigLoader serves a fixed raw configuration map, typically decoded
// from the host's own settings file.
func StaticConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GoOptionsResolver layers defaults, loaded configuration and runtime
// overrides, later layers winning for every non-empty field.
type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	setString := func(target map[string]any, key string, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			target[key] = value
		}
	}
	setString(layer, "plugin_id", cfg.PluginID)
	setString(layer, "version", cfg.Version)
	setString(layer, "text_domain", cfg.TextDomain)
	setString(layer, "locale", cfg.Locale)
	setString(layer, "plugin_dir", cfg.PluginDir)
	setString(layer, "required_capability", cfg.RequiredCapability)
	setString(layer, "store_contract", cfg.StoreContract)
	setString(layer, "missing_dependency_notice", cfg.MissingDependencyNotice)

	keys := map[string]any{}
	setString(keys, "legacy_settings", cfg.Keys.LegacySettings)
	setString(keys, "credit_settings", cfg.Keys.CreditSettings)
	setString(keys, "debit_settings", cfg.Keys.DebitSettings)
	setString(keys, "schema_version", cfg.Keys.SchemaVersion)
	if len(keys) > 0 {
		layer["keys"] = keys
	}

	labels := map[string]any{}
	setString(labels, "credit_title", cfg.Labels.CreditTitle)
	setString(labels, "debit_title", cfg.Labels.DebitTitle)
	if len(labels) > 0 {
		layer["labels"] = labels
	}
	return layer
}
