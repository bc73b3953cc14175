package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Migrator moves the legacy bundled settings record to the per variant
// records and advances the schema version marker. Successor records are
// written before the legacy record is deleted and the version marker is
// written last, so any failure leaves a state the next run converges from.
type Migrator struct {
	store     SettingsStore
	admin     AdminResolver
	keys      KeysConfig
	version   string
	transform TransformOptions
	now       func() time.Time
}

type MigratorOption func(*Migrator)

func WithMigratorAdminResolver(resolver AdminResolver) MigratorOption {
	return func(m *Migrator) {
		if resolver != nil {
			m.admin = resolver
		}
	}
}

func WithTransformOptions(opts TransformOptions) MigratorOption {
	return func(m *Migrator) {
		m.transform = opts
	}
}

func WithMigratorClock(now func() time.Time) MigratorOption {
	return func(m *Migrator) {
		if now != nil {
			m.now = now
		}
	}
}

func NewMigrator(store SettingsStore, cfg Config, opts ...MigratorOption) (*Migrator, error) {
	if store == nil {
		return nil, fmt.Errorf("core: settings store is required")
	}
	if err := cfg.Keys.Validate(); err != nil {
		return nil, err
	}
	version := strings.TrimSpace(cfg.Version)
	if !IsValidVersion(version) {
		return nil, fmt.Errorf("core: migrator version %q is invalid", cfg.Version)
	}
	m := &Migrator{
		store:   store,
		admin:   ContextAdminResolver{},
		keys:    cfg.Keys,
		version: version,
		transform: TransformOptions{
			StoreContract: cfg.StoreContract,
			CreditTitle:   cfg.Labels.CreditTitle,
			DebitTitle:    cfg.Labels.DebitTitle,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	defaults := DefaultTransformOptions()
	if strings.TrimSpace(m.transform.StoreContract) == "" {
		m.transform.StoreContract = defaults.StoreContract
	}
	if strings.TrimSpace(m.transform.CreditTitle) == "" {
		m.transform.CreditTitle = defaults.CreditTitle
	}
	if strings.TrimSpace(m.transform.DebitTitle) == "" {
		m.transform.DebitTitle = defaults.DebitTitle
	}
	return m, nil
}

func (m *Migrator) CurrentVersion() string {
	if m == nil {
		return ""
	}
	return m.version
}

func (m *Migrator) MigrateIfNeeded(ctx context.Context) (MigrationOutcome, error) {
	report, err := m.Migrate(ctx)
	if err != nil {
		return "", err
	}
	return report.Outcome, nil
}

// Migrate runs the migration and reports what it touched. On error the
// report reflects the writes that completed before the failure.
func (m *Migrator) Migrate(ctx context.Context) (report MigrationReport, err error) {
	if m == nil || m.store == nil {
		return MigrationReport{}, fmt.Errorf("core: migrator is not configured")
	}
	startedAt := m.now().UTC()
	report = MigrationReport{ToVersion: m.version, StartedAt: startedAt}
	defer func() {
		report.Duration = m.now().UTC().Sub(startedAt)
	}()

	if !m.admin.IsAdmin(ctx) {
		report.Outcome = OutcomeSkippedNotAdmin
		return report, nil
	}

	stored, err := m.StoredVersion(ctx)
	if err != nil {
		return report, err
	}
	report.FromVersion = stored
	if !VersionBefore(stored, m.version) {
		report.Outcome = OutcomeNoOpUpToDate
		return report, nil
	}

	payload, found, err := m.store.Get(ctx, m.keys.LegacySettings)
	if err != nil {
		return report, &StoreReadError{Key: m.keys.LegacySettings, Cause: err}
	}
	migrated := found && !emptyPayload(payload)
	if migrated {
		if err := m.splitLegacy(ctx, payload, &report); err != nil {
			return report, err
		}
	}

	if err := m.set(ctx, m.keys.SchemaVersion, EncodeVersion(m.version)); err != nil {
		return report, err
	}
	if migrated {
		report.Outcome = OutcomeMigrated
	} else {
		report.Outcome = OutcomeVersionBumpedNoData
	}
	return report, nil
}

// StoredVersion returns the persisted schema version, DefaultStoredVersion
// when none was written yet.
func (m *Migrator) StoredVersion(ctx context.Context) (string, error) {
	if m == nil || m.store == nil {
		return "", fmt.Errorf("core: migrator is not configured")
	}
	payload, found, err := m.store.Get(ctx, m.keys.SchemaVersion)
	if err != nil {
		return "", &StoreReadError{Key: m.keys.SchemaVersion, Cause: err}
	}
	if !found {
		return DefaultStoredVersion, nil
	}
	version := DecodeVersion(payload)
	if version == "" {
		return DefaultStoredVersion, nil
	}
	return version, nil
}

func (m *Migrator) splitLegacy(ctx context.Context, payload []byte, report *MigrationReport) error {
	legacy, err := DecodeLegacySettings(m.keys.LegacySettings, payload)
	if err != nil {
		return err
	}
	credit, debit := TransformLegacySettings(legacy, m.transform)

	creditPayload, err := EncodeSettings(credit)
	if err != nil {
		return err
	}
	debitPayload, err := EncodeSettings(debit)
	if err != nil {
		return err
	}

	if err := m.set(ctx, m.keys.CreditSettings, creditPayload); err != nil {
		return err
	}
	report.CreditWritten = true
	if err := m.set(ctx, m.keys.DebitSettings, debitPayload); err != nil {
		return err
	}
	report.DebitWritten = true

	if err := m.store.Delete(ctx, m.keys.LegacySettings); err != nil {
		return &StoreWriteError{Key: m.keys.LegacySettings, Op: StoreOpDelete, Cause: err}
	}
	report.LegacyDeleted = true
	return nil
}

func (m *Migrator) set(ctx context.Context, key string, payload []byte) error {
	if err := m.store.Set(ctx, key, payload); err != nil {
		return &StoreWriteError{Key: key, Op: StoreOpSet, Cause: err}
	}
	return nil
}

// emptyPayload reports values the host treats as "no option stored".
func emptyPayload(payload []byte) bool {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return true
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return false
	}
	switch typed := decoded.(type) {
	case nil:
		return true
	case map[string]any:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	case string:
		return typed == ""
	case bool:
		return !typed
	default:
		return false
	}
}
