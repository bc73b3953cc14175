package core

import (
	"fmt"
	"strings"
)

const (
	// CurrentVersion is the settings schema version written after a migration.
	CurrentVersion = "4.0.0"

	// StoreContractBuyPageCielo is the store contract every migrated variant uses.
	StoreContractBuyPageCielo = "buypage_cielo"

	DefaultRequiredCapability      = "WC_Payment_Gateway"
	DefaultMissingDependencyNotice = "Cielo WooCommerce depends on the last version of WooCommerce to work!"
)

type KeysConfig struct {
	LegacySettings string `koanf:"legacy_settings" mapstructure:"legacy_settings"`
	CreditSettings string `koanf:"credit_settings" mapstructure:"credit_settings"`
	DebitSettings  string `koanf:"debit_settings" mapstructure:"debit_settings"`
	SchemaVersion  string `koanf:"schema_version" mapstructure:"schema_version"`
}

type LabelsConfig struct {
	CreditTitle string `koanf:"credit_title" mapstructure:"credit_title"`
	DebitTitle  string `koanf:"debit_title" mapstructure:"debit_title"`
}

type Config struct {
	PluginID                string       `koanf:"plugin_id" mapstructure:"plugin_id"`
	Version                 string       `koanf:"version" mapstructure:"version"`
	TextDomain              string       `koanf:"text_domain" mapstructure:"text_domain"`
	Locale                  string       `koanf:"locale" mapstructure:"locale"`
	PluginDir               string       `koanf:"plugin_dir" mapstructure:"plugin_dir"`
	RequiredCapability      string       `koanf:"required_capability" mapstructure:"required_capability"`
	StoreContract           string       `koanf:"store_contract" mapstructure:"store_contract"`
	MissingDependencyNotice string       `koanf:"missing_dependency_notice" mapstructure:"missing_dependency_notice"`
	Keys                    KeysConfig   `koanf:"keys" mapstructure:"keys"`
	Labels                  LabelsConfig `koanf:"labels" mapstructure:"labels"`
}

func DefaultKeys() KeysConfig {
	return KeysConfig{
		LegacySettings: "legacy_settings",
		CreditSettings: "credit_settings",
		DebitSettings:  "debit_settings",
		SchemaVersion:  "schema_version",
	}
}

// WooCommerceKeys returns the option names the host commerce platform uses
// for the same records.
func WooCommerceKeys() KeysConfig {
	return KeysConfig{
		LegacySettings: "woocommerce_cielo_settings",
		CreditSettings: "woocommerce_cielo_credit_settings",
		DebitSettings:  "woocommerce_cielo_debit_settings",
		SchemaVersion:  "wc_cielo_version",
	}
}

func DefaultConfig() Config {
	return Config{
		PluginID:                "cielo-woocommerce",
		Version:                 CurrentVersion,
		TextDomain:              "cielo-woocommerce",
		Locale:                  "en_US",
		RequiredCapability:      DefaultRequiredCapability,
		StoreContract:           StoreContractBuyPageCielo,
		MissingDependencyNotice: DefaultMissingDependencyNotice,
		Keys:                    DefaultKeys(),
		Labels: LabelsConfig{
			CreditTitle: "Credit Card",
			DebitTitle:  "Debit Card",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.PluginID) == "" {
		return fmt.Errorf("core: plugin_id is required")
	}
	if strings.TrimSpace(c.Version) == "" {
		return fmt.Errorf("core: version is required")
	}
	if !IsValidVersion(c.Version) {
		return fmt.Errorf("core: version %q is invalid", c.Version)
	}
	if strings.TrimSpace(c.StoreContract) == "" {
		return fmt.Errorf("core: store_contract is required")
	}
	return c.Keys.Validate()
}

func (k KeysConfig) Validate() error {
	named := map[string]string{
		"legacy_settings": k.LegacySettings,
		"credit_settings": k.CreditSettings,
		"debit_settings":  k.DebitSettings,
		"schema_version":  k.SchemaVersion,
	}
	seen := make(map[string]string, len(named))
	for _, field := range []string{"legacy_settings", "credit_settings", "debit_settings", "schema_version"} {
		value := strings.TrimSpace(named[field])
		if value == "" {
			return fmt.Errorf("core: keys.%s is required", field)
		}
		if other, exists := seen[value]; exists {
			return fmt.Errorf("core: keys.%s and keys.%s must differ", other, field)
		}
		seen[value] = field
	}
	return nil
}
