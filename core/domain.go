package core

import "time"

// Flag mirrors the "yes"/"no" checkbox values the host persists.
type Flag string

const (
	FlagYes Flag = "yes"
	FlagNo  Flag = "no"
)

func (f Flag) Enabled() bool {
	return f == FlagYes
}

type Environment string

const (
	EnvironmentTest       Environment = "test"
	EnvironmentProduction Environment = "production"
)

// DebitMethods is the legacy combined debit selector.
type DebitMethods string

const (
	DebitMethodsNone       DebitMethods = "none"
	DebitMethodsMastercard DebitMethods = "mastercard"
	DebitMethodsAll        DebitMethods = "all"
)

const (
	BrandVisaElectron = "visaelectron"
	BrandMaestro      = "maestro"
)

type Variant string

const (
	VariantCredit Variant = "credit"
	VariantDebit  Variant = "debit"
)

// MethodID identifies a payment method in the host's gateway list.
type MethodID string

const (
	MethodIDCredit MethodID = "cielo_credit"
	MethodIDDebit  MethodID = "cielo_debit"
)

// LegacySettings is the single pre-4.0 record bundling credit and debit.
type LegacySettings struct {
	Enabled             Flag         `json:"enabled"`
	Title               string       `json:"title,omitempty"`
	Description         string       `json:"description"`
	StoreContract       string       `json:"store_contract,omitempty"`
	Environment         Environment  `json:"environment"`
	Number              string       `json:"number"`
	Key                 string       `json:"key"`
	Methods             []string     `json:"methods"`
	Authorization       string       `json:"authorization"`
	SmallestInstallment string       `json:"smallest_installment"`
	InterestRate        string       `json:"interest_rate"`
	Installments        string       `json:"installments"`
	Interest            Flag         `json:"interest"`
	InstallmentType     string       `json:"installment_type"`
	DesignOptions       Flag         `json:"design_options"`
	Design              string       `json:"design"`
	Debug               Flag         `json:"debug"`
	DebitMethods        DebitMethods `json:"debit_methods,omitempty"`
	DebitDiscount       string       `json:"debit_discount,omitempty"`
}

type CreditSettings struct {
	Enabled             Flag        `json:"enabled"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	StoreContract       string      `json:"store_contract"`
	Environment         Environment `json:"environment"`
	Number              string      `json:"number"`
	Key                 string      `json:"key"`
	Methods             []string    `json:"methods"`
	Authorization       string      `json:"authorization"`
	SmallestInstallment string      `json:"smallest_installment"`
	InterestRate        string      `json:"interest_rate"`
	Installments        string      `json:"installments"`
	Interest            Flag        `json:"interest"`
	InstallmentType     string      `json:"installment_type"`
	DesignOptions       Flag        `json:"design_options"`
	Design              string      `json:"design"`
	Debug               Flag        `json:"debug"`
}

type DebitSettings struct {
	Enabled       Flag        `json:"enabled"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	StoreContract string      `json:"store_contract"`
	Environment   Environment `json:"environment"`
	Number        string      `json:"number"`
	Key           string      `json:"key"`
	Methods       []string    `json:"methods"`
	Authorization string      `json:"authorization"`
	DebitDiscount string      `json:"debit_discount,omitempty"`
	DesignOptions Flag        `json:"design_options"`
	Design        string      `json:"design"`
	Debug         Flag        `json:"debug"`
}

type MigrationOutcome string

const (
	OutcomeNoOpUpToDate        MigrationOutcome = "noop_up_to_date"
	OutcomeMigrated            MigrationOutcome = "migrated"
	OutcomeVersionBumpedNoData MigrationOutcome = "version_bumped_no_data"
	OutcomeSkippedNotAdmin     MigrationOutcome = "skipped_not_admin"
)

type MigrationReport struct {
	Outcome       MigrationOutcome
	FromVersion   string
	ToVersion     string
	CreditWritten bool
	DebitWritten  bool
	LegacyDeleted bool
	StartedAt     time.Time
	Duration      time.Duration
}

// Notice is an administrative message surfaced through the host.
type Notice struct {
	Level   NoticeLevel
	Message string
}

type NoticeLevel string

const (
	NoticeLevelError   NoticeLevel = "error"
	NoticeLevelWarning NoticeLevel = "warning"
	NoticeLevelInfo    NoticeLevel = "info"
)

// StartupReport summarizes a Plugin.Start run.
type StartupReport struct {
	CapabilityMissing  bool
	Migration          MigrationReport
	MigrationErr       error
	GatewaysWired      bool
	AdminInitialized   bool
	TranslationsLoaded bool
}
