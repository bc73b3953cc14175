package query

import (
	"strings"

	"github.com/goliatone/go-cielo/core"
)

const (
	TypeLoadCreditSettings = "cielo.query.settings.credit.load"
	TypeLoadDebitSettings  = "cielo.query.settings.debit.load"
	TypeLoadSchemaVersion  = "cielo.query.schema_version.load"
	TypeListGateways       = "cielo.query.gateways.list"
)

type LoadCreditSettingsMessage struct{}

func (LoadCreditSettingsMessage) Type() string { return TypeLoadCreditSettings }

func (LoadCreditSettingsMessage) Validate() error { return nil }

type LoadDebitSettingsMessage struct{}

func (LoadDebitSettingsMessage) Type() string { return TypeLoadDebitSettings }

func (LoadDebitSettingsMessage) Validate() error { return nil }

type LoadSchemaVersionMessage struct{}

func (LoadSchemaVersionMessage) Type() string { return TypeLoadSchemaVersion }

func (LoadSchemaVersionMessage) Validate() error { return nil }

// ListGatewaysMessage lists the registered variants. Variant narrows the
// result to one variant when set.
type ListGatewaysMessage struct {
	Variant string
}

func (ListGatewaysMessage) Type() string { return TypeListGateways }

func (m ListGatewaysMessage) Validate() error {
	variant := strings.TrimSpace(m.Variant)
	if variant == "" {
		return nil
	}
	switch variant {
	case string(core.VariantCredit), string(core.VariantDebit):
		return nil
	default:
		return queryValidationError("variant", "variant must be credit or debit")
	}
}
