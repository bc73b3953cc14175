package query

import (
	"github.com/goliatone/go-cielo/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[LoadCreditSettingsMessage, CreditSettingsResult] = (*LoadCreditSettingsQuery)(nil)
	_ gocmd.Querier[LoadDebitSettingsMessage, DebitSettingsResult]   = (*LoadDebitSettingsQuery)(nil)
	_ gocmd.Querier[LoadSchemaVersionMessage, SchemaVersionResult]   = (*LoadSchemaVersionQuery)(nil)
	_ gocmd.Querier[ListGatewaysMessage, []core.Gateway]             = (*ListGatewaysQuery)(nil)
	_ SettingsReader                                                 = (*core.Plugin)(nil)
	_ GatewayLister                                                  = (*core.Plugin)(nil)
)
