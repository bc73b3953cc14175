package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-cielo/core"
)

type SettingsReader interface {
	CreditSettings(ctx context.Context) (core.CreditSettings, bool, error)
	DebitSettings(ctx context.Context) (core.DebitSettings, bool, error)
	SchemaVersion(ctx context.Context) (string, error)
}

type GatewayLister interface {
	Gateways() []core.Gateway
}

type CreditSettingsResult struct {
	Settings core.CreditSettings
	Found    bool
}

type DebitSettingsResult struct {
	Settings core.DebitSettings
	Found    bool
}

// SchemaVersionResult carries the stored marker and the version the running
// code migrates to.
type SchemaVersionResult struct {
	Stored   string
	Current  string
	UpToDate bool
}

type LoadCreditSettingsQuery struct {
	reader SettingsReader
}

func NewLoadCreditSettingsQuery(reader SettingsReader) *LoadCreditSettingsQuery {
	return &LoadCreditSettingsQuery{reader: reader}
}

func (q *LoadCreditSettingsQuery) Query(ctx context.Context, _ LoadCreditSettingsMessage) (CreditSettingsResult, error) {
	if q == nil || q.reader == nil {
		return CreditSettingsResult{}, queryDependencyError("query: settings reader is required")
	}
	settings, found, err := q.reader.CreditSettings(ctx)
	if err != nil {
		return CreditSettingsResult{}, err
	}
	return CreditSettingsResult{Settings: settings, Found: found}, nil
}

type LoadDebitSettingsQuery struct {
	reader SettingsReader
}

func NewLoadDebitSettingsQuery(reader SettingsReader) *LoadDebitSettingsQuery {
	return &LoadDebitSettingsQuery{reader: reader}
}

func (q *LoadDebitSettingsQuery) Query(ctx context.Context, _ LoadDebitSettingsMessage) (DebitSettingsResult, error) {
	if q == nil || q.reader == nil {
		return DebitSettingsResult{}, queryDependencyError("query: settings reader is required")
	}
	settings, found, err := q.reader.DebitSettings(ctx)
	if err != nil {
		return DebitSettingsResult{}, err
	}
	return DebitSettingsResult{Settings: settings, Found: found}, nil
}

type LoadSchemaVersionQuery struct {
	reader  SettingsReader
	current string
}

func NewLoadSchemaVersionQuery(reader SettingsReader, current string) *LoadSchemaVersionQuery {
	current = strings.TrimSpace(current)
	if current == "" {
		current = core.CurrentVersion
	}
	return &LoadSchemaVersionQuery{reader: reader, current: current}
}

func (q *LoadSchemaVersionQuery) Query(ctx context.Context, _ LoadSchemaVersionMessage) (SchemaVersionResult, error) {
	if q == nil || q.reader == nil {
		return SchemaVersionResult{}, queryDependencyError("query: settings reader is required")
	}
	stored, err := q.reader.SchemaVersion(ctx)
	if err != nil {
		return SchemaVersionResult{}, err
	}
	return SchemaVersionResult{
		Stored:   stored,
		Current:  q.current,
		UpToDate: !core.VersionBefore(stored, q.current),
	}, nil
}

type ListGatewaysQuery struct {
	lister GatewayLister
}

func NewListGatewaysQuery(lister GatewayLister) *ListGatewaysQuery {
	return &ListGatewaysQuery{lister: lister}
}

func (q *ListGatewaysQuery) Query(_ context.Context, msg ListGatewaysMessage) ([]core.Gateway, error) {
	if q == nil || q.lister == nil {
		return nil, queryDependencyError("query: gateway lister is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	variant := core.Variant(strings.TrimSpace(msg.Variant))
	gateways := q.lister.Gateways()
	out := make([]core.Gateway, 0, len(gateways))
	for _, gateway := range gateways {
		if variant != "" && gateway.Variant != variant {
			continue
		}
		out = append(out, gateway)
	}
	return out, nil
}
