package gocommand

import (
	"context"
	"errors"
	"testing"

	cielo "github.com/goliatone/go-cielo"
	"github.com/goliatone/go-cielo/core"
	cieloquery "github.com/goliatone/go-cielo/query"
	"github.com/goliatone/go-command"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

type okMessage struct{}

func (okMessage) Type() string { return "cielo.test.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "cielo.test.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type dispatchMessage struct {
	ID string
}

func (dispatchMessage) Type() string { return "cielo.test.test" }

type queueMessage struct{}

func (queueMessage) Type() string { return "cielo.test.queue" }

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	executed := 0
	customResolverCalled := 0

	cmd := command.CommandFunc[dispatchMessage](func(context.Context, dispatchMessage) error {
		executed++
		return nil
	})

	if _, err := RegisterAndSubscribe(adapter, cmd); err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), dispatchMessage{ID: "m1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected command execution count=1, got %d", executed)
	}
}

func TestQueueResolverHookWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	queueRegistry := jobqueuecommand.NewRegistry()

	cmd := command.CommandFunc[queueMessage](func(context.Context, queueMessage) error { return nil })

	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if err := adapter.RegisterCommand(cmd); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	if _, ok := queueRegistry.Get("cielo.test.queue"); !ok {
		t.Fatalf("expected command to be mirrored into queue registry")
	}
}

const legacyPayload = `{
	"enabled": "yes",
	"description": "Pay with card",
	"environment": "test",
	"number": "1",
	"key": "k",
	"methods": ["visa"],
	"authorization": "2",
	"smallest_installment": "5",
	"interest_rate": "1",
	"installments": "3",
	"interest": "no",
	"installment_type": "client",
	"design_options": "no",
	"design": "default",
	"debug": "no",
	"debit_methods": "all"
}`

func TestRegisterFacade_DispatchesPluginMessages(t *testing.T) {
	ctx := context.Background()
	store := core.NewMemorySettingsStore()
	if err := store.Set(ctx, "legacy_settings", []byte(legacyPayload)); err != nil {
		t.Fatalf("seed legacy settings: %v", err)
	}
	plugin, err := cielo.NewPlugin(cielo.DefaultConfig(),
		cielo.WithSettingsStore(store),
		cielo.WithCapabilityProvider(core.StaticCapabilityProvider(true)),
	)
	if err != nil {
		t.Fatalf("new plugin: %v", err)
	}
	facade, err := cielo.NewFacade(plugin)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	adapter := NewRegistryAdapter(command.NewRegistry())
	subs, err := RegisterFacade(adapter, facade)
	if err != nil {
		t.Fatalf("register facade: %v", err)
	}
	t.Cleanup(subs.UnsubscribeAll)
	if len(subs) != 6 {
		t.Fatalf("expected 6 subscriptions, got %d", len(subs))
	}

	if _, err := MigrateSettings(ctx, "  "); err == nil {
		t.Fatalf("expected requester validation before dispatch")
	}
	report, err := MigrateSettings(ctx, "admin")
	if err != nil {
		t.Fatalf("dispatch migrate settings: %v", err)
	}
	if report.Outcome != core.OutcomeMigrated || !report.LegacyDeleted {
		t.Fatalf("expected migrated report from dispatched command, got %+v", report)
	}

	version, err := Query[cieloquery.LoadSchemaVersionMessage, cieloquery.SchemaVersionResult](ctx, cieloquery.LoadSchemaVersionMessage{})
	if err != nil {
		t.Fatalf("query schema version: %v", err)
	}
	if !version.UpToDate || version.Stored != core.CurrentVersion {
		t.Fatalf("expected migrated schema version, got %#v", version)
	}

	gateways, err := Query[cieloquery.ListGatewaysMessage, []core.Gateway](ctx, cieloquery.ListGatewaysMessage{Variant: string(core.VariantCredit)})
	if err != nil {
		t.Fatalf("query gateways: %v", err)
	}
	if len(gateways) != 1 || gateways[0].Variant != core.VariantCredit {
		t.Fatalf("expected one credit gateway, got %#v", gateways)
	}
}

func TestRegisterFacade_RequiresFacade(t *testing.T) {
	if _, err := RegisterFacade(NewRegistryAdapter(nil), nil); err == nil {
		t.Fatalf("expected missing facade error")
	}
}
