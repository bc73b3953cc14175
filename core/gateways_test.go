package core

import (
	"reflect"
	"testing"
)

func TestRegisterGateways_AppendsWithoutMutatingInput(t *testing.T) {
	existing := make([]MethodID, 1, 4)
	existing[0] = "bacs"

	got := RegisterGateways(existing)
	expected := []MethodID{"bacs", MethodIDDebit, MethodIDCredit}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	if len(existing) != 1 {
		t.Fatalf("expected input length unchanged, got %d", len(existing))
	}
	got[0] = "changed"
	if existing[0] != "bacs" {
		t.Fatalf("expected result not to alias input")
	}
}

func TestRegisterGateways_NilInput(t *testing.T) {
	got := RegisterGateways(nil)
	if !reflect.DeepEqual(got, []MethodID{MethodIDDebit, MethodIDCredit}) {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestGatewayRegistry_DefaultGateways(t *testing.T) {
	registry, err := NewGatewayRegistry(DefaultGateways(DefaultConfig())...)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if ids := registry.MethodIDs(); !reflect.DeepEqual(ids, []MethodID{MethodIDDebit, MethodIDCredit}) {
		t.Fatalf("expected debit then credit, got %v", ids)
	}
	credit, ok := registry.Get(MethodIDCredit)
	if !ok {
		t.Fatalf("expected credit gateway")
	}
	if credit.Variant != VariantCredit || credit.SettingsKey != "credit_settings" || credit.Title != "Credit Card" {
		t.Fatalf("unexpected credit gateway %+v", credit)
	}
	if got := registry.RegisterGateways([]MethodID{"cod"}); !reflect.DeepEqual(got, []MethodID{"cod", MethodIDDebit, MethodIDCredit}) {
		t.Fatalf("unexpected registered ids %v", got)
	}
	if list := registry.List(); len(list) != 2 || list[0].ID != MethodIDDebit {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestGatewayRegistry_RejectsInvalidRegistrations(t *testing.T) {
	registry, err := NewGatewayRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if err := registry.Register(Gateway{ID: "  "}); err == nil {
		t.Fatalf("expected empty id error")
	}
	if err := registry.Register(Gateway{ID: MethodIDCredit}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(Gateway{ID: MethodIDCredit}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := NewGatewayRegistry(Gateway{ID: "a"}, Gateway{ID: "a"}); err == nil {
		t.Fatalf("expected constructor to reject duplicates")
	}
	if _, ok := registry.Get("missing"); ok {
		t.Fatalf("expected missing gateway lookup to fail")
	}
}
