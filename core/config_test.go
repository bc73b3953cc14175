package core

import (
	"context"
	"strings"
	"testing"
)

func TestDefaultConfig_Validates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Keys = WooCommerceKeys()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("woocommerce keys: %v", err)
	}
}

func TestConfigValidate_RejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"plugin_id":      func(c *Config) { c.PluginID = " " },
		"version":        func(c *Config) { c.Version = "" },
		"store_contract": func(c *Config) { c.StoreContract = "" },
		"keys.debit":     func(c *Config) { c.Keys.DebitSettings = "" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	cfg := DefaultConfig()
	cfg.Keys.SchemaVersion = cfg.Keys.LegacySettings
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected distinct keys error, got %v", err)
	}
}

func TestGoOptionsResolver_RuntimeWins(t *testing.T) {
	defaults := DefaultConfig()
	loaded := Config{Locale: "pt_BR", PluginDir: "/srv/loaded"}
	runtime := Config{PluginDir: "/srv/runtime"}

	resolved, err := GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.PluginDir != "/srv/runtime" {
		t.Fatalf("expected runtime plugin dir, got %q", resolved.PluginDir)
	}
	if resolved.Locale != "pt_BR" {
		t.Fatalf("expected loaded locale, got %q", resolved.Locale)
	}
	if resolved.StoreContract != StoreContractBuyPageCielo {
		t.Fatalf("expected default store contract, got %q", resolved.StoreContract)
	}
}

func TestStaticConfigLoader_CopiesValues(t *testing.T) {
	values := map[string]any{"locale": "pt_BR"}
	raw, err := StaticConfigLoader(values).LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	raw["locale"] = "changed"
	if values["locale"] != "pt_BR" {
		t.Fatalf("expected loader to copy values")
	}
}

func TestMemorySettingsStore(t *testing.T) {
	store := NewMemorySettingsStore()
	ctx := context.Background()
	if _, found, err := store.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("expected missing key without error, found=%v err=%v", found, err)
	}
	if err := store.Set(ctx, "", []byte("x")); err == nil {
		t.Fatalf("expected empty key error")
	}
	payload := []byte(`"4.0.0"`)
	if err := store.Set(ctx, "schema_version", payload); err != nil {
		t.Fatalf("set: %v", err)
	}
	payload[1] = '9'
	got, found, err := store.Get(ctx, "schema_version")
	if err != nil || !found || string(got) != `"4.0.0"` {
		t.Fatalf("expected stored copy, got %q found=%v err=%v", got, found, err)
	}
	if err := store.Delete(ctx, "schema_version"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.Keys()) != 0 {
		t.Fatalf("expected empty store, got %v", store.Keys())
	}
}

func TestAdminResolvers(t *testing.T) {
	if (ContextAdminResolver{}).IsAdmin(context.Background()) {
		t.Fatalf("expected background context not to be admin")
	}
	if !(ContextAdminResolver{}).IsAdmin(WithAdminRequest(context.Background())) {
		t.Fatalf("expected admin request context")
	}
	if !StaticAdminResolver(true).IsAdmin(context.Background()) {
		t.Fatalf("expected static admin resolver")
	}
}
