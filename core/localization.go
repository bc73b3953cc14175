package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type NopTranslator struct{}

func (NopTranslator) Load(context.Context, string, string) error { return nil }

func (NopTranslator) Translate(_ context.Context, _ string, text string) string { return text }

// CatalogTranslator serves translations from in-memory catalogs keyed by
// domain and locale.
type CatalogTranslator struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string
	active   map[string]map[string]string
}

func NewCatalogTranslator() *CatalogTranslator {
	return &CatalogTranslator{
		catalogs: map[string]map[string]string{},
		active:   map[string]map[string]string{},
	}
}

func (t *CatalogTranslator) AddCatalog(domain string, locale string, messages map[string]string) {
	if t == nil {
		return
	}
	copied := make(map[string]string, len(messages))
	for source, translated := range messages {
		copied[source] = translated
	}
	t.mu.Lock()
	t.catalogs[catalogKey(domain, locale)] = copied
	t.mu.Unlock()
}

// Load activates the catalog for domain and locale. A missing catalog is not
// an error: untranslated text is returned as is.
func (t *CatalogTranslator) Load(_ context.Context, domain string, locale string) error {
	if t == nil {
		return fmt.Errorf("core: translator is not configured")
	}
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return fmt.Errorf("core: text domain is required")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if catalog, ok := t.catalogs[catalogKey(domain, locale)]; ok {
		t.active[domain] = catalog
		return nil
	}
	delete(t.active, domain)
	return nil
}

func (t *CatalogTranslator) Translate(_ context.Context, domain string, text string) string {
	if t == nil {
		return text
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if translated, ok := t.active[strings.TrimSpace(domain)][text]; ok && translated != "" {
		return translated
	}
	return text
}

func catalogKey(domain string, locale string) string {
	return strings.TrimSpace(domain) + "::" + strings.TrimSpace(locale)
}

var (
	_ Translator = NopTranslator{}
	_ Translator = (*CatalogTranslator)(nil)
)
