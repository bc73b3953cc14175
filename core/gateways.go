package core

import (
	"fmt"
	"strings"
	"sync"
)

// Gateway describes one payment method variant exposed to the host.
type Gateway struct {
	ID          MethodID
	Variant     Variant
	SettingsKey string
	Title       string
}

// DefaultGateways lists the variants in the order the host receives them.
func DefaultGateways(cfg Config) []Gateway {
	return []Gateway{
		{
			ID:          MethodIDDebit,
			Variant:     VariantDebit,
			SettingsKey: cfg.Keys.DebitSettings,
			Title:       cfg.Labels.DebitTitle,
		},
		{
			ID:          MethodIDCredit,
			Variant:     VariantCredit,
			SettingsKey: cfg.Keys.CreditSettings,
			Title:       cfg.Labels.CreditTitle,
		},
	}
}

// RegisterGateways appends the debit and credit method ids to the host
// list. The input slice is never modified.
func RegisterGateways(existing []MethodID) []MethodID {
	return appendMethodIDs(existing, []MethodID{MethodIDDebit, MethodIDCredit})
}

type GatewayRegistry struct {
	mu       sync.RWMutex
	order    []MethodID
	gateways map[MethodID]Gateway
}

func NewGatewayRegistry(gateways ...Gateway) (*GatewayRegistry, error) {
	registry := &GatewayRegistry{gateways: make(map[MethodID]Gateway)}
	for _, gateway := range gateways {
		if err := registry.Register(gateway); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (r *GatewayRegistry) Register(gateway Gateway) error {
	if r == nil {
		return fmt.Errorf("core: gateway registry is nil")
	}
	gateway.ID = MethodID(strings.TrimSpace(string(gateway.ID)))
	if gateway.ID == "" {
		return fmt.Errorf("core: gateway id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gateways == nil {
		r.gateways = make(map[MethodID]Gateway)
	}
	if _, exists := r.gateways[gateway.ID]; exists {
		return fmt.Errorf("core: gateway already registered: %s", gateway.ID)
	}
	r.gateways[gateway.ID] = gateway
	r.order = append(r.order, gateway.ID)
	return nil
}

func (r *GatewayRegistry) Get(id MethodID) (Gateway, bool) {
	id = MethodID(strings.TrimSpace(string(id)))
	if r == nil || id == "" {
		return Gateway{}, false
	}
	r.mu.RLock()
	gateway, ok := r.gateways[id]
	r.mu.RUnlock()
	return gateway, ok
}

// List returns gateways in registration order.
func (r *GatewayRegistry) List() []Gateway {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Gateway, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.gateways[id])
	}
	return out
}

func (r *GatewayRegistry) MethodIDs() []MethodID {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]MethodID(nil), r.order...)
}

// RegisterGateways is the registry backed form of the package level
// RegisterGateways, suitable as a host GatewayFilter.
func (r *GatewayRegistry) RegisterGateways(existing []MethodID) []MethodID {
	return appendMethodIDs(existing, r.MethodIDs())
}

func appendMethodIDs(existing []MethodID, ids []MethodID) []MethodID {
	out := make([]MethodID, 0, len(existing)+len(ids))
	out = append(out, existing...)
	return append(out, ids...)
}
