package cielo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-cielo/core"
)

type readyRegistration struct {
	priority int
	seq      int
	handler  core.ReadyHandler
}

// HostHooks is an in-process host boundary. It collects ready handlers,
// gateway filters, admin notices and capability markers, and replays them
// the way the commerce platform's dispatcher would.
type HostHooks struct {
	mu sync.RWMutex

	required     string
	ready        []readyRegistration
	filters      []core.GatewayFilter
	notices      []core.Notice
	capabilities map[string]struct{}
	seq          int
}

// NewHostHooks creates hooks that report the payment gateway capability
// once the marker named requiredCapability is registered. An empty name
// uses core.DefaultRequiredCapability.
func NewHostHooks(requiredCapability string) *HostHooks {
	requiredCapability = strings.TrimSpace(requiredCapability)
	if requiredCapability == "" {
		requiredCapability = core.DefaultRequiredCapability
	}
	return &HostHooks{
		required:     requiredCapability,
		capabilities: map[string]struct{}{},
	}
}

func (h *HostHooks) OnReady(priority int, handler core.ReadyHandler) {
	if h == nil || handler == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	h.ready = append(h.ready, readyRegistration{priority: priority, seq: h.seq, handler: handler})
}

// Ready runs the registered handlers by ascending priority, registration
// order breaking ties. The first handler error stops the run.
func (h *HostHooks) Ready(ctx context.Context) error {
	if h == nil {
		return fmt.Errorf("cielo: host hooks are nil")
	}
	h.mu.RLock()
	handlers := append([]readyRegistration(nil), h.ready...)
	h.mu.RUnlock()

	sort.SliceStable(handlers, func(i, j int) bool {
		if handlers[i].priority != handlers[j].priority {
			return handlers[i].priority < handlers[j].priority
		}
		return handlers[i].seq < handlers[j].seq
	})
	for _, registration := range handlers {
		if err := registration.handler(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (h *HostHooks) AddGatewayFilter(filter core.GatewayFilter) {
	if h == nil || filter == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.filters = append(h.filters, filter)
}

// ApplyGatewayFilters passes methods through every filter in registration
// order.
func (h *HostHooks) ApplyGatewayFilters(methods []core.MethodID) []core.MethodID {
	out := append([]core.MethodID(nil), methods...)
	if h == nil {
		return out
	}
	h.mu.RLock()
	filters := append([]core.GatewayFilter(nil), h.filters...)
	h.mu.RUnlock()

	for _, filter := range filters {
		out = filter(out)
	}
	return out
}

func (h *HostHooks) Notify(_ context.Context, notice core.Notice) error {
	if h == nil {
		return fmt.Errorf("cielo: host hooks are nil")
	}
	if strings.TrimSpace(notice.Message) == "" {
		return fmt.Errorf("cielo: notice message is required")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notices = append(h.notices, notice)
	return nil
}

func (h *HostHooks) Notices() []core.Notice {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]core.Notice(nil), h.notices...)
}

// RegisterCapability records a marker such as a class or extension name the
// host has loaded.
func (h *HostHooks) RegisterCapability(name string) error {
	if h == nil {
		return fmt.Errorf("cielo: host hooks are nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("cielo: capability name is required")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.capabilities[name] = struct{}{}
	return nil
}

func (h *HostHooks) HasCapability(name string) bool {
	if h == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.capabilities[strings.TrimSpace(name)]
	return ok
}

func (h *HostHooks) HasPaymentGatewayCapability(context.Context) bool {
	if h == nil {
		return false
	}
	return h.HasCapability(h.required)
}

// Capabilities lists the registered markers in ascending order.
func (h *HostHooks) Capabilities() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.capabilities))
	for name := range h.capabilities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	_ core.Host               = (*HostHooks)(nil)
	_ core.Notifier           = (*HostHooks)(nil)
	_ core.CapabilityProvider = (*HostHooks)(nil)
)
