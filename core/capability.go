package core

import (
	"context"
	"strings"
	"sync"
)

type StaticCapabilityProvider bool

func (p StaticCapabilityProvider) HasPaymentGatewayCapability(context.Context) bool {
	return bool(p)
}

// CapabilityGate decides whether the plugin initializes at all. A missing
// capability is reported through the notifier once per gate.
type CapabilityGate struct {
	provider CapabilityProvider
	notifier Notifier
	notice   Notice

	mu       sync.Mutex
	notified bool
}

func NewCapabilityGate(provider CapabilityProvider, notifier Notifier, message string) *CapabilityGate {
	message = strings.TrimSpace(message)
	if message == "" {
		message = DefaultMissingDependencyNotice
	}
	return &CapabilityGate{
		provider: provider,
		notifier: notifier,
		notice:   Notice{Level: NoticeLevelError, Message: message},
	}
}

func (g *CapabilityGate) Check(ctx context.Context) bool {
	available, _ := g.Evaluate(ctx)
	return available
}

// Evaluate returns the gate decision and any error raised while delivering
// the missing dependency notice.
func (g *CapabilityGate) Evaluate(ctx context.Context) (bool, error) {
	if g == nil || g.provider == nil {
		return false, nil
	}
	if g.provider.HasPaymentGatewayCapability(ctx) {
		return true, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.notified || g.notifier == nil {
		return false, nil
	}
	g.notified = true
	return false, g.notifier.Notify(ctx, g.notice)
}

func (g *CapabilityGate) Notice() Notice {
	if g == nil {
		return Notice{}
	}
	return g.notice
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notice) error { return nil }

var (
	_ CapabilityProvider = StaticCapabilityProvider(false)
	_ Notifier           = NopNotifier{}
)
