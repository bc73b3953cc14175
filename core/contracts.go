package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// SettingsStore is the host's persisted key/value option store. Values are
// JSON documents; a missing key is reported as found=false, not an error.
type SettingsStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SettingsStoreFactory builds a SettingsStore from a persistence client.
type SettingsStoreFactory interface {
	BuildSettingsStore(persistenceClient any) (SettingsStore, error)
}

type CapabilityProvider interface {
	HasPaymentGatewayCapability(ctx context.Context) bool
}

type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}

type Translator interface {
	Load(ctx context.Context, domain string, locale string) error
	Translate(ctx context.Context, domain string, text string) string
}

type AdminResolver interface {
	IsAdmin(ctx context.Context) bool
}

// GatewayFilter receives the host's payment method list and returns the
// list to use.
type GatewayFilter func(methods []MethodID) []MethodID

// ReadyHandler runs when the host reports the system is ready.
type ReadyHandler func(ctx context.Context) error

// Host is the thin boundary to the commerce platform's event dispatcher.
type Host interface {
	OnReady(priority int, handler ReadyHandler)
	AddGatewayFilter(filter GatewayFilter)
}

// AdminInitializer runs admin-only setup after the gateways are wired.
type AdminInitializer func(ctx context.Context) error

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
