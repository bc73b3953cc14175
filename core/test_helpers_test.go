package core

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
)

const scenarioLegacyPayload = `{
	"enabled": "yes",
	"description": "Pay with card",
	"environment": "production",
	"number": "123",
	"key": "abc",
	"methods": ["visa"],
	"authorization": "1",
	"smallest_installment": "2",
	"interest_rate": "0",
	"installments": "12",
	"interest": "no",
	"installment_type": "0",
	"design_options": "no",
	"design": "1",
	"debug": "no",
	"debit_methods": "all",
	"debit_discount": "no"
}`

func legacyFixture(debitMethods DebitMethods, enabled Flag) LegacySettings {
	return LegacySettings{
		Enabled:             enabled,
		Title:               "Cielo",
		Description:         "Pay with card",
		StoreContract:       "webservice",
		Environment:         EnvironmentTest,
		Number:              "1006993069",
		Key:                 "25fbb997438630f30b112d033ce2e621b34f3",
		Methods:             []string{"visa", "mastercard"},
		Authorization:       "2",
		SmallestInstallment: "5",
		InterestRate:        "2",
		Installments:        "6",
		Interest:            FlagYes,
		InstallmentType:     "store",
		DesignOptions:       FlagNo,
		Design:              "default",
		Debug:               FlagNo,
		DebitMethods:        debitMethods,
		DebitDiscount:       "5",
	}
}

func seedLegacy(t *testing.T, store SettingsStore, legacy LegacySettings) {
	t.Helper()
	payload, err := EncodeSettings(legacy)
	if err != nil {
		t.Fatalf("encode legacy: %v", err)
	}
	if err := store.Set(context.Background(), DefaultKeys().LegacySettings, payload); err != nil {
		t.Fatalf("seed legacy: %v", err)
	}
}

func mustGet(t *testing.T, store SettingsStore, key string) []byte {
	t.Helper()
	payload, found, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %q: %v", key, err)
	}
	if !found {
		t.Fatalf("expected %q to be stored", key)
	}
	return payload
}

func adminContext() context.Context {
	return WithAdminRequest(context.Background())
}

var errInjected = errors.New("injected store failure")

// faultyStore wraps a memory store and fails the configured operations.
type faultyStore struct {
	*MemorySettingsStore

	mu         sync.Mutex
	failGet    map[string]bool
	failSet    map[string]bool
	failDelete map[string]bool
	calls      []string
}

func newFaultyStore() *faultyStore {
	return &faultyStore{
		MemorySettingsStore: NewMemorySettingsStore(),
		failGet:             map[string]bool{},
		failSet:             map[string]bool{},
		failDelete:          map[string]bool{},
	}
}

func (s *faultyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	s.calls = append(s.calls, "get:"+key)
	fail := s.failGet[key]
	s.mu.Unlock()
	if fail {
		return nil, false, errInjected
	}
	return s.MemorySettingsStore.Get(ctx, key)
}

func (s *faultyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.calls = append(s.calls, "set:"+key)
	fail := s.failSet[key]
	s.mu.Unlock()
	if fail {
		return errInjected
	}
	return s.MemorySettingsStore.Set(ctx, key, value)
}

func (s *faultyStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.calls = append(s.calls, "delete:"+key)
	fail := s.failDelete[key]
	s.mu.Unlock()
	if fail {
		return errInjected
	}
	return s.MemorySettingsStore.Delete(ctx, key)
}

func (s *faultyStore) heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = map[string]bool{}
	s.failSet = map[string]bool{}
	s.failDelete = map[string]bool{}
}

func (s *faultyStore) writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	for _, call := range s.calls {
		if len(call) > 4 && call[:4] == "get:" {
			continue
		}
		out = append(out, call)
	}
	return out
}

type captureNotifier struct {
	mu      sync.Mutex
	notices []Notice
	err     error
}

func (n *captureNotifier) Notify(_ context.Context, notice Notice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

type recordingHost struct {
	mu       sync.Mutex
	handlers map[int][]ReadyHandler
	filters  []GatewayFilter
}

func newRecordingHost() *recordingHost {
	return &recordingHost{handlers: map[int][]ReadyHandler{}}
}

func (h *recordingHost) OnReady(priority int, handler ReadyHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[priority] = append(h.handlers[priority], handler)
}

func (h *recordingHost) AddGatewayFilter(filter GatewayFilter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.filters = append(h.filters, filter)
}

func (h *recordingHost) ready(ctx context.Context) error {
	h.mu.Lock()
	priorities := make([]int, 0, len(h.handlers))
	for priority := range h.handlers {
		priorities = append(priorities, priority)
	}
	sort.Ints(priorities)
	handlers := []ReadyHandler{}
	for _, priority := range priorities {
		handlers = append(handlers, h.handlers[priority]...)
	}
	h.mu.Unlock()
	for _, handler := range handlers {
		if err := handler(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (h *recordingHost) gateways(existing []MethodID) []MethodID {
	h.mu.Lock()
	filters := append([]GatewayFilter(nil), h.filters...)
	h.mu.Unlock()
	out := existing
	for _, filter := range filters {
		out = filter(out)
	}
	return out
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := *l.records
	out := make([]capturedLog, len(items))
	copy(out, items)
	return out
}

func hasCounter(items []capturedCounter, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasHistogram(items []capturedHistogram, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasLog(items []capturedLog, level string, message string, eventType string) bool {
	for _, item := range items {
		if item.level != level {
			continue
		}
		if item.msg != message {
			continue
		}
		if item.fields["event_type"] == eventType {
			return true
		}
	}
	return false
}
