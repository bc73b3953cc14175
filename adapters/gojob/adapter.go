package gojob

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-cielo/core"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	JobIDMigrateSettings = "cielo.settings.migrate"

	ParamRequestedBy = "requested_by"
	ParamVersion     = "version"

	DedupPolicyDrop = "drop"

	defaultRetryDelay = 30 * time.Second
)

// ErrVersionMismatch marks a delivery built for a schema version other than
// the one the worker's migrator writes.
var ErrVersionMismatch = errors.New("gojob: migration job targets a different version")

// SettingsMigrator runs one migration attempt.
type SettingsMigrator interface {
	Migrate(ctx context.Context) (core.MigrationReport, error)
}

// RetryPolicy bounds redelivery of failed migration attempts.
type RetryPolicy struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	DeadLetterOnMax bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     5,
		BaseDelay:       defaultRetryDelay,
		MaxDelay:        10 * time.Minute,
		DeadLetterOnMax: true,
	}
}

// NormalizeAttempt enforces bounded retry behavior for a nack operation.
func (p RetryPolicy) NormalizeAttempt(opts queue.NackOptions, attempt int) queue.NackOptions {
	out := opts
	out.Reason = strings.TrimSpace(out.Reason)
	if out.Delay < 0 {
		out.Delay = 0
	}
	if p.MaxDelay > 0 && out.Delay > p.MaxDelay {
		out.Delay = p.MaxDelay
	}
	if out.DeadLetter {
		out.Requeue = false
	}
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		out.Requeue = false
		if p.DeadLetterOnMax || out.DeadLetter {
			out.DeadLetter = true
		}
	}
	if !out.Requeue && !out.DeadLetter {
		out.Requeue = true
	}
	return out
}

// Backoff doubles BaseDelay per attempt, starting at attempt 1.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	delay := p.BaseDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	for i := 1; i < attempt; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return delay
}

// NewMigrationMessage builds the queue message for one migration attempt
// towards version. Messages for the same version share an idempotency key.
func NewMigrationMessage(requestedBy string, version string) *job.ExecutionMessage {
	version = strings.TrimSpace(version)
	if version == "" {
		version = core.CurrentVersion
	}
	return &job.ExecutionMessage{
		JobID:      JobIDMigrateSettings,
		ScriptPath: JobIDMigrateSettings,
		Parameters: map[string]any{
			ParamRequestedBy: strings.TrimSpace(requestedBy),
			ParamVersion:     version,
		},
		IdempotencyKey: JobIDMigrateSettings + ":" + version,
		DedupPolicy:    job.DeduplicationPolicy(DedupPolicyDrop),
	}
}

type EnqueuerAdapter struct {
	enqueuer queue.Enqueuer
}

func NewEnqueuerAdapter(enqueuer queue.Enqueuer) *EnqueuerAdapter {
	return &EnqueuerAdapter{enqueuer: enqueuer}
}

// EnqueueMigration schedules a migration attempt.
func (a *EnqueuerAdapter) EnqueueMigration(ctx context.Context, requestedBy string, version string) error {
	if a == nil || a.enqueuer == nil {
		return fmt.Errorf("gojob: enqueuer is not configured")
	}
	if strings.TrimSpace(requestedBy) == "" {
		return fmt.Errorf("gojob: requested by is required")
	}
	return a.enqueuer.Enqueue(ctx, NewMigrationMessage(requestedBy, version))
}

// MigrationWorker consumes migration deliveries. Successful attempts are
// acked. Store failures are requeued with backoff. Malformed legacy records
// and jobs built for another version are dead lettered.
type MigrationWorker struct {
	migrator SettingsMigrator
	version  string
	policy   RetryPolicy
	logger   glog.Logger

	mu       sync.Mutex
	attempts map[string]int
}

type WorkerOption func(*MigrationWorker)

func WithRetryPolicy(policy RetryPolicy) WorkerOption {
	return func(w *MigrationWorker) {
		w.policy = policy
	}
}

// WithTargetVersion sets the version deliveries must target. It defaults to
// the migrator's configured version when the migrator exposes one.
func WithTargetVersion(version string) WorkerOption {
	return func(w *MigrationWorker) {
		w.version = strings.TrimSpace(version)
	}
}

func WithLogger(logger glog.Logger) WorkerOption {
	return func(w *MigrationWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func NewMigrationWorker(migrator SettingsMigrator, opts ...WorkerOption) (*MigrationWorker, error) {
	if migrator == nil {
		return nil, fmt.Errorf("gojob: settings migrator is required")
	}
	w := &MigrationWorker{
		migrator: migrator,
		version:  migratorVersion(migrator),
		policy:   DefaultRetryPolicy(),
		logger:   glog.Nop(),
		attempts: map[string]int{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Handle runs the migration for one delivery and settles it.
func (w *MigrationWorker) Handle(ctx context.Context, delivery queue.Delivery) (core.MigrationReport, error) {
	if w == nil || w.migrator == nil {
		return core.MigrationReport{}, fmt.Errorf("gojob: migration worker is not configured")
	}
	if delivery == nil {
		return core.MigrationReport{}, fmt.Errorf("gojob: delivery is required")
	}
	msg := delivery.Message()
	if msg == nil || strings.TrimSpace(msg.JobID) != JobIDMigrateSettings {
		jobID := ""
		if msg != nil {
			jobID = msg.JobID
		}
		err := fmt.Errorf("gojob: unsupported job %q", jobID)
		return core.MigrationReport{}, errors.Join(err, delivery.Nack(ctx, queue.NackOptions{
			DeadLetter: true,
			Reason:     err.Error(),
		}))
	}

	if err := w.checkVersion(msg); err != nil {
		w.logger.Warn("settings migration job rejected",
			"requested_by", requestedBy(msg),
			"error", err.Error(),
		)
		return core.MigrationReport{}, errors.Join(err, delivery.Nack(ctx, queue.NackOptions{
			DeadLetter: true,
			Reason:     err.Error(),
		}))
	}

	key := attemptKey(msg)
	attempt := w.nextAttempt(key)
	report, err := w.migrator.Migrate(core.WithAdminRequest(ctx))
	if err == nil {
		w.reset(key)
		w.logger.Info("settings migration job succeeded",
			"outcome", string(report.Outcome),
			"attempt", attempt,
			"requested_by", requestedBy(msg),
		)
		return report, delivery.Ack(ctx)
	}

	opts := queue.NackOptions{Reason: err.Error()}
	if errors.Is(err, core.ErrMalformedLegacySettings) {
		opts.DeadLetter = true
	} else {
		opts.Requeue = true
		opts.Delay = w.policy.Backoff(attempt)
	}
	opts = w.policy.NormalizeAttempt(opts, attempt)
	if opts.DeadLetter {
		w.reset(key)
	}
	w.logger.Warn("settings migration job failed",
		"attempt", attempt,
		"requeue", opts.Requeue,
		"dead_letter", opts.DeadLetter,
		"error", err.Error(),
	)
	return report, errors.Join(err, delivery.Nack(ctx, opts))
}

// RunOnce dequeues and handles a single delivery.
func (w *MigrationWorker) RunOnce(ctx context.Context, dequeuer queue.Dequeuer) (core.MigrationReport, error) {
	if dequeuer == nil {
		return core.MigrationReport{}, fmt.Errorf("gojob: dequeuer is required")
	}
	delivery, err := dequeuer.Dequeue(ctx)
	if err != nil {
		return core.MigrationReport{}, err
	}
	return w.Handle(ctx, delivery)
}

func (w *MigrationWorker) nextAttempt(key string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attempts[key]++
	return w.attempts[key]
}

func (w *MigrationWorker) reset(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.attempts, key)
}

func (w *MigrationWorker) checkVersion(msg *job.ExecutionMessage) error {
	if w.version == "" || msg.Parameters == nil {
		return nil
	}
	raw, ok := msg.Parameters[ParamVersion]
	if !ok || raw == nil {
		return nil
	}
	target := strings.TrimSpace(fmt.Sprint(raw))
	if target == "" {
		return nil
	}
	if !core.IsValidVersion(target) || core.CompareVersions(target, w.version) != 0 {
		return fmt.Errorf("%w: job %q, migrator %q", ErrVersionMismatch, target, w.version)
	}
	return nil
}

func migratorVersion(migrator SettingsMigrator) string {
	switch typed := migrator.(type) {
	case interface{ CurrentVersion() string }:
		return strings.TrimSpace(typed.CurrentVersion())
	case interface{ Config() core.Config }:
		return strings.TrimSpace(typed.Config().Version)
	}
	return ""
}

func attemptKey(msg *job.ExecutionMessage) string {
	if key := strings.TrimSpace(msg.IdempotencyKey); key != "" {
		return key
	}
	return strings.TrimSpace(msg.JobID)
}

func requestedBy(msg *job.ExecutionMessage) string {
	if msg == nil || msg.Parameters == nil {
		return ""
	}
	value, _ := msg.Parameters[ParamRequestedBy].(string)
	return value
}

// MetricsHook reports worker lifecycle events as cielo.migration_job.*
// counters and a duration histogram.
type MetricsHook struct {
	recorder core.MetricsRecorder
}

func NewMetricsHook(recorder core.MetricsRecorder) *MetricsHook {
	if recorder == nil {
		recorder = core.NopMetricsRecorder{}
	}
	return &MetricsHook{recorder: recorder}
}

func (h *MetricsHook) OnStart(ctx context.Context, event worker.Event) {
	h.count(ctx, "started", event)
}

func (h *MetricsHook) OnSuccess(ctx context.Context, event worker.Event) {
	h.count(ctx, "succeeded", event)
	h.observe(ctx, event)
}

func (h *MetricsHook) OnFailure(ctx context.Context, event worker.Event) {
	h.count(ctx, "failed", event)
	h.observe(ctx, event)
}

func (h *MetricsHook) OnRetry(ctx context.Context, event worker.Event) {
	h.count(ctx, "retried", event)
}

func (h *MetricsHook) count(ctx context.Context, status string, event worker.Event) {
	if h == nil || h.recorder == nil {
		return
	}
	h.recorder.IncCounter(ctx, "cielo.migration_job."+status, 1, eventTags(event))
}

func (h *MetricsHook) observe(ctx context.Context, event worker.Event) {
	if h == nil || h.recorder == nil {
		return
	}
	h.recorder.ObserveHistogram(ctx, "cielo.migration_job.duration_ms", float64(event.Duration.Milliseconds()), eventTags(event))
}

func eventTags(event worker.Event) map[string]string {
	message := event.Message
	if message == nil && event.Delivery != nil {
		message = event.Delivery.Message()
	}
	tags := map[string]string{"attempt": fmt.Sprintf("%d", event.Attempt)}
	if message != nil {
		tags["job_id"] = strings.TrimSpace(message.JobID)
	}
	return tags
}

var _ worker.Hook = (*MetricsHook)(nil)
