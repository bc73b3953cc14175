package core

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	PluginErrorBadInput                = "PLUGIN_BAD_INPUT"
	PluginErrorCapabilityMissing       = "PLUGIN_CAPABILITY_MISSING"
	PluginErrorStoreReadFailed         = "SETTINGS_STORE_READ_FAILED"
	PluginErrorStoreWriteFailed        = "SETTINGS_STORE_WRITE_FAILED"
	PluginErrorLegacySettingsMalformed = "LEGACY_SETTINGS_MALFORMED"
	PluginErrorInternal                = "PLUGIN_INTERNAL_ERROR"
)

var (
	ErrCapabilityMissing       = errors.New("core: payment gateway capability missing")
	ErrStoreRead               = errors.New("core: settings store read failed")
	ErrStoreWrite              = errors.New("core: settings store write failed")
	ErrMalformedLegacySettings = errors.New("core: legacy settings malformed")
)

// ServiceError is implemented by errors that carry their own envelope.
type ServiceError interface {
	ToServiceError() *goerrors.Error
}

type StoreReadError struct {
	Key   string
	Cause error
}

func (e *StoreReadError) Error() string {
	if e == nil || e.Cause == nil {
		return ErrStoreRead.Error()
	}
	return fmt.Sprintf("%s: key %q: %v", ErrStoreRead.Error(), e.Key, e.Cause)
}

func (e *StoreReadError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return ErrStoreRead
	}
	return errors.Join(ErrStoreRead, e.Cause)
}

func (e *StoreReadError) ToServiceError() *goerrors.Error {
	return goerrors.New(e.Error(), goerrors.CategoryExternal).
		WithCode(http.StatusServiceUnavailable).
		WithTextCode(PluginErrorStoreReadFailed).
		WithMetadata(map[string]any{"key": e.Key})
}

type StoreOp string

const (
	StoreOpSet    StoreOp = "set"
	StoreOpDelete StoreOp = "delete"
)

type StoreWriteError struct {
	Key   string
	Op    StoreOp
	Cause error
}

func (e *StoreWriteError) Error() string {
	if e == nil || e.Cause == nil {
		return ErrStoreWrite.Error()
	}
	return fmt.Sprintf("%s: %s key %q: %v", ErrStoreWrite.Error(), e.Op, e.Key, e.Cause)
}

func (e *StoreWriteError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return ErrStoreWrite
	}
	return errors.Join(ErrStoreWrite, e.Cause)
}

func (e *StoreWriteError) ToServiceError() *goerrors.Error {
	return goerrors.New(e.Error(), goerrors.CategoryExternal).
		WithCode(http.StatusServiceUnavailable).
		WithTextCode(PluginErrorStoreWriteFailed).
		WithMetadata(map[string]any{"key": e.Key, "op": string(e.Op)})
}

// MalformedSettingsError lists the legacy fields that were missing or had
// an unexpected shape, keyed by field name.
type MalformedSettingsError struct {
	Key    string
	Fields map[string]string
}

func (e *MalformedSettingsError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrMalformedLegacySettings.Error()
	}
	names := e.FieldNames()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return fmt.Sprintf("%s: key %q: %s", ErrMalformedLegacySettings.Error(), e.Key, strings.Join(parts, "; "))
}

func (e *MalformedSettingsError) Unwrap() error {
	return ErrMalformedLegacySettings
}

func (e *MalformedSettingsError) FieldNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *MalformedSettingsError) ToServiceError() *goerrors.Error {
	fieldErrors := make([]goerrors.FieldError, 0, len(e.Fields))
	for _, name := range e.FieldNames() {
		fieldErrors = append(fieldErrors, goerrors.FieldError{
			Field:   name,
			Message: e.Fields[name],
		})
	}
	return goerrors.NewValidation(e.Error(), fieldErrors...).
		WithCode(http.StatusUnprocessableEntity).
		WithTextCode(PluginErrorLegacySettingsMalformed).
		WithSeverity(goerrors.SeverityError)
}

func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStoreRead) || errors.Is(err, ErrStoreWrite)
}

func pluginErrorMapper(err error) *goerrors.Error {
	return mapPluginError(goerrors.New, err)
}

// mapPluginError builds the envelopes the plugin owns through factory.
func mapPluginError(factory ErrorFactory, err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensurePluginErrorEnvelope(richErr)
	}
	var serviceErr ServiceError
	if errors.As(err, &serviceErr) {
		return ensurePluginErrorEnvelope(serviceErr.ToServiceError())
	}
	if errors.Is(err, ErrCapabilityMissing) {
		return newPluginError(factory, err.Error(), goerrors.CategoryOperation, PluginErrorCapabilityMissing)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "must differ"):
		return newPluginError(factory, err.Error(), goerrors.CategoryBadInput, PluginErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensurePluginErrorEnvelope(mapped)
}

func newPluginError(factory ErrorFactory, message string, category goerrors.Category, textCode string) *goerrors.Error {
	var created *goerrors.Error
	if factory != nil {
		created = factory(message, category)
	}
	if created == nil {
		created = goerrors.New(message, category)
	}
	return ensurePluginErrorEnvelope(created.WithTextCode(textCode))
}

func ensurePluginErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = pluginHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultPluginTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultPluginTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput:
		return PluginErrorBadInput
	case goerrors.CategoryValidation:
		return PluginErrorLegacySettingsMalformed
	case goerrors.CategoryOperation:
		return PluginErrorCapabilityMissing
	default:
		return PluginErrorInternal
	}
}

func pluginHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryValidation:
		return http.StatusUnprocessableEntity
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryExternal:
		return http.StatusServiceUnavailable
	case goerrors.CategoryOperation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
