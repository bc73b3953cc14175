package query

import (
	"context"
	"net/http"
	"testing"

	"github.com/goliatone/go-cielo/core"
	goerrors "github.com/goliatone/go-errors"
)

func TestListGatewaysMessage_ValidateReturnsRichError(t *testing.T) {
	err := (ListGatewaysMessage{Variant: "boleto"}).Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", rich.Category)
	}
	if rich.TextCode != core.PluginErrorBadInput {
		t.Fatalf("expected %q text code, got %q", core.PluginErrorBadInput, rich.TextCode)
	}
	if rich.Code != http.StatusBadRequest {
		t.Fatalf("expected %d code, got %d", http.StatusBadRequest, rich.Code)
	}
	validation := rich.AllValidationErrors()
	if len(validation) == 0 || validation[0].Field != "variant" {
		t.Fatalf("expected variant validation field, got %#v", validation)
	}
}

func TestLoadCreditSettingsQuery_NilReaderReturnsRichError(t *testing.T) {
	var q *LoadCreditSettingsQuery
	_, err := q.Query(context.Background(), LoadCreditSettingsMessage{})
	if err == nil {
		t.Fatalf("expected dependency error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
	if rich.TextCode != core.PluginErrorInternal {
		t.Fatalf("expected %q text code, got %q", core.PluginErrorInternal, rich.TextCode)
	}
	if rich.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d code, got %d", http.StatusInternalServerError, rich.Code)
	}
}
