package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var legacyRequiredScalars = []string{
	"enabled",
	"description",
	"environment",
	"number",
	"key",
	"authorization",
	"smallest_installment",
	"interest_rate",
	"installments",
	"interest",
	"installment_type",
	"design_options",
	"design",
	"debug",
}

var legacyOptionalScalars = []string{
	"title",
	"store_contract",
	"debit_methods",
	"debit_discount",
}

// DecodeLegacySettings reads a legacy record field by field so a missing or
// mistyped field is reported instead of silently zeroed.
func DecodeLegacySettings(key string, payload []byte) (LegacySettings, error) {
	raw := map[string]any{}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil || raw == nil {
		return LegacySettings{}, &MalformedSettingsError{
			Key:    key,
			Fields: map[string]string{"$": "record is not an object"},
		}
	}

	problems := map[string]string{}
	values := make(map[string]string, len(legacyRequiredScalars)+len(legacyOptionalScalars))
	for _, field := range legacyRequiredScalars {
		value, present := raw[field]
		if !present || value == nil {
			problems[field] = "is required"
			continue
		}
		scalar, ok := scalarString(value)
		if !ok {
			problems[field] = fmt.Sprintf("has unexpected type %T", value)
			continue
		}
		values[field] = scalar
	}
	for _, field := range legacyOptionalScalars {
		value, present := raw[field]
		if !present || value == nil {
			continue
		}
		scalar, ok := scalarString(value)
		if !ok {
			problems[field] = fmt.Sprintf("has unexpected type %T", value)
			continue
		}
		values[field] = scalar
	}

	methods, methodsProblem := stringList(raw["methods"], raw["methods"] != nil)
	if methodsProblem != "" {
		problems["methods"] = methodsProblem
	}
	if len(problems) > 0 {
		return LegacySettings{}, &MalformedSettingsError{Key: key, Fields: problems}
	}

	return LegacySettings{
		Enabled:             Flag(values["enabled"]),
		Title:               values["title"],
		Description:         values["description"],
		StoreContract:       values["store_contract"],
		Environment:         Environment(values["environment"]),
		Number:              values["number"],
		Key:                 values["key"],
		Methods:             methods,
		Authorization:       values["authorization"],
		SmallestInstallment: values["smallest_installment"],
		InterestRate:        values["interest_rate"],
		Installments:        values["installments"],
		Interest:            Flag(values["interest"]),
		InstallmentType:     values["installment_type"],
		DesignOptions:       Flag(values["design_options"]),
		Design:              values["design"],
		Debug:               Flag(values["debug"]),
		DebitMethods:        DebitMethods(values["debit_methods"]),
		DebitDiscount:       values["debit_discount"],
	}, nil
}

func EncodeSettings(record any) ([]byte, error) {
	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("core: encode settings: %w", err)
	}
	return encoded, nil
}

func DecodeCreditSettings(payload []byte) (CreditSettings, error) {
	var out CreditSettings
	if err := json.Unmarshal(payload, &out); err != nil {
		return CreditSettings{}, fmt.Errorf("core: decode credit settings: %w", err)
	}
	return out, nil
}

func DecodeDebitSettings(payload []byte) (DebitSettings, error) {
	var out DebitSettings
	if err := json.Unmarshal(payload, &out); err != nil {
		return DebitSettings{}, fmt.Errorf("core: decode debit settings: %w", err)
	}
	return out, nil
}

func EncodeVersion(version string) []byte {
	encoded, _ := json.Marshal(strings.TrimSpace(version))
	return encoded
}

// DecodeVersion accepts a JSON string or a bare version string.
func DecodeVersion(payload []byte) string {
	var version string
	if err := json.Unmarshal(payload, &version); err == nil {
		return strings.TrimSpace(version)
	}
	return strings.Trim(strings.TrimSpace(string(payload)), `"`)
}

func scalarString(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case json.Number:
		if integer, err := typed.Int64(); err == nil {
			return strconv.FormatInt(integer, 10), true
		}
		if float, err := typed.Float64(); err == nil {
			return strconv.FormatFloat(float, 'f', -1, 64), true
		}
		return typed.String(), true
	case bool:
		if typed {
			return string(FlagYes), true
		}
		return string(FlagNo), true
	default:
		return "", false
	}
}

func stringList(value any, present bool) ([]string, string) {
	if !present {
		return nil, "is required"
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Sprintf("has unexpected type %T", value)
	}
	out := make([]string, 0, len(items))
	for idx, item := range items {
		text, ok := item.(string)
		if !ok {
			return nil, fmt.Sprintf("item %d has unexpected type %T", idx, item)
		}
		out = append(out, text)
	}
	return out, ""
}
