package core

import (
	"reflect"
	"testing"
)

func TestDebitBrands(t *testing.T) {
	cases := []struct {
		methods  DebitMethods
		expected []string
	}{
		{methods: DebitMethodsMastercard, expected: []string{BrandMaestro}},
		{methods: DebitMethodsAll, expected: []string{BrandVisaElectron, BrandMaestro}},
		{methods: DebitMethodsNone, expected: []string{BrandVisaElectron}},
		{methods: "", expected: []string{BrandVisaElectron}},
		{methods: "visa", expected: []string{BrandVisaElectron}},
	}
	for _, tc := range cases {
		if got := DebitBrands(tc.methods); !reflect.DeepEqual(got, tc.expected) {
			t.Fatalf("debit methods %q: expected %v, got %v", tc.methods, tc.expected, got)
		}
	}
}

func TestTransformLegacySettings_NoneForcesDebitOff(t *testing.T) {
	for _, enabled := range []Flag{FlagYes, FlagNo} {
		credit, debit := TransformLegacySettings(legacyFixture(DebitMethodsNone, enabled), DefaultTransformOptions())
		if debit.Enabled != FlagNo {
			t.Fatalf("legacy enabled %q: expected debit disabled, got %q", enabled, debit.Enabled)
		}
		if credit.Enabled != enabled {
			t.Fatalf("legacy enabled %q: expected credit enablement untouched, got %q", enabled, credit.Enabled)
		}
	}
}

func TestTransformLegacySettings_DebitInheritsEnablement(t *testing.T) {
	for _, methods := range []DebitMethods{DebitMethodsMastercard, DebitMethodsAll, ""} {
		for _, enabled := range []Flag{FlagYes, FlagNo} {
			_, debit := TransformLegacySettings(legacyFixture(methods, enabled), DefaultTransformOptions())
			if debit.Enabled != enabled {
				t.Fatalf("methods %q enabled %q: got debit enabled %q", methods, enabled, debit.Enabled)
			}
		}
	}
}

func TestTransformLegacySettings_StoreContractAndTitlesAreFixed(t *testing.T) {
	legacy := legacyFixture(DebitMethodsAll, FlagYes)
	legacy.StoreContract = "webservice"
	legacy.Title = "My old title"

	credit, debit := TransformLegacySettings(legacy, DefaultTransformOptions())
	if credit.StoreContract != StoreContractBuyPageCielo || debit.StoreContract != StoreContractBuyPageCielo {
		t.Fatalf("expected fixed store contract, got %q and %q", credit.StoreContract, debit.StoreContract)
	}
	if credit.Title != "Credit Card" || debit.Title != "Debit Card" {
		t.Fatalf("expected fixed titles, got %q and %q", credit.Title, debit.Title)
	}
}

func TestTransformLegacySettings_CopiesSharedFields(t *testing.T) {
	legacy := legacyFixture(DebitMethodsAll, FlagYes)
	credit, debit := TransformLegacySettings(legacy, DefaultTransformOptions())

	if credit.Description != legacy.Description || debit.Description != legacy.Description {
		t.Fatalf("expected description copied")
	}
	if credit.Environment != legacy.Environment || debit.Environment != legacy.Environment {
		t.Fatalf("expected environment copied")
	}
	if credit.Number != legacy.Number || credit.Key != legacy.Key || debit.Number != legacy.Number || debit.Key != legacy.Key {
		t.Fatalf("expected merchant credentials copied")
	}
	if credit.SmallestInstallment != "5" || credit.InterestRate != "2" || credit.Installments != "6" {
		t.Fatalf("expected installment fields copied, got %+v", credit)
	}
	if credit.Interest != FlagYes || credit.InstallmentType != "store" {
		t.Fatalf("expected interest fields copied, got %+v", credit)
	}
	if debit.Authorization != legacy.Authorization || debit.DebitDiscount != legacy.DebitDiscount {
		t.Fatalf("expected debit authorization and discount copied, got %+v", debit)
	}
	if debit.Design != legacy.Design || debit.DesignOptions != legacy.DesignOptions || debit.Debug != legacy.Debug {
		t.Fatalf("expected debit design fields copied, got %+v", debit)
	}
}

func TestTransformLegacySettings_MethodsAreCopied(t *testing.T) {
	legacy := legacyFixture(DebitMethodsAll, FlagYes)
	credit, _ := TransformLegacySettings(legacy, DefaultTransformOptions())
	credit.Methods[0] = "changed"
	if legacy.Methods[0] != "visa" {
		t.Fatalf("expected legacy methods untouched, got %v", legacy.Methods)
	}
}

func TestTransformLegacySettings_CustomOptions(t *testing.T) {
	credit, debit := TransformLegacySettings(legacyFixture(DebitMethodsAll, FlagYes), TransformOptions{
		StoreContract: "custom",
		CreditTitle:   "Cartão de Crédito",
		DebitTitle:    "Cartão de Débito",
	})
	if credit.Title != "Cartão de Crédito" || debit.Title != "Cartão de Débito" {
		t.Fatalf("expected custom titles, got %q and %q", credit.Title, debit.Title)
	}
	if credit.StoreContract != "custom" || debit.StoreContract != "custom" {
		t.Fatalf("expected custom store contract")
	}
}
