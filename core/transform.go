package core

// TransformOptions carries the values the split does not take from the
// legacy record.
type TransformOptions struct {
	StoreContract string
	CreditTitle   string
	DebitTitle    string
}

func DefaultTransformOptions() TransformOptions {
	return TransformOptions{
		StoreContract: StoreContractBuyPageCielo,
		CreditTitle:   "Credit Card",
		DebitTitle:    "Debit Card",
	}
}

// TransformLegacySettings splits the bundled legacy record into the credit
// and debit variant records.
func TransformLegacySettings(legacy LegacySettings, opts TransformOptions) (CreditSettings, DebitSettings) {
	credit := CreditSettings{
		Enabled:             legacy.Enabled,
		Title:               opts.CreditTitle,
		Description:         legacy.Description,
		StoreContract:       opts.StoreContract,
		Environment:         legacy.Environment,
		Number:              legacy.Number,
		Key:                 legacy.Key,
		Methods:             append([]string{}, legacy.Methods...),
		Authorization:       legacy.Authorization,
		SmallestInstallment: legacy.SmallestInstallment,
		InterestRate:        legacy.InterestRate,
		Installments:        legacy.Installments,
		Interest:            legacy.Interest,
		InstallmentType:     legacy.InstallmentType,
		DesignOptions:       legacy.DesignOptions,
		Design:              legacy.Design,
		Debug:               legacy.Debug,
	}

	enabled := legacy.Enabled
	if legacy.DebitMethods == DebitMethodsNone {
		enabled = FlagNo
	}
	debit := DebitSettings{
		Enabled:       enabled,
		Title:         opts.DebitTitle,
		Description:   legacy.Description,
		StoreContract: opts.StoreContract,
		Environment:   legacy.Environment,
		Number:        legacy.Number,
		Key:           legacy.Key,
		Methods:       DebitBrands(legacy.DebitMethods),
		Authorization: legacy.Authorization,
		DebitDiscount: legacy.DebitDiscount,
		DesignOptions: legacy.DesignOptions,
		Design:        legacy.Design,
		Debug:         legacy.Debug,
	}
	return credit, debit
}

// DebitBrands derives the accepted debit brands from the legacy selector.
// Unknown and empty selectors fall back to Visa Electron.
func DebitBrands(methods DebitMethods) []string {
	switch methods {
	case DebitMethodsMastercard:
		return []string{BrandMaestro}
	case DebitMethodsAll:
		return []string{BrandVisaElectron, BrandMaestro}
	default:
		return []string{BrandVisaElectron}
	}
}
