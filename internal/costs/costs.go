// Package costs prices an accounts filing entry.
package costs

import (
	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	Kind                  = "cost#cost"
	PaymentMethodCard     = "credit-card"
	PaymentClassDataMaint = "data-maintenance"
	amountPlaces          = 2
)

// Config holds the fees charged per package type.
type Config struct {
	CICFee      decimal.Decimal
	OverseasFee decimal.Decimal
}

// DefaultConfig returns the standard fees.
func DefaultConfig() Config {
	return Config{
		CICFee:      decimal.RequireFromString("15.00"),
		OverseasFee: decimal.RequireFromString("33.00"),
	}
}

// Cost is one line item the payment service charges for.
type Cost struct {
	Amount                  string            `json:"amount"`
	AvailablePaymentMethods []string          `json:"available_payment_methods"`
	ClassOfPayment          []string          `json:"class_of_payment"`
	Description             string            `json:"description"`
	DescriptionIdentifier   string            `json:"description_identifier"`
	DescriptionValues       map[string]string `json:"description_values"`
	Kind                    string            `json:"kind"`
	ProductType             string            `json:"product_type"`
	ResourceKind            string            `json:"resource_kind"`
}

type chargeable struct {
	fee                   func(Config) decimal.Decimal
	productType           string
	resourceKind          string
	descriptionIdentifier string
}

var chargeables = map[filing.PackageType]chargeable{
	filing.PackageTypeCIC: {
		fee:                   func(c Config) decimal.Decimal { return c.CICFee },
		productType:           "cic-package-accounts",
		resourceKind:          "accounts-filing#cic-package-accounts",
		descriptionIdentifier: "package-accounts-cic",
	},
	filing.PackageTypeOverseas: {
		fee:                   func(c Config) decimal.Decimal { return c.OverseasFee },
		productType:           "overseas-package-accounts",
		resourceKind:          "accounts-filing#overseas-package-accounts",
		descriptionIdentifier: "package-accounts-overseas",
	},
}

// Calculator maps an entry to its cost line items.
type Calculator struct {
	cfg Config
}

// NewCalculator returns a Calculator charging the fees in cfg.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Calculate returns one item for fee-attracting package types and an empty
// list for everything else, including an entry with no package type yet.
func (c *Calculator) Calculate(entry filing.Entry) []Cost {
	if entry.PackageType == nil {
		return []Cost{}
	}

	charge, ok := chargeables[*entry.PackageType]
	if !ok {
		return []Cost{}
	}

	// cases.Caser keeps state, so one is built per call.
	label := cases.Title(language.BritishEnglish).String(entry.PackageType.Label())

	return []Cost{{
		Amount:                  charge.fee(c.cfg).StringFixed(amountPlaces),
		AvailablePaymentMethods: []string{PaymentMethodCard},
		ClassOfPayment:          []string{PaymentClassDataMaint},
		Description:             label + " package accounts for " + entry.CompanyName,
		DescriptionIdentifier:   charge.descriptionIdentifier,
		DescriptionValues: map[string]string{
			"package_type": label,
			"company_name": entry.CompanyName,
		},
		Kind:         Kind,
		ProductType:  charge.productType,
		ResourceKind: charge.resourceKind,
	}}
}
