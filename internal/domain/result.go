package domain

import "github.com/shopspring/decimal"

// TaxBand is one consumed slice of the progressive table (or the single
// synthetic tier row emitted by the company calculator).
type TaxBand struct {
	Label      string          `json:"label"`
	Rate       decimal.Decimal `json:"rate"`
	BaseAmount decimal.Decimal `json:"baseAmount"`
	TaxAmount  decimal.Decimal `json:"taxAmount"`
}

// VATBlock is present on a result only when the taxpayer is VAT-registered.
// NetVATPayable may be negative, which denotes a refund/credit position.
type VATBlock struct {
	VATRate       decimal.Decimal `json:"vatRate"`
	OutputVAT     decimal.Decimal `json:"outputVAT"`
	InputVAT      decimal.Decimal `json:"inputVAT"`
	NetVATPayable decimal.Decimal `json:"netVATPayable"`
	RefundDue     bool            `json:"refundDue"`
}

// LevyLine is one statutory levy reported as a parallel obligation.
// Levies never feed back into the taxable-profit base.
type LevyLine struct {
	Name       string          `json:"name"`
	Rate       decimal.Decimal `json:"rate"`
	BaseAmount decimal.Decimal `json:"baseAmount"`
	Amount     decimal.Decimal `json:"amount"`
	Applicable bool            `json:"applicable"`
	Basis      string          `json:"basis"`
}

// TaxResult is the complete liability breakdown for one assessment.
// It always carries the rule snapshot metadata that produced it so the
// output is traceable to the exact rule set used.
type TaxResult struct {
	TaxpayerType  TaxpayerType    `json:"taxpayerType"`
	TaxYear       int             `json:"taxYear"`
	Currency      string          `json:"currency"`
	TaxableIncome decimal.Decimal `json:"taxableIncome"`
	TotalTaxDue   decimal.Decimal `json:"totalTaxDue"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	Bands         []TaxBand       `json:"bands"`
	VAT           *VATBlock       `json:"vat,omitempty"`
	EducationTax  *LevyLine       `json:"educationTax,omitempty"`
	Levies        []LevyLine      `json:"levies,omitempty"`
	Notes         []string        `json:"notes"`
	Rules         RuleMeta        `json:"rules"`
}
