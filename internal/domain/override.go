package domain

import "github.com/shopspring/decimal"

// OverrideDocument is the admin-supplied rule override. Nil fields keep
// the base value; WHT rows merge by paymentType, never wholesale.
type OverrideDocument struct {
	Version       string `json:"version"`
	Source        string `json:"source"`
	EffectiveDate string `json:"effectiveDate"`

	PIT    *PITOverride  `json:"pit,omitempty"`
	CIT    *CITOverride  `json:"cit,omitempty"`
	VAT    *VATOverride  `json:"vat,omitempty"`
	WHT    *WHTOverride  `json:"wht,omitempty"`
	CGT    *CGTOverride  `json:"cgt,omitempty"`
	TET    *TETOverride  `json:"tet,omitempty"`
	Levies *LevyOverride `json:"levies,omitempty"`
}

// PITOverride replaces the band table wholesale when supplied (bands are
// ordered and interdependent, so per-row patching would be ambiguous);
// scalar constants merge per-field.
type PITOverride struct {
	Bands              []PITBand        `json:"bands,omitempty"`
	CRAFixedMinimum    *decimal.Decimal `json:"craFixedMinimum,omitempty"`
	CRAGrossFraction   *decimal.Decimal `json:"craGrossFraction,omitempty"`
	CRAGeneralFraction *decimal.Decimal `json:"craGeneralFraction,omitempty"`
	MinimumTaxRate     *decimal.Decimal `json:"minimumTaxRate,omitempty"`
}

type CITOverride struct {
	SmallCompanyThreshold  *decimal.Decimal `json:"smallCompanyThreshold,omitempty"`
	MediumCompanyThreshold *decimal.Decimal `json:"mediumCompanyThreshold,omitempty"`
	SmallRate              *decimal.Decimal `json:"smallRate,omitempty"`
	MediumRate             *decimal.Decimal `json:"mediumRate,omitempty"`
	StandardRate           *decimal.Decimal `json:"standardRate,omitempty"`
}

type VATOverride struct {
	Rate                  *decimal.Decimal `json:"rate,omitempty"`
	RegistrationThreshold *decimal.Decimal `json:"registrationThreshold,omitempty"`
}

// WHTOverride rows are merged into the base table by paymentType; rows
// for unknown payment types are appended. Unmentioned base rows survive.
type WHTOverride struct {
	Rates []WHTRateRow `json:"rates,omitempty"`
}

type CGTOverride struct {
	Rate *decimal.Decimal `json:"rate,omitempty"`
}

type TETOverride struct {
	Rate              *decimal.Decimal `json:"rate,omitempty"`
	TurnoverThreshold *decimal.Decimal `json:"turnoverThreshold,omitempty"`
}

type LevyOverride struct {
	NASENIRate       *decimal.Decimal `json:"naseniRate,omitempty"`
	NASENISectors    []string         `json:"naseniSectors,omitempty"`
	NSITFRate        *decimal.Decimal `json:"nsitfRate,omitempty"`
	ITFRate          *decimal.Decimal `json:"itfRate,omitempty"`
	ITFMinEmployees  *int             `json:"itfMinEmployees,omitempty"`
	ITFTurnoverFloor *decimal.Decimal `json:"itfTurnoverFloor,omitempty"`
	PoliceFundRate   *decimal.Decimal `json:"policeFundRate,omitempty"`
	AuditThreshold   *decimal.Decimal `json:"auditThreshold,omitempty"`
}
