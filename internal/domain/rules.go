package domain

import "github.com/shopspring/decimal"

// RuleMeta identifies a rule snapshot version.
type RuleMeta struct {
	Version       string `json:"version"`
	Source        string `json:"source"`
	EffectiveDate string `json:"effectiveDate"`
}

// PITBand is one progressive band. Width is the band's size in Naira;
// a zero Width marks the unbounded top band.
type PITBand struct {
	Label string          `json:"label"`
	Width decimal.Decimal `json:"width"`
	Rate  decimal.Decimal `json:"rate"`
}

// PITRules parameterizes the individual regime: band table, consolidated
// relief formula and the minimum-tax floor.
type PITRules struct {
	Bands              []PITBand       `json:"bands"`
	CRAFixedMinimum    decimal.Decimal `json:"craFixedMinimum"`
	CRAGrossFraction   decimal.Decimal `json:"craGrossFraction"`
	CRAGeneralFraction decimal.Decimal `json:"craGeneralFraction"`
	MinimumTaxRate     decimal.Decimal `json:"minimumTaxRate"`
}

// CITRules parameterizes the company regime tier step function.
type CITRules struct {
	SmallCompanyThreshold  decimal.Decimal `json:"smallCompanyThreshold"`
	MediumCompanyThreshold decimal.Decimal `json:"mediumCompanyThreshold"`
	SmallRate              decimal.Decimal `json:"smallRate"`
	MediumRate             decimal.Decimal `json:"mediumRate"`
	StandardRate           decimal.Decimal `json:"standardRate"`
}

// VATRules holds the VAT rate plus the registration threshold used by the
// compliance checker. The threshold is deliberately independent from the
// CIT small-company threshold even though both are currently ₦25M.
type VATRules struct {
	Rate                  decimal.Decimal `json:"rate"`
	RegistrationThreshold decimal.Decimal `json:"registrationThreshold"`
}

// WHTRateRow is one withholding rate keyed by payment type.
type WHTRateRow struct {
	PaymentType     string          `json:"paymentType"`
	Description     string          `json:"description"`
	ResidentRate    decimal.Decimal `json:"residentRate"`
	NonResidentRate decimal.Decimal `json:"nonResidentRate"`
}

// WHTRules is the full withholding rate table.
type WHTRules struct {
	Rates []WHTRateRow `json:"rates"`
}

// Rate returns the rate row for a payment type, or false when unknown.
func (w *WHTRules) Rate(paymentType string) (WHTRateRow, bool) {
	for _, row := range w.Rates {
		if row.PaymentType == paymentType {
			return row, true
		}
	}
	return WHTRateRow{}, false
}

// CGTRules holds the flat capital gains rate.
type CGTRules struct {
	Rate decimal.Decimal `json:"rate"`
}

// TETRules parameterizes tertiary education tax: a flat rate on assessable
// profit, applicable only above the turnover threshold.
type TETRules struct {
	Rate              decimal.Decimal `json:"rate"`
	TurnoverThreshold decimal.Decimal `json:"turnoverThreshold"`
}

// LevyRules parameterizes the independent statutory levies.
type LevyRules struct {
	NASENIRate        decimal.Decimal `json:"naseniRate"`
	NASENISectors     []string        `json:"naseniSectors"`
	NSITFRate         decimal.Decimal `json:"nsitfRate"`
	ITFRate           decimal.Decimal `json:"itfRate"`
	ITFMinEmployees   int             `json:"itfMinEmployees"`
	ITFTurnoverFloor  decimal.Decimal `json:"itfTurnoverFloor"`
	PoliceFundRate    decimal.Decimal `json:"policeFundRate"`
	AuditThreshold    decimal.Decimal `json:"auditThreshold"`
}

// RuleSnapshot is the immutable, versioned bundle of every rate, band and
// threshold table active at computation time. Snapshots are never mutated
// in place; a new one is produced only by merging an override document
// over the base.
type RuleSnapshot struct {
	Meta   RuleMeta  `json:"meta"`
	PIT    PITRules  `json:"pit"`
	CIT    CITRules  `json:"cit"`
	VAT    VATRules  `json:"vat"`
	WHT    WHTRules  `json:"wht"`
	CGT    CGTRules  `json:"cgt"`
	TET    TETRules  `json:"tet"`
	Levies LevyRules `json:"levies"`
}
