package domain

import "github.com/shopspring/decimal"

// PeriodEntry is one row of a multi-period income or payroll series.
type PeriodEntry struct {
	Period string          `json:"period"`
	Amount decimal.Decimal `json:"amount"`
}

// WithholdingCertificate evidences WHT already deducted at source.
type WithholdingCertificate struct {
	Payer             string          `json:"payer"`
	CertificateNumber string          `json:"certificateNumber"`
	IssueDate         string          `json:"issueDate"`
	Amount            decimal.Decimal `json:"amount"`
}

// TaxInputs carries all sanitized financial figures for one assessment.
// Every amount is non-negative Naira; the sanitizer clamps before this
// struct is ever constructed.
type TaxInputs struct {
	// Individual / common
	GrossRevenue          decimal.Decimal `json:"grossRevenue"`
	AllowableExpenses     decimal.Decimal `json:"allowableExpenses"`
	PensionContributions  decimal.Decimal `json:"pensionContributions"`
	NHFContributions      decimal.Decimal `json:"nhfContributions"`
	LifeInsurancePremiums decimal.Decimal `json:"lifeInsurancePremiums"`
	OtherReliefs          decimal.Decimal `json:"otherReliefs"`

	// Company
	Turnover          decimal.Decimal `json:"turnover"`
	CostOfSales       decimal.Decimal `json:"costOfSales"`
	OperatingExpenses decimal.Decimal `json:"operatingExpenses"`
	CapitalAllowance  decimal.Decimal `json:"capitalAllowance"`

	// Company allowances
	PriorYearLosses          decimal.Decimal `json:"priorYearLosses"`
	InvestmentAllowance      decimal.Decimal `json:"investmentAllowance"`
	RuralInvestmentAllowance decimal.Decimal `json:"ruralInvestmentAllowance"`
	PioneerStatusRelief      decimal.Decimal `json:"pioneerStatusRelief"`

	// VAT
	VATTaxablePurchases decimal.Decimal `json:"vatTaxablePurchases"`
	InputVATPaid        decimal.Decimal `json:"inputVATPaid"`
	HasInputVATPaid     bool            `json:"-"`

	// WHT credits
	WithholdingTaxCredits   decimal.Decimal          `json:"withholdingTaxCredits"`
	WithholdingCertificates []WithholdingCertificate `json:"withholdingCertificates,omitempty"`

	// Levy drivers
	AnnualPayroll decimal.Decimal `json:"annualPayroll"`
	EmployeeCount int             `json:"employeeCount"`
	Sector        string          `json:"sector,omitempty"`

	// Multi-period series; aggregated into GrossRevenue / AnnualPayroll
	// by the sanitizer when the scalar field was not supplied.
	IncomeEntries  []PeriodEntry `json:"incomeEntries,omitempty"`
	PayrollEntries []PeriodEntry `json:"payrollEntries,omitempty"`
}

// EffectiveTurnover is the figure the CIT tier step function keys on:
// declared turnover, falling back to gross revenue when absent.
func (in *TaxInputs) EffectiveTurnover() decimal.Decimal {
	if in.Turnover.IsPositive() {
		return in.Turnover
	}
	return in.GrossRevenue
}
