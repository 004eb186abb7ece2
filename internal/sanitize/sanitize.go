// Package sanitize coerces raw, possibly malformed caller input into
// well-typed, defaulted values. Negative or non-numeric amounts are
// silently clamped to a safe default rather than rejected; this boundary
// favors availability over strictness.
package sanitize

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// Amount coerces any JSON scalar into a non-negative decimal.
// nil, booleans, objects and unparseable strings collapse to zero.
func Amount(v any) decimal.Decimal {
	d, ok := amountValue(v)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func amountValue(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		return decimal.NewFromFloat(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", ""))
		s = strings.TrimPrefix(s, "₦")
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	case decimal.Decimal:
		return x, true
	}
	return decimal.Zero, false
}

// StrictAmount coerces like Amount but reports failure instead of
// clamping: callers that must reject malformed values (the WHT boundary)
// use this form.
func StrictAmount(v any) (decimal.Decimal, bool) {
	d, ok := amountValue(v)
	if !ok || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// Count coerces a value into a non-negative integer count.
func Count(v any) int {
	d, ok := amountValue(v)
	if !ok || d.IsNegative() {
		return 0
	}
	return int(d.IntPart())
}

// Text coerces a value into a trimmed string, with a fallback.
func Text(v any, fallback string) string {
	if s, ok := v.(string); ok {
		if t := strings.TrimSpace(s); t != "" {
			return t
		}
	}
	return fallback
}

// Flag coerces a value into a boolean; accepts true/"true"/1.
func Flag(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(strings.TrimSpace(x), "true")
	case float64:
		return x == 1
	case json.Number:
		return x.String() == "1"
	}
	return false
}

// Profile normalizes a decoded taxpayer profile in place: taxpayer type,
// state of residence, currency and tax year all receive defaults.
// FullName is the caller's problem; validation happens at the service.
func Profile(p *domain.TaxpayerProfile, defaultYear int) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.BusinessName = strings.TrimSpace(p.BusinessName)

	switch p.TaxpayerType {
	case domain.TaxpayerFreelancer, domain.TaxpayerCompany:
	default:
		p.TaxpayerType = domain.TaxpayerFreelancer
	}

	if strings.TrimSpace(p.StateOfResidence) == "" {
		p.StateOfResidence = domain.DefaultStateOfResidence
	}
	if p.TaxYear <= 0 {
		p.TaxYear = defaultYear
	}
	p.Currency = domain.Currency
}

// TaxInputs builds a fully-clamped TaxInputs from a loosely-typed body.
// Missing keys default to zero; multi-period series are aggregated into
// the scalar figure when the scalar was not supplied.
func TaxInputs(raw map[string]any) domain.TaxInputs {
	if raw == nil {
		raw = map[string]any{}
	}

	in := domain.TaxInputs{
		GrossRevenue:          Amount(raw["grossRevenue"]),
		AllowableExpenses:     Amount(raw["allowableExpenses"]),
		PensionContributions:  Amount(raw["pensionContributions"]),
		NHFContributions:      Amount(raw["nhfContributions"]),
		LifeInsurancePremiums: Amount(raw["lifeInsurancePremiums"]),
		OtherReliefs:          Amount(raw["otherReliefs"]),

		Turnover:          Amount(raw["turnover"]),
		CostOfSales:       Amount(raw["costOfSales"]),
		OperatingExpenses: Amount(raw["operatingExpenses"]),
		CapitalAllowance:  Amount(raw["capitalAllowance"]),

		PriorYearLosses:          Amount(raw["priorYearLosses"]),
		InvestmentAllowance:      Amount(raw["investmentAllowance"]),
		RuralInvestmentAllowance: Amount(raw["ruralInvestmentAllowance"]),
		PioneerStatusRelief:      Amount(raw["pioneerStatusRelief"]),

		VATTaxablePurchases: Amount(raw["vatTaxablePurchases"]),

		WithholdingTaxCredits: Amount(raw["withholdingTaxCredits"]),

		AnnualPayroll: Amount(raw["annualPayroll"]),
		EmployeeCount: Count(raw["employeeCount"]),
		Sector:        strings.ToLower(Text(raw["sector"], "")),
	}

	// inputVATPaid is tri-state: absent falls through to the purchases
	// formula, present (even zero) wins.
	if v, ok := raw["inputVATPaid"]; ok {
		if d, valid := amountValue(v); valid && !d.IsNegative() {
			in.InputVATPaid = d
			in.HasInputVATPaid = true
		}
	}

	in.WithholdingCertificates = certificates(raw["withholdingCertificates"])
	in.IncomeEntries = periodEntries(raw["incomeEntries"])
	in.PayrollEntries = periodEntries(raw["payrollEntries"])

	if in.GrossRevenue.IsZero() && len(in.IncomeEntries) > 0 {
		in.GrossRevenue = sumEntries(in.IncomeEntries)
	}
	if in.AnnualPayroll.IsZero() && len(in.PayrollEntries) > 0 {
		in.AnnualPayroll = sumEntries(in.PayrollEntries)
	}

	return in
}

func certificates(v any) []domain.WithholdingCertificate {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []domain.WithholdingCertificate
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		amount := Amount(m["amount"])
		if !amount.IsPositive() {
			continue
		}
		out = append(out, domain.WithholdingCertificate{
			Payer:             Text(m["payer"], ""),
			CertificateNumber: Text(m["certificateNumber"], ""),
			IssueDate:         Text(m["issueDate"], ""),
			Amount:            amount,
		})
	}
	return out
}

func periodEntries(v any) []domain.PeriodEntry {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []domain.PeriodEntry
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, domain.PeriodEntry{
			Period: Text(m["period"], ""),
			Amount: Amount(m["amount"]),
		})
	}
	return out
}

func sumEntries(entries []domain.PeriodEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
