package calc

import (
	"github.com/shopspring/decimal"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// AssessableProfit is the base for TET and the profit-keyed levies:
// turnover less cost of sales and operating expenses, before capital
// allowances, clamped at zero.
func AssessableProfit(in domain.TaxInputs) decimal.Decimal {
	return clampNonNegative(in.EffectiveTurnover().
		Sub(in.CostOfSales).
		Sub(in.OperatingExpenses))
}

// TET computes tertiary education tax: a flat rate on assessable profit,
// due only from companies whose turnover exceeds the threshold. Returns
// the line with Applicable=false (zero amount) below the threshold.
func TET(in domain.TaxInputs, r domain.TETRules) domain.LevyLine {
	profit := AssessableProfit(in)
	line := domain.LevyLine{
		Name:       "Tertiary Education Tax",
		Rate:       r.Rate,
		BaseAmount: money(profit),
		Basis:      "assessable profit",
	}
	if in.EffectiveTurnover().GreaterThan(r.TurnoverThreshold) {
		line.Applicable = true
		line.Amount = money(profit.Mul(r.Rate))
	}
	return line
}

// Levies computes the independent statutory levies. Each is reported on
// its own line as a parallel obligation; none feeds back into the CIT
// taxable-profit base.
func Levies(in domain.TaxInputs, r domain.LevyRules) []domain.LevyLine {
	profit := AssessableProfit(in)
	payroll := in.AnnualPayroll

	naseni := domain.LevyLine{
		Name:       "NASENI Levy",
		Rate:       r.NASENIRate,
		BaseAmount: money(profit),
		Basis:      "profit",
	}
	if sectorGated(in.Sector, r.NASENISectors) {
		naseni.Applicable = true
		naseni.Amount = money(profit.Mul(r.NASENIRate))
	}

	nsitf := domain.LevyLine{
		Name:       "NSITF Contribution",
		Rate:       r.NSITFRate,
		BaseAmount: money(payroll),
		Basis:      "payroll",
	}
	if payroll.IsPositive() {
		nsitf.Applicable = true
		nsitf.Amount = money(payroll.Mul(r.NSITFRate))
	}

	itf := domain.LevyLine{
		Name:       "ITF Contribution",
		Rate:       r.ITFRate,
		BaseAmount: money(payroll),
		Basis:      "payroll",
	}
	if in.EmployeeCount >= r.ITFMinEmployees || in.EffectiveTurnover().GreaterThanOrEqual(r.ITFTurnoverFloor) {
		itf.Applicable = true
		itf.Amount = money(payroll.Mul(r.ITFRate))
	}

	police := domain.LevyLine{
		Name:       "Police Trust Fund Levy",
		Rate:       r.PoliceFundRate,
		BaseAmount: money(profit),
		Basis:      "net profit",
	}
	if profit.IsPositive() {
		police.Applicable = true
		police.Amount = money(profit.Mul(r.PoliceFundRate))
	}

	return []domain.LevyLine{naseni, nsitf, itf, police}
}

func sectorGated(sector string, gated []string) bool {
	for _, s := range gated {
		if s == sector {
			return true
		}
	}
	return false
}
