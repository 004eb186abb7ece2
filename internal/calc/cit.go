package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// CITTier labels the turnover tier a company falls into.
type CITTier string

const (
	TierSmall    CITTier = "small"
	TierMedium   CITTier = "medium"
	TierStandard CITTier = "standard"
)

// SelectCITTier is the pure step function of turnover.
func SelectCITTier(turnover decimal.Decimal, r domain.CITRules) (CITTier, decimal.Decimal) {
	switch {
	case turnover.LessThanOrEqual(r.SmallCompanyThreshold):
		return TierSmall, r.SmallRate
	case turnover.LessThanOrEqual(r.MediumCompanyThreshold):
		return TierMedium, r.MediumRate
	default:
		return TierStandard, r.StandardRate
	}
}

// CIT assesses a registered company. Taxable profit is turnover less
// cost of sales, operating expenses, capital allowance and the carried
// allowances, clamped at zero. The tier rate applies flat; a single
// synthetic band row keeps the breakdown shape consistent with PIT.
func CIT(in domain.TaxInputs, r domain.CITRules) Assessment {
	turnover := in.EffectiveTurnover()
	tier, rate := SelectCITTier(turnover, r)

	profit := clampNonNegative(turnover.
		Sub(in.CostOfSales).
		Sub(in.OperatingExpenses).
		Sub(in.CapitalAllowance).
		Sub(in.PriorYearLosses).
		Sub(in.InvestmentAllowance).
		Sub(in.RuralInvestmentAllowance).
		Sub(in.PioneerStatusRelief))

	tax := money(profit.Mul(rate))

	a := Assessment{
		TaxableIncome: money(profit),
		TotalTaxDue:   tax,
		EffectiveRate: effectiveRate(tax, turnover),
		Bands: []domain.TaxBand{{
			Label:      tierLabel(tier, rate),
			Rate:       rate,
			BaseAmount: money(profit),
			TaxAmount:  tax,
		}},
	}

	if tier == TierSmall {
		a.Notes = append(a.Notes, fmt.Sprintf(
			"Small company: turnover at or below ₦%s attracts the %s%% CIT rate.",
			r.SmallCompanyThreshold.StringFixed(0),
			rate.Mul(decimal.NewFromInt(100)).String(),
		))
	}

	return a
}

func tierLabel(tier CITTier, rate decimal.Decimal) string {
	pct := rate.Mul(decimal.NewFromInt(100)).String()
	switch tier {
	case TierSmall:
		return fmt.Sprintf("Small company (%s%%)", pct)
	case TierMedium:
		return fmt.Sprintf("Medium company (%s%%)", pct)
	default:
		return fmt.Sprintf("Large company (%s%%)", pct)
	}
}
