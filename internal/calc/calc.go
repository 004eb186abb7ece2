// Package calc implements the per-regime tax calculators. Every function
// here is pure: (inputs, rule tables) in, typed partial result out. No
// calculator holds state, so all of them are safe to call concurrently.
package calc

import (
	"github.com/shopspring/decimal"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// Assessment is the regime-calculator output the orchestrator composes
// into a TaxResult.
type Assessment struct {
	TaxableIncome decimal.Decimal
	TotalTaxDue   decimal.Decimal
	EffectiveRate decimal.Decimal
	Bands         []domain.TaxBand
	Notes         []string
}

// kobo precision for all published Naira amounts
const moneyPlaces = 2

// effective rates carry more precision than money
const ratePlaces = 6

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// effectiveRate divides tax by gross revenue, guarding the zero case
// with a floor of 1 so the rate is defined for empty returns.
func effectiveRate(tax, gross decimal.Decimal) decimal.Decimal {
	denom := gross
	if denom.LessThan(decimal.NewFromInt(1)) {
		denom = decimal.NewFromInt(1)
	}
	return tax.DivRound(denom, ratePlaces)
}
