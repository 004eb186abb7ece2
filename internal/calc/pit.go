package calc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// ConsolidatedRelief computes the CRA:
// max(fixed minimum, grossFraction × gross) + generalFraction × gross.
func ConsolidatedRelief(gross decimal.Decimal, r domain.PITRules) decimal.Decimal {
	variable := gross.Mul(r.CRAGrossFraction)
	fixed := r.CRAFixedMinimum
	if variable.GreaterThan(fixed) {
		fixed = variable
	}
	return fixed.Add(gross.Mul(r.CRAGeneralFraction))
}

// PIT assesses an individual under the progressive band table.
//
// Taxable income is gross revenue less allowable expenses, the CRA and
// the statutory reliefs, clamped at zero. The band table is consumed in
// order; the unbounded top band takes any remainder. If the banded tax
// falls below the minimum-tax floor (1% of gross by default), the floor
// wins and an adjustment row keeps the band sum equal to the total due.
func PIT(in domain.TaxInputs, r domain.PITRules) Assessment {
	gross := in.GrossRevenue
	cra := ConsolidatedRelief(gross, r)

	taxable := clampNonNegative(gross.
		Sub(in.AllowableExpenses).
		Sub(cra).
		Sub(in.PensionContributions).
		Sub(in.NHFContributions).
		Sub(in.LifeInsurancePremiums).
		Sub(in.OtherReliefs))

	bands, computed := consumeBands(taxable, r.Bands)

	a := Assessment{
		TaxableIncome: money(taxable),
		TotalTaxDue:   computed,
		Bands:         bands,
	}

	if gross.IsPositive() {
		floor := money(gross.Mul(r.MinimumTaxRate))
		if computed.LessThan(floor) {
			adjustment := floor.Sub(computed)
			a.Bands = append(a.Bands, domain.TaxBand{
				Label:      "Minimum tax adjustment",
				Rate:       r.MinimumTaxRate,
				BaseAmount: decimal.Zero,
				TaxAmount:  adjustment,
			})
			a.TotalTaxDue = floor
			a.Notes = append(a.Notes, fmt.Sprintf(
				"Minimum tax applied: computed tax ₦%s is below %s%% of gross revenue, so the statutory floor of ₦%s is due instead.",
				computed.StringFixed(2),
				r.MinimumTaxRate.Mul(decimal.NewFromInt(100)).String(),
				floor.StringFixed(2),
			))
		}
	}

	a.EffectiveRate = effectiveRate(a.TotalTaxDue, gross)
	return a
}

// consumeBands walks the ordered band table, taking min(remaining, width)
// per band. A zero-width band is unbounded and absorbs the remainder.
// Bands that receive no income are omitted from the breakdown.
func consumeBands(taxable decimal.Decimal, table []domain.PITBand) ([]domain.TaxBand, decimal.Decimal) {
	remaining := taxable
	total := decimal.Zero
	bands := make([]domain.TaxBand, 0, len(table))

	for _, band := range table {
		if !remaining.IsPositive() {
			break
		}
		base := remaining
		if band.Width.IsPositive() && band.Width.LessThan(remaining) {
			base = band.Width
		}
		tax := money(base.Mul(band.Rate))
		bands = append(bands, domain.TaxBand{
			Label:      band.Label,
			Rate:       band.Rate,
			BaseAmount: money(base),
			TaxAmount:  tax,
		})
		total = total.Add(tax)
		remaining = remaining.Sub(base)
	}

	return bands, total
}
