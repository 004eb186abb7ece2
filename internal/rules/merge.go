package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// Merge builds a new snapshot by applying an override document over a
// base snapshot. The base is never mutated: scalar overrides apply
// per-field, the WHT table merges by paymentType so a partial override
// cannot silently drop unmentioned payment types.
func Merge(base *domain.RuleSnapshot, doc *domain.OverrideDocument) *domain.RuleSnapshot {
	next := *base // value copy; slices replaced below before any write

	next.Meta = domain.RuleMeta{
		Version:       doc.Version,
		Source:        doc.Source,
		EffectiveDate: doc.EffectiveDate,
	}
	if next.Meta.Source == "" {
		next.Meta.Source = "override"
	}
	if next.Meta.EffectiveDate == "" {
		next.Meta.EffectiveDate = base.Meta.EffectiveDate
	}

	next.PIT.Bands = append([]domain.PITBand(nil), base.PIT.Bands...)
	next.WHT.Rates = append([]domain.WHTRateRow(nil), base.WHT.Rates...)
	next.Levies.NASENISectors = append([]string(nil), base.Levies.NASENISectors...)

	if o := doc.PIT; o != nil {
		if len(o.Bands) > 0 {
			next.PIT.Bands = append([]domain.PITBand(nil), o.Bands...)
		}
		setDec(&next.PIT.CRAFixedMinimum, o.CRAFixedMinimum)
		setDec(&next.PIT.CRAGrossFraction, o.CRAGrossFraction)
		setDec(&next.PIT.CRAGeneralFraction, o.CRAGeneralFraction)
		setDec(&next.PIT.MinimumTaxRate, o.MinimumTaxRate)
	}
	if o := doc.CIT; o != nil {
		setDec(&next.CIT.SmallCompanyThreshold, o.SmallCompanyThreshold)
		setDec(&next.CIT.MediumCompanyThreshold, o.MediumCompanyThreshold)
		setDec(&next.CIT.SmallRate, o.SmallRate)
		setDec(&next.CIT.MediumRate, o.MediumRate)
		setDec(&next.CIT.StandardRate, o.StandardRate)
	}
	if o := doc.VAT; o != nil {
		setDec(&next.VAT.Rate, o.Rate)
		setDec(&next.VAT.RegistrationThreshold, o.RegistrationThreshold)
	}
	if o := doc.WHT; o != nil {
		next.WHT.Rates = mergeWHTRates(next.WHT.Rates, o.Rates)
	}
	if o := doc.CGT; o != nil {
		setDec(&next.CGT.Rate, o.Rate)
	}
	if o := doc.TET; o != nil {
		setDec(&next.TET.Rate, o.Rate)
		setDec(&next.TET.TurnoverThreshold, o.TurnoverThreshold)
	}
	if o := doc.Levies; o != nil {
		setDec(&next.Levies.NASENIRate, o.NASENIRate)
		if len(o.NASENISectors) > 0 {
			next.Levies.NASENISectors = append([]string(nil), o.NASENISectors...)
		}
		setDec(&next.Levies.NSITFRate, o.NSITFRate)
		setDec(&next.Levies.ITFRate, o.ITFRate)
		if o.ITFMinEmployees != nil {
			next.Levies.ITFMinEmployees = *o.ITFMinEmployees
		}
		setDec(&next.Levies.ITFTurnoverFloor, o.ITFTurnoverFloor)
		setDec(&next.Levies.PoliceFundRate, o.PoliceFundRate)
		setDec(&next.Levies.AuditThreshold, o.AuditThreshold)
	}

	return &next
}

func setDec(dst *decimal.Decimal, src *decimal.Decimal) {
	if src != nil {
		*dst = *src
	}
}

// mergeWHTRates merges override rows into the base table by the stable
// paymentType key; unknown payment types are appended.
func mergeWHTRates(base []domain.WHTRateRow, overrides []domain.WHTRateRow) []domain.WHTRateRow {
	merged := append([]domain.WHTRateRow(nil), base...)
	for _, row := range overrides {
		replaced := false
		for i := range merged {
			if merged[i].PaymentType == row.PaymentType {
				if row.Description == "" {
					row.Description = merged[i].Description
				}
				merged[i] = row
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, row)
		}
	}
	return merged
}

// Validate rejects override documents that would publish an unusable
// snapshot. Validation runs against the fully-merged result so partial
// overrides are judged in context.
func Validate(doc *domain.OverrideDocument, merged *domain.RuleSnapshot) error {
	if strings.TrimSpace(doc.Version) == "" {
		return &domain.ErrOverrideRejected{Reason: "version is required"}
	}

	one := decimal.NewFromInt(1)
	checkRate := func(name string, rate decimal.Decimal) error {
		if rate.IsNegative() || rate.GreaterThan(one) {
			return &domain.ErrOverrideRejected{Reason: fmt.Sprintf("%s must be between 0 and 1, got %s", name, rate)}
		}
		return nil
	}

	rateChecks := []struct {
		name string
		rate decimal.Decimal
	}{
		{"pit.minimumTaxRate", merged.PIT.MinimumTaxRate},
		{"pit.craGrossFraction", merged.PIT.CRAGrossFraction},
		{"pit.craGeneralFraction", merged.PIT.CRAGeneralFraction},
		{"cit.smallRate", merged.CIT.SmallRate},
		{"cit.mediumRate", merged.CIT.MediumRate},
		{"cit.standardRate", merged.CIT.StandardRate},
		{"vat.rate", merged.VAT.Rate},
		{"cgt.rate", merged.CGT.Rate},
		{"tet.rate", merged.TET.Rate},
		{"levies.naseniRate", merged.Levies.NASENIRate},
		{"levies.nsitfRate", merged.Levies.NSITFRate},
		{"levies.itfRate", merged.Levies.ITFRate},
		{"levies.policeFundRate", merged.Levies.PoliceFundRate},
	}
	for _, c := range rateChecks {
		if err := checkRate(c.name, c.rate); err != nil {
			return err
		}
	}

	if len(merged.PIT.Bands) == 0 {
		return &domain.ErrOverrideRejected{Reason: "pit.bands must not be empty"}
	}
	for i, band := range merged.PIT.Bands {
		last := i == len(merged.PIT.Bands)-1
		if !last && !band.Width.IsPositive() {
			return &domain.ErrOverrideRejected{Reason: fmt.Sprintf("pit.bands[%d].width must be positive", i)}
		}
		if last && band.Width.IsPositive() {
			return &domain.ErrOverrideRejected{Reason: fmt.Sprintf("pit.bands[%d].width must be zero: the final band is unbounded and takes the remainder", i)}
		}
		if err := checkRate(fmt.Sprintf("pit.bands[%d].rate", i), band.Rate); err != nil {
			return err
		}
	}

	for i, row := range merged.WHT.Rates {
		if strings.TrimSpace(row.PaymentType) == "" {
			return &domain.ErrOverrideRejected{Reason: fmt.Sprintf("wht.rates[%d].paymentType is required", i)}
		}
		if err := checkRate(fmt.Sprintf("wht.rates[%d].residentRate", i), row.ResidentRate); err != nil {
			return err
		}
		if err := checkRate(fmt.Sprintf("wht.rates[%d].nonResidentRate", i), row.NonResidentRate); err != nil {
			return err
		}
	}

	thresholds := []struct {
		name  string
		value decimal.Decimal
	}{
		{"cit.smallCompanyThreshold", merged.CIT.SmallCompanyThreshold},
		{"cit.mediumCompanyThreshold", merged.CIT.MediumCompanyThreshold},
		{"vat.registrationThreshold", merged.VAT.RegistrationThreshold},
		{"tet.turnoverThreshold", merged.TET.TurnoverThreshold},
		{"levies.itfTurnoverFloor", merged.Levies.ITFTurnoverFloor},
		{"levies.auditThreshold", merged.Levies.AuditThreshold},
	}
	for _, c := range thresholds {
		if c.value.IsNegative() {
			return &domain.ErrOverrideRejected{Reason: fmt.Sprintf("%s must not be negative", c.name)}
		}
	}
	if merged.CIT.MediumCompanyThreshold.LessThan(merged.CIT.SmallCompanyThreshold) {
		return &domain.ErrOverrideRejected{Reason: "cit.mediumCompanyThreshold must not be below cit.smallCompanyThreshold"}
	}

	return nil
}
