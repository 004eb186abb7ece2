package calc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxpadi/taxpadi-engine-go/internal/calc"
	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/rules"
)

func TestSelectCITTier(t *testing.T) {
	r := rules.BaseSnapshot().CIT

	tests := []struct {
		turnover string
		tier     calc.CITTier
		rate     string
	}{
		{"20000000", calc.TierSmall, "0"},
		{"25000000", calc.TierSmall, "0"}, // boundary is inclusive
		{"25000001", calc.TierMedium, "0.2"},
		{"60000000", calc.TierMedium, "0.2"},
		{"100000000", calc.TierMedium, "0.2"},
		{"150000000", calc.TierStandard, "0.3"},
	}
	for _, tt := range tests {
		tier, rate := calc.SelectCITTier(ngn(tt.turnover), r)
		assert.Equal(t, tt.tier, tier, "turnover %s", tt.turnover)
		assert.Equal(t, tt.rate, rate.String(), "turnover %s", tt.turnover)
	}
}

func TestCIT_SmallCompanyZeroRated(t *testing.T) {
	r := rules.BaseSnapshot().CIT
	in := domain.TaxInputs{
		Turnover:    ngn("20000000"),
		CostOfSales: ngn("5000000"),
	}

	a := calc.CIT(in, r)

	assert.Equal(t, "15000000.00", a.TaxableIncome.StringFixed(2))
	assert.True(t, a.TotalTaxDue.IsZero())
	require.Len(t, a.Bands, 1)
	assert.Equal(t, "Small company (0%)", a.Bands[0].Label)
	require.Len(t, a.Notes, 1)
	assert.Contains(t, a.Notes[0], "Small company")
}

func TestCIT_MediumCompany(t *testing.T) {
	r := rules.BaseSnapshot().CIT
	in := domain.TaxInputs{
		Turnover:          ngn("60000000"),
		CostOfSales:       ngn("10000000"),
		OperatingExpenses: ngn("5000000"),
	}

	a := calc.CIT(in, r)

	assert.Equal(t, "45000000.00", a.TaxableIncome.StringFixed(2))
	assert.Equal(t, "9000000.00", a.TotalTaxDue.StringFixed(2))
	require.Len(t, a.Bands, 1)
	assert.Equal(t, "Medium company (20%)", a.Bands[0].Label)
	assert.Empty(t, a.Notes)
}

func TestCIT_StandardRateWithAllowances(t *testing.T) {
	r := rules.BaseSnapshot().CIT
	in := domain.TaxInputs{
		Turnover:         ngn("150000000"),
		CostOfSales:      ngn("60000000"),
		CapitalAllowance: ngn("10000000"),
		PriorYearLosses:  ngn("20000000"),
	}

	a := calc.CIT(in, r)

	assert.Equal(t, "60000000.00", a.TaxableIncome.StringFixed(2))
	assert.Equal(t, "18000000.00", a.TotalTaxDue.StringFixed(2))
	assert.Equal(t, "Large company (30%)", a.Bands[0].Label)
}

func TestCIT_LossMakingClampsToZero(t *testing.T) {
	r := rules.BaseSnapshot().CIT
	in := domain.TaxInputs{
		Turnover:    ngn("150000000"),
		CostOfSales: ngn("200000000"),
	}

	a := calc.CIT(in, r)

	assert.True(t, a.TaxableIncome.IsZero())
	assert.True(t, a.TotalTaxDue.IsZero())
}

func TestCIT_TurnoverFallsBackToGrossRevenue(t *testing.T) {
	r := rules.BaseSnapshot().CIT
	in := domain.TaxInputs{GrossRevenue: ngn("60000000")}

	a := calc.CIT(in, r)

	assert.Equal(t, "Medium company (20%)", a.Bands[0].Label)
}
