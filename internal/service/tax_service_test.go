package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/cache"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/observability"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/resilience"
	"github.com/taxpadi/taxpadi-engine-go/internal/rules"
	"github.com/taxpadi/taxpadi-engine-go/internal/service"

	"go.uber.org/zap"
)

func newTestTaxService() (*service.TaxService, *rules.Registry) {
	registry := rules.NewRegistry(zap.NewNop())
	return service.NewTaxService(
		registry,
		cache.New[*domain.TaxResult](time.Minute),
		resilience.NewBulkhead(4),
		observability.NewMetrics(),
		zap.NewNop(),
	), registry
}

func freelancerProfile() *domain.TaxpayerProfile {
	return &domain.TaxpayerProfile{
		FullName:     "Adaeze Okafor",
		TaxpayerType: domain.TaxpayerFreelancer,
		TaxYear:      2025,
	}
}

func companyProfile() *domain.TaxpayerProfile {
	return &domain.TaxpayerProfile{
		FullName:        "Chidi Ventures Ltd",
		BusinessName:    "Chidi Ventures Ltd",
		TaxpayerType:    domain.TaxpayerCompany,
		TaxYear:         2025,
		IsVATRegistered: true,
	}
}

func TestCalculate_NilProfile(t *testing.T) {
	svc, _ := newTestTaxService()

	_, err := svc.Calculate(context.Background(), nil, map[string]any{})

	var verr *domain.ErrValidation
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Profile is required", verr.Message)
}

func TestCalculate_EmptyFullName(t *testing.T) {
	svc, _ := newTestTaxService()

	_, err := svc.Calculate(context.Background(), &domain.TaxpayerProfile{FullName: "   "}, nil)

	var verr *domain.ErrValidation
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "profile.fullName", verr.Field)
}

func TestCalculate_Freelancer(t *testing.T) {
	svc, _ := newTestTaxService()

	res, err := svc.Calculate(context.Background(), freelancerProfile(), map[string]any{
		"grossRevenue": float64(5000000),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TaxpayerFreelancer, res.TaxpayerType)
	assert.Equal(t, "NGN", res.Currency)
	assert.Equal(t, "3800000.00", res.TaxableIncome.StringFixed(2))
	assert.Equal(t, "704000.00", res.TotalTaxDue.StringFixed(2))
	assert.Nil(t, res.VAT)
	assert.Nil(t, res.EducationTax)
	assert.Empty(t, res.Levies)
	assert.Equal(t, rules.BaseVersion, res.Rules.Version)
}

func TestCalculate_CompanyFullComposition(t *testing.T) {
	svc, _ := newTestTaxService()

	res, err := svc.Calculate(context.Background(), companyProfile(), map[string]any{
		"turnover":          float64(60000000),
		"costOfSales":       float64(10000000),
		"operatingExpenses": float64(5000000),
		"annualPayroll":     float64(10000000),
		"employeeCount":     float64(10),
		"sector":            "ict",
	})

	require.NoError(t, err)
	assert.Equal(t, "45000000.00", res.TaxableIncome.StringFixed(2))
	assert.Equal(t, "9000000.00", res.TotalTaxDue.StringFixed(2))

	require.NotNil(t, res.VAT)
	// VAT keys off gross revenue, which falls back to zero here: the
	// block is still present for a registered company.
	require.NotNil(t, res.EducationTax)
	assert.True(t, res.EducationTax.Applicable)
	assert.Equal(t, "1350000.00", res.EducationTax.Amount.StringFixed(2))
	require.Len(t, res.Levies, 4)
}

func TestCalculate_Deterministic(t *testing.T) {
	svc, _ := newTestTaxService()
	inputs := map[string]any{"grossRevenue": float64(5000000)}

	first, err := svc.Calculate(context.Background(), freelancerProfile(), inputs)
	require.NoError(t, err)
	second, err := svc.Calculate(context.Background(), freelancerProfile(), inputs)
	require.NoError(t, err)

	// Identical request against the same snapshot is served from cache.
	assert.Same(t, first, second)
}

func TestCalculate_CacheInvalidatedByNewSnapshot(t *testing.T) {
	svc, registry := newTestTaxService()
	inputs := map[string]any{"grossRevenue": float64(5000000)}

	first, err := svc.Calculate(context.Background(), freelancerProfile(), inputs)
	require.NoError(t, err)

	rate := decimal.RequireFromString("0.02")
	_, err = registry.Apply(&domain.OverrideDocument{
		Version: "v2",
		PIT:     &domain.PITOverride{MinimumTaxRate: &rate},
	})
	require.NoError(t, err)

	second, err := svc.Calculate(context.Background(), freelancerProfile(), inputs)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, "v2", second.Rules.Version)
}

func TestCalculate_SanitizesMalformedAmounts(t *testing.T) {
	svc, _ := newTestTaxService()

	res, err := svc.Calculate(context.Background(), freelancerProfile(), map[string]any{
		"grossRevenue":      "₦5,000,000",
		"allowableExpenses": float64(-999999),
	})

	require.NoError(t, err)
	assert.Equal(t, "3800000.00", res.TaxableIncome.StringFixed(2))
}

func TestCalculateWHT_Validation(t *testing.T) {
	svc, _ := newTestTaxService()
	ctx := context.Background()

	_, err := svc.CalculateWHT(ctx, nil)
	var verr *domain.ErrValidation
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "payments", verr.Field)

	_, err = svc.CalculateWHT(ctx, []map[string]any{
		{"amount": float64(1000), "isResident": true},
	})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "payments[0].paymentType", verr.Field)

	_, err = svc.CalculateWHT(ctx, []map[string]any{
		{"paymentType": "rent", "amount": "lots", "isResident": true},
	})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "amount must be a non-negative number", verr.Message)

	_, err = svc.CalculateWHT(ctx, []map[string]any{
		{"paymentType": "rent", "amount": float64(1000), "isResident": "yes"},
	})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "isResident must be a boolean", verr.Message)
}

func TestCalculateWHT_Batch(t *testing.T) {
	svc, _ := newTestTaxService()

	res, err := svc.CalculateWHT(context.Background(), []map[string]any{
		{"paymentType": "rent", "amount": float64(420000), "isResident": true},
	})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "42000.00", res.TotalWHTDeducted.StringFixed(2))
	assert.Equal(t, "378000.00", res.TotalNetAmount.StringFixed(2))
}

func TestCalculateCGT(t *testing.T) {
	svc, _ := newTestTaxService()

	_, err := svc.CalculateCGT(context.Background(), nil)
	var verr *domain.ErrValidation
	require.True(t, errors.As(err, &verr))

	res, err := svc.CalculateCGT(context.Background(), []domain.CGTDisposal{
		{AcquisitionCost: decimal.NewFromInt(1000000), DisposalProceeds: decimal.NewFromInt(1500000)},
	})
	require.NoError(t, err)
	assert.Equal(t, "50000.00", res.TotalCGT.StringFixed(2))
}

func TestWithholdingRates(t *testing.T) {
	svc, _ := newTestTaxService()

	rates := svc.WithholdingRates()

	assert.Len(t, rates, 11)
}
