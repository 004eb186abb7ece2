package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/rules"
	"github.com/taxpadi/taxpadi-engine-go/internal/service"

	"go.uber.org/zap"
)

func newTestComplianceService() *service.ComplianceService {
	return service.NewComplianceService(rules.NewRegistry(zap.NewNop()), zap.NewNop())
}

func checkByRule(checks []domain.ComplianceCheck, rule string) (domain.ComplianceCheck, bool) {
	for _, c := range checks {
		if c.Rule == rule {
			return c, true
		}
	}
	return domain.ComplianceCheck{}, false
}

func TestComplianceCheck_NilProfile(t *testing.T) {
	svc := newTestComplianceService()

	_, err := svc.Check(context.Background(), nil, nil)

	var verr *domain.ErrValidation
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Profile is required", verr.Message)
}

func TestComplianceCheck_VATRegistrationRequired(t *testing.T) {
	svc := newTestComplianceService()
	profile := freelancerProfile()

	checks, err := svc.Check(context.Background(), profile, map[string]any{
		"grossRevenue": float64(30000000),
	})

	require.NoError(t, err)
	vat, ok := checkByRule(checks, "vat_registration")
	require.True(t, ok)
	assert.False(t, vat.Passed)
	assert.Equal(t, domain.SeverityActionRequired, vat.Severity)
}

func TestComplianceCheck_VATBelowThresholdPasses(t *testing.T) {
	svc := newTestComplianceService()

	checks, err := svc.Check(context.Background(), freelancerProfile(), map[string]any{
		"grossRevenue": float64(10000000),
	})

	require.NoError(t, err)
	vat, ok := checkByRule(checks, "vat_registration")
	require.True(t, ok)
	assert.True(t, vat.Passed)
	assert.Equal(t, domain.SeverityInfo, vat.Severity)
}

func TestComplianceCheck_CompanyOnlyRules(t *testing.T) {
	svc := newTestComplianceService()

	// Freelancers never see company-only checks.
	checks, err := svc.Check(context.Background(), freelancerProfile(), nil)
	require.NoError(t, err)
	_, ok := checkByRule(checks, "audited_accounts")
	assert.False(t, ok)
	_, ok = checkByRule(checks, "registered_business_name")
	assert.False(t, ok)

	// Large company above the audit threshold.
	checks, err = svc.Check(context.Background(), companyProfile(), map[string]any{
		"turnover": float64(150000000),
	})
	require.NoError(t, err)
	audit, ok := checkByRule(checks, "audited_accounts")
	require.True(t, ok)
	assert.False(t, audit.Passed)
	assert.Equal(t, domain.SeverityWarning, audit.Severity)
}

func TestComplianceCheck_MissingBusinessName(t *testing.T) {
	svc := newTestComplianceService()
	profile := companyProfile()
	profile.BusinessName = ""

	checks, err := svc.Check(context.Background(), profile, nil)

	require.NoError(t, err)
	name, ok := checkByRule(checks, "registered_business_name")
	require.True(t, ok)
	assert.False(t, name.Passed)
}

func TestComplianceCheck_UndocumentedWHTCredits(t *testing.T) {
	svc := newTestComplianceService()

	checks, err := svc.Check(context.Background(), freelancerProfile(), map[string]any{
		"withholdingTaxCredits": float64(50000),
	})

	require.NoError(t, err)
	wht, ok := checkByRule(checks, "wht_certificates")
	require.True(t, ok)
	assert.False(t, wht.Passed)

	// With certificates on file the check passes.
	checks, err = svc.Check(context.Background(), freelancerProfile(), map[string]any{
		"withholdingTaxCredits": float64(50000),
		"withholdingCertificates": []any{
			map[string]any{"payer": "Acme Ltd", "amount": float64(50000)},
		},
	})
	require.NoError(t, err)
	wht, ok = checkByRule(checks, "wht_certificates")
	require.True(t, ok)
	assert.True(t, wht.Passed)
}
