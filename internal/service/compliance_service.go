package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/rules"
	"github.com/taxpadi/taxpadi-engine-go/internal/sanitize"
)

var complianceTracer = otel.Tracer("service/compliance")

// complianceRule is one independent predicate evaluated against profile
// and sanitized inputs. Rules never see each other's output.
type complianceRule func(p *domain.TaxpayerProfile, in domain.TaxInputs, s *domain.RuleSnapshot) *domain.ComplianceCheck

// ComplianceService evaluates the statutory compliance checklist.
type ComplianceService struct {
	registry *rules.Registry
	logger   *zap.Logger
	rules    []complianceRule
}

// NewComplianceService creates the compliance checker with its fixed
// rule set. Evaluation order is stable.
func NewComplianceService(registry *rules.Registry, logger *zap.Logger) *ComplianceService {
	return &ComplianceService{
		registry: registry,
		logger:   logger,
		rules: []complianceRule{
			vatRegistrationRule,
			auditRequirementRule,
			tetApplicabilityRule,
			whtCertificateRule,
			businessNameRule,
		},
	}
}

// Check sanitizes the inputs and runs every rule in order.
func (s *ComplianceService) Check(ctx context.Context, profile *domain.TaxpayerProfile, rawInputs map[string]any) ([]domain.ComplianceCheck, error) {
	_, span := complianceTracer.Start(ctx, "ComplianceService.Check")
	defer span.End()

	if profile == nil {
		return nil, &domain.ErrValidation{Field: "profile", Message: "Profile is required"}
	}
	sanitize.Profile(profile, 0)
	inputs := sanitize.TaxInputs(rawInputs)
	snapshot := s.registry.Snapshot()

	checks := make([]domain.ComplianceCheck, 0, len(s.rules))
	for _, rule := range s.rules {
		if c := rule(profile, inputs, snapshot); c != nil {
			checks = append(checks, *c)
		}
	}
	return checks, nil
}

func vatRegistrationRule(p *domain.TaxpayerProfile, in domain.TaxInputs, s *domain.RuleSnapshot) *domain.ComplianceCheck {
	threshold := s.VAT.RegistrationThreshold
	crossed := in.EffectiveTurnover().GreaterThan(threshold)
	check := &domain.ComplianceCheck{Rule: "vat_registration", Passed: true, Severity: domain.SeverityInfo,
		Message: "Revenue is below the VAT registration threshold."}
	if crossed && !p.IsVATRegistered {
		check.Passed = false
		check.Severity = domain.SeverityActionRequired
		check.Message = fmt.Sprintf(
			"Revenue exceeds the ₦%s VAT registration threshold but the taxpayer is not VAT-registered. Registration with FIRS is mandatory.",
			threshold.StringFixed(0))
	} else if crossed {
		check.Message = "Revenue exceeds the VAT registration threshold and the taxpayer is registered."
	}
	return check
}

func auditRequirementRule(p *domain.TaxpayerProfile, in domain.TaxInputs, s *domain.RuleSnapshot) *domain.ComplianceCheck {
	if !p.IsCompany() {
		return nil
	}
	threshold := s.Levies.AuditThreshold
	check := &domain.ComplianceCheck{Rule: "audited_accounts", Passed: true, Severity: domain.SeverityInfo,
		Message: "Turnover is below the audited-accounts threshold."}
	if in.EffectiveTurnover().GreaterThan(threshold) {
		check.Passed = false
		check.Severity = domain.SeverityWarning
		check.Message = fmt.Sprintf(
			"Turnover above ₦%s requires audited financial statements to accompany the CIT filing.",
			threshold.StringFixed(0))
	}
	return check
}

func tetApplicabilityRule(p *domain.TaxpayerProfile, in domain.TaxInputs, s *domain.RuleSnapshot) *domain.ComplianceCheck {
	if !p.IsCompany() {
		return nil
	}
	check := &domain.ComplianceCheck{Rule: "tertiary_education_tax", Passed: true, Severity: domain.SeverityInfo,
		Message: "Tertiary education tax does not apply at this turnover level."}
	if in.EffectiveTurnover().GreaterThan(s.TET.TurnoverThreshold) {
		check.Severity = domain.SeverityWarning
		check.Message = fmt.Sprintf(
			"Tertiary education tax of %s%% on assessable profit applies and is filed alongside CIT.",
			s.TET.Rate.Mul(hundred).String())
	}
	return check
}

func whtCertificateRule(p *domain.TaxpayerProfile, in domain.TaxInputs, _ *domain.RuleSnapshot) *domain.ComplianceCheck {
	if !in.WithholdingTaxCredits.IsPositive() {
		return nil
	}
	check := &domain.ComplianceCheck{Rule: "wht_certificates", Passed: true, Severity: domain.SeverityInfo,
		Message: "Withholding certificates are on file for the claimed WHT credits."}
	if len(in.WithholdingCertificates) == 0 {
		check.Passed = false
		check.Severity = domain.SeverityWarning
		check.Message = "WHT credits are claimed but no withholding certificates were supplied; FIRS will disallow undocumented credits."
	}
	return check
}

func businessNameRule(p *domain.TaxpayerProfile, _ domain.TaxInputs, _ *domain.RuleSnapshot) *domain.ComplianceCheck {
	if !p.IsCompany() {
		return nil
	}
	check := &domain.ComplianceCheck{Rule: "registered_business_name", Passed: true, Severity: domain.SeverityInfo,
		Message: "A registered business name is on record."}
	if p.BusinessName == "" {
		check.Passed = false
		check.Severity = domain.SeverityWarning
		check.Message = "Company filings require the CAC-registered business name; none was supplied."
	}
	return check
}
