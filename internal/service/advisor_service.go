package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/taxpadi/taxpadi-engine-go/internal/calc"
	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/rules"
	"github.com/taxpadi/taxpadi-engine-go/internal/sanitize"
)

var advisorTracer = otel.Tracer("service/advisor")

var hundred = decimal.NewFromInt(100)

// advisorRule is one independent suggestion predicate. Nil means the
// rule has nothing to say for these inputs.
type advisorRule func(p *domain.TaxpayerProfile, in domain.TaxInputs, res *domain.TaxResult, s *domain.RuleSnapshot) *domain.Suggestion

// AdvisorService derives prioritized, explainable optimization
// suggestions from a computed result and the raw inputs.
type AdvisorService struct {
	registry *rules.Registry
	logger   *zap.Logger
	rules    []advisorRule
}

// NewAdvisorService creates the advisor with its fixed rule set.
// Rule order is the tiebreak within a priority level.
func NewAdvisorService(registry *rules.Registry, logger *zap.Logger) *AdvisorService {
	return &AdvisorService{
		registry: registry,
		logger:   logger,
		rules: []advisorRule{
			vatRegistrationSuggestion,
			expenseDocumentationSuggestion,
			pensionReliefSuggestion,
			capitalAllowanceSuggestion,
			smallCompanySuggestion,
		},
	}
}

// Suggest evaluates every rule and returns suggestions sorted high
// before medium before low; ties preserve rule-evaluation order.
func (s *AdvisorService) Suggest(ctx context.Context, profile *domain.TaxpayerProfile, rawInputs map[string]any, result *domain.TaxResult) ([]domain.Suggestion, error) {
	_, span := advisorTracer.Start(ctx, "AdvisorService.Suggest")
	defer span.End()

	if profile == nil {
		return nil, &domain.ErrValidation{Field: "profile", Message: "Profile is required"}
	}
	if result == nil {
		return nil, &domain.ErrValidation{Field: "result", Message: "A computed tax result is required"}
	}
	sanitize.Profile(profile, 0)
	inputs := sanitize.TaxInputs(rawInputs)
	snapshot := s.registry.Snapshot()

	suggestions := make([]domain.Suggestion, 0, len(s.rules))
	for _, rule := range s.rules {
		if sg := rule(profile, inputs, result, snapshot); sg != nil {
			suggestions = append(suggestions, *sg)
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority.Rank() < suggestions[j].Priority.Rank()
	})
	return suggestions, nil
}

func vatRegistrationSuggestion(p *domain.TaxpayerProfile, in domain.TaxInputs, _ *domain.TaxResult, s *domain.RuleSnapshot) *domain.Suggestion {
	if p.IsVATRegistered {
		return nil
	}
	if in.EffectiveTurnover().LessThanOrEqual(s.VAT.RegistrationThreshold) {
		return nil
	}
	return &domain.Suggestion{
		Type:     "vat_registration",
		Priority: domain.PriorityHigh,
		Message: fmt.Sprintf(
			"Revenue is above the ₦%s VAT threshold but you are not VAT-registered. Register now to avoid penalties and to recover input VAT.",
			s.VAT.RegistrationThreshold.StringFixed(0)),
	}
}

func expenseDocumentationSuggestion(_ *domain.TaxpayerProfile, in domain.TaxInputs, _ *domain.TaxResult, _ *domain.RuleSnapshot) *domain.Suggestion {
	if !in.GrossRevenue.IsPositive() {
		return nil
	}
	expenses := in.AllowableExpenses
	if in.CostOfSales.IsPositive() || in.OperatingExpenses.IsPositive() {
		expenses = in.CostOfSales.Add(in.OperatingExpenses)
	}
	ratio := expenses.DivRound(in.GrossRevenue, 4)
	if ratio.GreaterThanOrEqual(decimal.NewFromFloat(0.10)) {
		return nil
	}
	return &domain.Suggestion{
		Type:     "expense_documentation",
		Priority: domain.PriorityHigh,
		Message: fmt.Sprintf(
			"Claimed expenses are only %s%% of revenue. Most businesses can document far more; review receipts, rent, transport and asset costs — every documented expense reduces taxable income.",
			ratio.Mul(hundred).StringFixed(1)),
	}
}

func pensionReliefSuggestion(p *domain.TaxpayerProfile, in domain.TaxInputs, _ *domain.TaxResult, s *domain.RuleSnapshot) *domain.Suggestion {
	if p.IsCompany() || !in.GrossRevenue.IsPositive() || in.PensionContributions.IsPositive() {
		return nil
	}
	// Potential saving: an 8% voluntary contribution deducted at the
	// marginal band rate the taxpayer's income currently tops out in.
	contribution := in.GrossRevenue.Mul(decimal.NewFromFloat(0.08))
	savings := contribution.Mul(marginalRate(in, s)).Round(2)
	return &domain.Suggestion{
		Type:             "pension_relief",
		Priority:         domain.PriorityMedium,
		Message:          "No pension contributions were claimed. Voluntary contributions to a registered pension fund are fully deductible and reduce taxable income naira for naira.",
		PotentialSavings: &savings,
	}
}

func capitalAllowanceSuggestion(p *domain.TaxpayerProfile, in domain.TaxInputs, _ *domain.TaxResult, _ *domain.RuleSnapshot) *domain.Suggestion {
	if !p.IsCompany() || in.CapitalAllowance.IsPositive() || !in.EffectiveTurnover().IsPositive() {
		return nil
	}
	return &domain.Suggestion{
		Type:     "capital_allowance",
		Priority: domain.PriorityMedium,
		Message:  "No capital allowance was claimed. Plant, machinery, vehicles and equipment attract annual allowances that directly reduce taxable profit; review the fixed-asset register.",
	}
}

func smallCompanySuggestion(p *domain.TaxpayerProfile, in domain.TaxInputs, _ *domain.TaxResult, s *domain.RuleSnapshot) *domain.Suggestion {
	if !p.IsCompany() || !in.EffectiveTurnover().IsPositive() {
		return nil
	}
	if in.EffectiveTurnover().GreaterThan(s.CIT.SmallCompanyThreshold) {
		return nil
	}
	return &domain.Suggestion{
		Type:     "small_company_rate",
		Priority: domain.PriorityLow,
		Message: fmt.Sprintf(
			"Turnover is at or below ₦%s, so the company qualifies for the %s%% small-company CIT rate. Keep turnover records precise around the threshold.",
			s.CIT.SmallCompanyThreshold.StringFixed(0),
			s.CIT.SmallRate.Mul(hundred).String()),
	}
}

// marginalRate finds the band rate the taxpayer's current taxable income
// falls in, defaulting to the bottom band for small incomes.
func marginalRate(in domain.TaxInputs, s *domain.RuleSnapshot) decimal.Decimal {
	taxable := in.GrossRevenue.Sub(calc.ConsolidatedRelief(in.GrossRevenue, s.PIT)).Sub(in.AllowableExpenses)
	if len(s.PIT.Bands) == 0 {
		return decimal.Zero
	}
	rate := s.PIT.Bands[0].Rate
	consumed := decimal.Zero
	for _, band := range s.PIT.Bands {
		rate = band.Rate
		if !band.Width.IsPositive() {
			break
		}
		consumed = consumed.Add(band.Width)
		if taxable.LessThanOrEqual(consumed) {
			break
		}
	}
	return rate
}
