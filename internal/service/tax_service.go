// Package service composes the pure calculators, the rule registry and
// the supporting infra into the operations the HTTP layer exposes.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taxpadi/taxpadi-engine-go/internal/calc"
	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/observability"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/resilience"
	"github.com/taxpadi/taxpadi-engine-go/internal/rules"
	"github.com/taxpadi/taxpadi-engine-go/internal/sanitize"
)

var tracer = otel.Tracer("service/tax")

// ResultCache caches computed results keyed by request digest + snapshot
// version. Safe because computation is deterministic per (inputs, version).
type ResultCache interface {
	Get(key string) (*domain.TaxResult, bool)
	Set(key string, value *domain.TaxResult)
}

// TaxService orchestrates one-way data flow: sanitized input + active
// rule snapshot → per-regime calculators → composed TaxResult.
type TaxService struct {
	registry *rules.Registry
	cache    ResultCache
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewTaxService creates the tax computation service.
func NewTaxService(
	registry *rules.Registry,
	cache ResultCache,
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *TaxService {
	return &TaxService{
		registry: registry,
		cache:    cache,
		bulkhead: bulkhead,
		metrics:  metrics,
		logger:   logger,
	}
}

// Calculate runs a full assessment for one taxpayer. The raw inputs map
// is sanitized here so every caller passes through the same clamping
// boundary. Unexpected panics in the composition are caught and mapped
// to an opaque error; internals are logged, never returned.
func (s *TaxService) Calculate(ctx context.Context, profile *domain.TaxpayerProfile, rawInputs map[string]any) (result *domain.TaxResult, err error) {
	ctx, span := tracer.Start(ctx, "TaxService.Calculate")
	defer span.End()

	if profile == nil {
		return nil, &domain.ErrValidation{Field: "profile", Message: "Profile is required"}
	}

	sanitize.Profile(profile, time.Now().Year())
	if profile.FullName == "" {
		return nil, &domain.ErrValidation{Field: "profile.fullName", Message: "fullName must not be empty"}
	}
	inputs := sanitize.TaxInputs(rawInputs)

	snapshot := s.registry.Snapshot()
	regime := string(profile.TaxpayerType)
	span.SetAttributes(
		attribute.String("tax.regime", regime),
		attribute.String("rules.version", snapshot.Meta.Version),
	)

	key := cacheKey(profile, inputs, snapshot.Meta.Version)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("results")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("results")

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.bulkhead.Release()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		s.metrics.RecordComputation(regime, status, time.Since(start))
	}()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tax computation panicked",
				zap.String("regime", regime),
				zap.Any("panic", r),
			)
			result = nil
			err = fmt.Errorf("tax computation failed")
		}
	}()

	result, err = s.compose(ctx, profile, inputs, snapshot)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, result)
	return result, nil
}

// compose fans the independent calculators out and assembles the result.
// Each calculator is pure, so concurrent evaluation needs no locking.
func (s *TaxService) compose(ctx context.Context, profile *domain.TaxpayerProfile, inputs domain.TaxInputs, snapshot *domain.RuleSnapshot) (*domain.TaxResult, error) {
	var (
		assessment calc.Assessment
		vat        *domain.VATBlock
		tet        *domain.LevyLine
		levies     []domain.LevyLine
	)

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		if profile.IsCompany() {
			assessment = calc.CIT(inputs, snapshot.CIT)
		} else {
			assessment = calc.PIT(inputs, snapshot.PIT)
		}
		return nil
	})

	g.Go(func() error {
		vat = calc.VAT(profile, inputs, snapshot.VAT)
		return nil
	})

	if profile.IsCompany() {
		g.Go(func() error {
			line := calc.TET(inputs, snapshot.TET)
			tet = &line
			levies = calc.Levies(inputs, snapshot.Levies)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.TaxResult{
		TaxpayerType:  profile.TaxpayerType,
		TaxYear:       profile.TaxYear,
		Currency:      profile.Currency,
		TaxableIncome: assessment.TaxableIncome,
		TotalTaxDue:   assessment.TotalTaxDue,
		EffectiveRate: assessment.EffectiveRate,
		Bands:         assessment.Bands,
		VAT:           vat,
		EducationTax:  tet,
		Levies:        levies,
		Notes:         append([]string{}, assessment.Notes...),
		Rules:         snapshot.Meta,
	}

	if vat != nil && vat.RefundDue {
		result.Notes = append(result.Notes, fmt.Sprintf(
			"VAT credit position: input VAT exceeds output VAT by ₦%s; a refund or carry-forward credit applies.",
			vat.NetVATPayable.Neg().StringFixed(2),
		))
	}
	if inputs.WithholdingTaxCredits.IsPositive() {
		result.Notes = append(result.Notes, fmt.Sprintf(
			"WHT credits of ₦%s are available to offset the final liability; attach the withholding certificates when filing.",
			inputs.WithholdingTaxCredits.StringFixed(2),
		))
	}

	return result, nil
}

// WithholdingRates returns the active WHT rate table.
func (s *TaxService) WithholdingRates() []domain.WHTRateRow {
	return s.registry.Snapshot().WHT.Rates
}

// CalculateWHT validates a loosely-typed payment batch field by field,
// then computes withholding against the active table. Unlike the
// clamping sanitizer, malformed WHT items are rejected outright: a
// silently zeroed payment would corrupt the audit trail.
func (s *TaxService) CalculateWHT(ctx context.Context, rawPayments []map[string]any) (*domain.WHTResult, error) {
	_, span := tracer.Start(ctx, "TaxService.CalculateWHT")
	defer span.End()

	if len(rawPayments) == 0 {
		return nil, &domain.ErrValidation{Field: "payments", Message: "at least one payment is required"}
	}

	payments := make([]domain.WHTPayment, 0, len(rawPayments))
	for i, raw := range rawPayments {
		paymentType := sanitize.Text(raw["paymentType"], "")
		if paymentType == "" {
			return nil, &domain.ErrValidation{
				Field:   fmt.Sprintf("payments[%d].paymentType", i),
				Message: "paymentType is required",
			}
		}
		amount, ok := sanitize.StrictAmount(raw["amount"])
		if !ok {
			return nil, &domain.ErrValidation{
				Field:   fmt.Sprintf("payments[%d].amount", i),
				Message: "amount must be a non-negative number",
			}
		}
		isResident, ok := raw["isResident"].(bool)
		if !ok {
			return nil, &domain.ErrValidation{
				Field:   fmt.Sprintf("payments[%d].isResident", i),
				Message: "isResident must be a boolean",
			}
		}
		payments = append(payments, domain.WHTPayment{
			PaymentType: paymentType,
			Amount:      amount,
			IsResident:  isResident,
		})
	}

	snapshot := s.registry.Snapshot()
	return calc.WHT(payments, snapshot.WHT, snapshot.Meta)
}

// CalculateCGT computes capital gains tax for a batch of disposals.
// Negative costs or proceeds are clamped to zero like every other
// numeric input.
func (s *TaxService) CalculateCGT(ctx context.Context, disposals []domain.CGTDisposal) (*domain.CGTResult, error) {
	_, span := tracer.Start(ctx, "TaxService.CalculateCGT")
	defer span.End()

	if len(disposals) == 0 {
		return nil, &domain.ErrValidation{Field: "disposals", Message: "at least one disposal is required"}
	}

	cleaned := make([]domain.CGTDisposal, 0, len(disposals))
	for _, d := range disposals {
		cleaned = append(cleaned, domain.CGTDisposal{
			Description:      d.Description,
			AcquisitionCost:  sanitize.Amount(d.AcquisitionCost),
			DisposalProceeds: sanitize.Amount(d.DisposalProceeds),
		})
	}

	snapshot := s.registry.Snapshot()
	result := calc.CGT(cleaned, snapshot.CGT, snapshot.Meta)
	return &result, nil
}

// cacheKey digests the sanitized request plus the snapshot version.
func cacheKey(profile *domain.TaxpayerProfile, inputs domain.TaxInputs, version string) string {
	payload, _ := json.Marshal(struct {
		Profile *domain.TaxpayerProfile `json:"profile"`
		Inputs  domain.TaxInputs        `json:"inputs"`
		Version string                  `json:"version"`
	}{profile, inputs, version})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
