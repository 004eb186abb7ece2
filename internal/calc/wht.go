package calc

import (
	"fmt"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// WHT computes withholding per payment and the batch totals. The rate is
// a pure function of (paymentType, isResident). An unknown payment type
// is a validation error, never a silent zero-rate default.
func WHT(payments []domain.WHTPayment, r domain.WHTRules, meta domain.RuleMeta) (*domain.WHTResult, error) {
	result := &domain.WHTResult{
		Items: make([]domain.WHTItemResult, 0, len(payments)),
		Rules: meta,
	}

	for i, p := range payments {
		row, ok := r.Rate(p.PaymentType)
		if !ok {
			return nil, &domain.ErrValidation{
				Field:   fmt.Sprintf("payments[%d].paymentType", i),
				Message: fmt.Sprintf("unknown payment type %q", p.PaymentType),
			}
		}
		if p.Amount.IsNegative() {
			return nil, &domain.ErrValidation{
				Field:   fmt.Sprintf("payments[%d].amount", i),
				Message: "amount must be non-negative",
			}
		}

		rate := row.ResidentRate
		if !p.IsResident {
			rate = row.NonResidentRate
		}

		whtAmount := money(p.Amount.Mul(rate))
		item := domain.WHTItemResult{
			PaymentType: p.PaymentType,
			Description: row.Description,
			Amount:      money(p.Amount),
			IsResident:  p.IsResident,
			Rate:        rate,
			WHTAmount:   whtAmount,
			NetAmount:   money(p.Amount).Sub(whtAmount),
		}
		result.Items = append(result.Items, item)

		result.TotalGrossAmount = result.TotalGrossAmount.Add(item.Amount)
		result.TotalWHTDeducted = result.TotalWHTDeducted.Add(item.WHTAmount)
		result.TotalNetAmount = result.TotalNetAmount.Add(item.NetAmount)
	}

	return result, nil
}
