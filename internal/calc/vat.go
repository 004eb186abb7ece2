package calc

import (
	"github.com/shopspring/decimal"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// VAT computes the net VAT position, or nil when the taxpayer is not
// VAT-registered — the block is absent from the result, not zeroed.
//
// Input VAT prefers the explicitly declared inputVATPaid (present even
// when zero), then falls back to VAT on taxable purchases. The net
// figure may be negative: that is a refund/credit position and is never
// clamped.
func VAT(profile *domain.TaxpayerProfile, in domain.TaxInputs, r domain.VATRules) *domain.VATBlock {
	if !profile.IsVATRegistered {
		return nil
	}

	output := money(in.GrossRevenue.Mul(r.Rate))

	input := decimal.Zero
	switch {
	case in.HasInputVATPaid:
		input = money(in.InputVATPaid)
	case in.VATTaxablePurchases.IsPositive():
		input = money(in.VATTaxablePurchases.Mul(r.Rate))
	}

	net := output.Sub(input)

	return &domain.VATBlock{
		VATRate:       r.Rate,
		OutputVAT:     output,
		InputVAT:      input,
		NetVATPayable: net,
		RefundDue:     net.IsNegative(),
	}
}
