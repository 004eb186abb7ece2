package domain

import "github.com/shopspring/decimal"

// WHTPayment is one payment subject to withholding.
type WHTPayment struct {
	PaymentType string          `json:"paymentType"`
	Amount      decimal.Decimal `json:"amount"`
	IsResident  bool            `json:"isResident"`
}

// WHTItemResult is the per-payment breakdown kept for audit display.
type WHTItemResult struct {
	PaymentType string          `json:"paymentType"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IsResident  bool            `json:"isResident"`
	Rate        decimal.Decimal `json:"rate"`
	WHTAmount   decimal.Decimal `json:"whtAmount"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// WHTResult aggregates a batch of payments.
type WHTResult struct {
	Items            []WHTItemResult `json:"items"`
	TotalGrossAmount decimal.Decimal `json:"totalGrossAmount"`
	TotalWHTDeducted decimal.Decimal `json:"totalWHTDeducted"`
	TotalNetAmount   decimal.Decimal `json:"totalNetAmount"`
	Rules            RuleMeta        `json:"rules"`
}
