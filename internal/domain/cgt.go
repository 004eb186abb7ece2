package domain

import "github.com/shopspring/decimal"

// CGTDisposal is one asset disposal. No indexation or cost-base
// adjustments apply; gain is simply proceeds minus cost.
type CGTDisposal struct {
	Description      string          `json:"description,omitempty"`
	AcquisitionCost  decimal.Decimal `json:"acquisitionCost"`
	DisposalProceeds decimal.Decimal `json:"disposalProceeds"`
}

// CGTItemResult is the per-disposal breakdown.
type CGTItemResult struct {
	Description string          `json:"description,omitempty"`
	Gain        decimal.Decimal `json:"gain"`
	Tax         decimal.Decimal `json:"tax"`
}

// CGTResult aggregates a batch of disposals. TotalGain sums raw gains so
// losses offset within the batch; TotalCGT sums only non-negative
// per-item tax, so a loss never produces negative tax.
type CGTResult struct {
	Items     []CGTItemResult `json:"items"`
	TotalGain decimal.Decimal `json:"totalGain"`
	TotalCGT  decimal.Decimal `json:"totalCGT"`
	Rules     RuleMeta        `json:"rules"`
}
