package calc

import (
	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// CGT computes capital gains tax per disposal: gain is proceeds minus
// cost with no indexation, tax is the flat rate on non-negative gain.
// TotalGain sums raw gains so losses offset within the batch; TotalCGT
// sums only per-item tax, so losses never produce negative tax.
func CGT(disposals []domain.CGTDisposal, r domain.CGTRules, meta domain.RuleMeta) domain.CGTResult {
	result := domain.CGTResult{
		Items: make([]domain.CGTItemResult, 0, len(disposals)),
		Rules: meta,
	}

	for _, d := range disposals {
		gain := money(d.DisposalProceeds.Sub(d.AcquisitionCost))
		tax := money(clampNonNegative(gain).Mul(r.Rate))

		result.Items = append(result.Items, domain.CGTItemResult{
			Description: d.Description,
			Gain:        gain,
			Tax:         tax,
		})
		result.TotalGain = result.TotalGain.Add(gain)
		result.TotalCGT = result.TotalCGT.Add(tax)
	}

	return result
}
