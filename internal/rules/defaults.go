// Package rules holds the rule registry: the canonical parameter tables
// for every tax regime, published as immutable snapshots that can be
// atomically replaced by merging a versioned override document.
package rules

import (
	"github.com/shopspring/decimal"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// BaseVersion identifies the built-in parameter set.
const BaseVersion = "base-2024"

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// BaseSnapshot returns the built-in parameter tables: PITA progressive
// bands, Finance Act CIT tiers, 7.5% VAT, the FIRS withholding table,
// 10% CGT, 3% TET and the statutory levy formulas.
func BaseSnapshot() *domain.RuleSnapshot {
	return &domain.RuleSnapshot{
		Meta: domain.RuleMeta{
			Version:       BaseVersion,
			Source:        "built-in",
			EffectiveDate: "2024-01-01",
		},
		PIT: domain.PITRules{
			Bands: []domain.PITBand{
				{Label: "First ₦300,000", Width: d("300000"), Rate: d("0.07")},
				{Label: "Next ₦300,000", Width: d("300000"), Rate: d("0.11")},
				{Label: "Next ₦500,000", Width: d("500000"), Rate: d("0.15")},
				{Label: "Next ₦500,000", Width: d("500000"), Rate: d("0.19")},
				{Label: "Next ₦1,600,000", Width: d("1600000"), Rate: d("0.21")},
				{Label: "Above ₦3,200,000", Width: decimal.Zero, Rate: d("0.24")},
			},
			CRAFixedMinimum:    d("200000"),
			CRAGrossFraction:   d("0.01"),
			CRAGeneralFraction: d("0.20"),
			MinimumTaxRate:     d("0.01"),
		},
		CIT: domain.CITRules{
			SmallCompanyThreshold:  d("25000000"),
			MediumCompanyThreshold: d("100000000"),
			SmallRate:              decimal.Zero,
			MediumRate:             d("0.20"),
			StandardRate:           d("0.30"),
		},
		VAT: domain.VATRules{
			Rate:                  d("0.075"),
			RegistrationThreshold: d("25000000"),
		},
		WHT: domain.WHTRules{
			Rates: []domain.WHTRateRow{
				{PaymentType: "dividend", Description: "Dividends", ResidentRate: d("0.10"), NonResidentRate: d("0.10")},
				{PaymentType: "interest", Description: "Interest", ResidentRate: d("0.10"), NonResidentRate: d("0.10")},
				{PaymentType: "rent", Description: "Rent (land, buildings, equipment)", ResidentRate: d("0.10"), NonResidentRate: d("0.10")},
				{PaymentType: "royalty", Description: "Royalties", ResidentRate: d("0.10"), NonResidentRate: d("0.15")},
				{PaymentType: "commission", Description: "Commission", ResidentRate: d("0.10"), NonResidentRate: d("0.10")},
				{PaymentType: "consulting", Description: "Consultancy fees", ResidentRate: d("0.10"), NonResidentRate: d("0.10")},
				{PaymentType: "technical", Description: "Technical service fees", ResidentRate: d("0.10"), NonResidentRate: d("0.10")},
				{PaymentType: "management", Description: "Management fees", ResidentRate: d("0.10"), NonResidentRate: d("0.10")},
				{PaymentType: "construction", Description: "Building and construction", ResidentRate: d("0.05"), NonResidentRate: d("0.05")},
				{PaymentType: "contract", Description: "Contracts of supply", ResidentRate: d("0.05"), NonResidentRate: d("0.05")},
				{PaymentType: "directorFee", Description: "Director fees", ResidentRate: d("0.10"), NonResidentRate: d("0.10")},
			},
		},
		CGT: domain.CGTRules{Rate: d("0.10")},
		TET: domain.TETRules{
			Rate:              d("0.03"),
			TurnoverThreshold: d("25000000"),
		},
		Levies: domain.LevyRules{
			NASENIRate:       d("0.0025"),
			NASENISectors:    []string{"banking", "telecom", "ict", "aviation", "maritime", "oilgas"},
			NSITFRate:        d("0.01"),
			ITFRate:          d("0.01"),
			ITFMinEmployees:  5,
			ITFTurnoverFloor: d("50000000"),
			PoliceFundRate:   d("0.00005"),
			AuditThreshold:   d("120000000"),
		},
	}
}
