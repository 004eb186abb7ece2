// Package domain holds the core types shared across the tax engine:
// taxpayer profiles, financial inputs, rule snapshots and computed results.
package domain

// TaxpayerType distinguishes the two supported regimes.
type TaxpayerType string

const (
	TaxpayerFreelancer TaxpayerType = "freelancer"
	TaxpayerCompany    TaxpayerType = "company"
)

// Currency is fixed; the engine models a single-jurisdiction statutory regime.
const Currency = "NGN"

// DefaultStateOfResidence applies when the caller omits the field.
const DefaultStateOfResidence = "Lagos"

// TaxpayerProfile identifies who is being assessed. Immutable per request.
type TaxpayerProfile struct {
	FullName         string       `json:"fullName"`
	BusinessName     string       `json:"businessName,omitempty"`
	TaxpayerType     TaxpayerType `json:"taxpayerType"`
	TaxYear          int          `json:"taxYear"`
	StateOfResidence string       `json:"stateOfResidence"`
	TIN              string       `json:"tin,omitempty"`
	IsVATRegistered  bool         `json:"isVATRegistered"`
	Currency         string       `json:"currency"`
}

// IsCompany reports whether the profile is assessed under the company regime.
func (p *TaxpayerProfile) IsCompany() bool {
	return p.TaxpayerType == TaxpayerCompany
}
