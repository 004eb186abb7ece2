package domain

// ComplianceSeverity grades how urgently a failed check needs attention.
type ComplianceSeverity string

const (
	SeverityInfo           ComplianceSeverity = "info"
	SeverityWarning        ComplianceSeverity = "warning"
	SeverityActionRequired ComplianceSeverity = "action_required"
)

// ComplianceCheck is the outcome of one independent predicate rule
// evaluated against profile and inputs.
type ComplianceCheck struct {
	Rule     string             `json:"rule"`
	Passed   bool               `json:"passed"`
	Severity ComplianceSeverity `json:"severity"`
	Message  string             `json:"message"`
}
