package entity

// VerdictState is the typed outcome of a relevance check. CheckFailed is
// distinct from NotRelevant so the caller can treat classifier failure as
// an explicit fail-open branch rather than an implicit default.
type VerdictState string

const (
	VerdictRelevant    VerdictState = "relevant"
	VerdictNotRelevant VerdictState = "not_relevant"
	VerdictCheckFailed VerdictState = "check_failed"
)

// RelevanceVerdict is the result of classifying one ad against the
// session's search keywords.
type RelevanceVerdict struct {
	State  VerdictState `json:"state"`
	Reason string       `json:"reason"`
}
