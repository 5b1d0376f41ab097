package dropingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reason explains why a candidate was rejected.
type Reason string

const (
	ReasonInvalidFormat Reason = "InvalidFormat"
	ReasonEmpty         Reason = "Empty"
	ReasonNotFileLike   Reason = "NotFileLike"
)

// Label is the human readable form used in feedback.
func (r Reason) Label() string {
	switch r {
	case ReasonInvalidFormat:
		return "invalid format"
	case ReasonEmpty:
		return "empty path"
	case ReasonNotFileLike:
		return "not a file path"
	default:
		return string(r)
	}
}

// Validation is the verdict for one candidate.
type Validation struct {
	Path   string
	Valid  bool
	Reason Reason
}

// shortValueLimit is the length under which a dotted value is accepted even
// when it contains whitespace and no separator.
const shortValueLimit = 100

// Validate classifies each candidate. Acceptance is deliberately loose: the
// controller performs the authoritative existence check.
func Validate(candidates []Candidate) []Validation {
	results := make([]Validation, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, validateOne(c.Raw))
	}
	return results
}

func validateOne(raw any) Validation {
	s, ok := raw.(string)
	if !ok || s == "" {
		return Validation{Reason: ReasonInvalidFormat}
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Validation{Reason: ReasonEmpty}
	}
	if looksLikeFile(trimmed) {
		return Validation{Path: trimmed, Valid: true}
	}
	return Validation{Path: trimmed, Reason: ReasonNotFileLike}
}

func looksLikeFile(s string) bool {
	if !strings.Contains(s, ".") {
		return false
	}
	return containsSeparator(s) || !strings.ContainsFunc(s, unicode.IsSpace) || utf8.RuneCountInString(s) < shortValueLimit
}
