package validate

import "strings"

// Reason identifies why a line was rejected. The set is closed so callers
// can branch on the failure kind.
type Reason string

const (
	ReasonProtocolOrPath    Reason = "protocol_or_path"
	ReasonEmptyLabel        Reason = "empty_label"
	ReasonBadTLD            Reason = "bad_tld"
	ReasonMalformedWildcard Reason = "malformed_wildcard"
	ReasonTooLong           Reason = "too_long"
)

// Outcome is the classification of a single input line.
type Outcome int

const (
	// Skipped means the line was blank and should not be counted at all.
	Skipped Outcome = iota
	// Valid means the line is a well-formed domain, wildcard, or service record.
	Valid
	// Invalid means the line was rejected; Reason says why.
	Invalid
)

// Result is the outcome of classifying one input line. Domain holds the
// lowercase-normalized form when Outcome is Valid.
type Result struct {
	Outcome Outcome
	Domain  string
	Reason  Reason
}

const (
	maxDomainLen = 253
	maxLabelLen  = 63
)

// Classify validates a single input line against the domain grammar. It is
// pure and never fails on malformed input; every rejection carries a Reason.
// Accepted forms, alongside plain domains like example.com:
//
//	*.example.com          leading wildcard
//	svc-*.domain.com       wildcard mixed into a label
//	test.*.invalid.com     bare wildcard as an inner label
//	_collab-edge.d.com     SRV-style underscore label
//
// Classifying the Domain of a Valid result yields the same result again.
func Classify(line string) Result {
	s := strings.TrimSpace(line)
	if s == "" {
		return Result{Outcome: Skipped}
	}

	// URLs and paths are not domains. A single check on "/" covers both
	// scheme markers and path separators.
	if strings.Contains(s, "/") {
		return invalid(ReasonProtocolOrPath)
	}

	if len(s) > maxDomainLen {
		return invalid(ReasonTooLong)
	}

	s = strings.ToLower(s)
	labels := strings.Split(s, ".")

	// A bare TLD is not a domain, and a lone wildcard label has no TLD
	// to follow it.
	if len(labels) < 2 {
		if strings.Contains(s, "*") {
			return invalid(ReasonMalformedWildcard)
		}
		return invalid(ReasonBadTLD)
	}

	if r := checkTLD(labels[len(labels)-1]); r != "" {
		return invalid(r)
	}

	for i, label := range labels[:len(labels)-1] {
		if r := checkLabel(label, i == 0); r != "" {
			return invalid(r)
		}
	}

	return Result{Outcome: Valid, Domain: s}
}

func invalid(r Reason) Result {
	return Result{Outcome: Invalid, Reason: r}
}

// checkTLD validates the final label: alphabetic, at least two characters,
// no wildcard or underscore. Returns "" when valid.
func checkTLD(label string) Reason {
	if strings.Contains(label, "*") {
		// Covers trailing wildcards like svc-* which have no TLD at all.
		return ReasonMalformedWildcard
	}
	if len(label) < 2 {
		if label == "" {
			return ReasonEmptyLabel
		}
		return ReasonBadTLD
	}
	for _, c := range label {
		if c < 'a' || c > 'z' {
			return ReasonBadTLD
		}
	}
	return ""
}

// checkLabel validates a non-final label. first marks the leftmost label of
// the domain, where a wildcard glued to literal characters (*abc.com) is
// rejected. Returns "" when valid.
func checkLabel(label string, first bool) Reason {
	if label == "" {
		return ReasonEmptyLabel
	}
	if len(label) > maxLabelLen {
		return ReasonTooLong
	}

	switch {
	case label == "*":
		// Bare wildcard label: *.example.com or test.*.invalid.com.
		return ""

	case strings.Contains(label, "*"):
		// Wildcard mixed with literals: svc-*, rac-*-scan.
		if first && label[0] == '*' {
			return ReasonMalformedWildcard
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return ReasonMalformedWildcard
		}
		for _, c := range label {
			if !isAlnum(c) && c != '-' && c != '*' {
				return ReasonMalformedWildcard
			}
		}
		return ""

	case label[0] == '_':
		// SRV-style service label: _service, _collab-edge.
		for _, c := range label[1:] {
			if !isAlnum(c) && c != '-' {
				return ReasonEmptyLabel
			}
		}
		return ""

	default:
		// Literal label: alphanumeric and hyphen, not hyphen-edged.
		if label[0] == '-' || label[len(label)-1] == '-' {
			return ReasonEmptyLabel
		}
		for _, c := range label {
			if !isAlnum(c) && c != '-' {
				return ReasonEmptyLabel
			}
		}
		return ""
	}
}

func isAlnum(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
