package routectl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var domainRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*\.)+[a-zA-Z]{2,}$`)

type Verdict int

const (
	VerdictValid Verdict = iota
	// VerdictSoftInvalid means the value failed strict validation but the
	// operator may confirm it anyway.
	VerdictSoftInvalid
	VerdictHardInvalid
)

type FieldResult struct {
	Field   string
	Verdict Verdict
	Reason  string
}

func (r FieldResult) Err() error {
	if r.Verdict == VerdictValid {
		return nil
	}
	return newError(KindValidation, "%s: %s", r.Field, r.Reason)
}

// ValidateDomain applies a conservative hostname grammar: dot-separated
// labels of alphanumerics and hyphens with a 2+ character TLD. A grammar
// miss is soft (the operator can override); an empty domain is hard because
// no side effect may ever run without one.
func ValidateDomain(raw string) FieldResult {
	domain := strings.TrimSpace(raw)
	if domain == "" {
		return FieldResult{Field: "domain", Verdict: VerdictHardInvalid, Reason: "domain must not be empty"}
	}
	if !domainRegex.MatchString(domain) {
		return FieldResult{
			Field:   "domain",
			Verdict: VerdictSoftInvalid,
			Reason:  fmt.Sprintf("%q does not look like a valid hostname", domain),
		}
	}
	return FieldResult{Field: "domain"}
}

// ValidatePort is a hard check with no operator override.
func ValidatePort(raw string) (int, FieldResult) {
	s := strings.TrimSpace(raw)
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, FieldResult{Field: "port", Verdict: VerdictHardInvalid, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	if port < 1 || port > 65535 {
		return 0, FieldResult{Field: "port", Verdict: VerdictHardInvalid, Reason: fmt.Sprintf("%d is outside 1-65535", port)}
	}
	return port, FieldResult{Field: "port"}
}

func ValidateProtocol(raw string) (Protocol, FieldResult) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "http":
		return ProtocolHTTP, FieldResult{Field: "protocol"}
	case "https":
		return ProtocolHTTPS, FieldResult{Field: "protocol"}
	default:
		return "", FieldResult{Field: "protocol", Verdict: VerdictHardInvalid, Reason: fmt.Sprintf("%q must be http or https", raw)}
	}
}

// ParseBoolAnswer treats anything that is not an explicit yes as no.
func ParseBoolAnswer(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}
