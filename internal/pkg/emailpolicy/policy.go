// Package emailpolicy decides whether an email address belongs to one of the
// allowed corporate domains.
package emailpolicy

import "strings"

// Normalize trims surrounding whitespace and lower-cases the address.
func Normalize(candidate string) string {
	return strings.ToLower(strings.TrimSpace(candidate))
}

// Accepts reports whether candidate ends with "@"+domain for one of domains.
// Matching is an exact, case-insensitive suffix match: subdomains of an
// allowed domain are not accepted.
func Accepts(candidate string, domains []string) bool {
	email := Normalize(candidate)
	for _, d := range domains {
		d = Normalize(d)
		if d == "" {
			continue
		}
		if strings.HasSuffix(email, "@"+d) {
			return true
		}
	}
	return false
}

// Policy is an allow-list of domains.
type Policy struct {
	domains []string
}

func New(domains []string) Policy {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		if d = Normalize(d); d != "" {
			out = append(out, d)
		}
	}
	return Policy{domains: out}
}

func (p Policy) Accepts(candidate string) bool { return Accepts(candidate, p.domains) }

// Domains returns a copy of the allow-list.
func (p Policy) Domains() []string {
	return append([]string(nil), p.domains...)
}

// String renders the allow-list for user-facing replies.
func (p Policy) String() string { return strings.Join(p.domains, ", ") }
