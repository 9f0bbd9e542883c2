// Package phone canonicalizes recipient identifiers. The canonical form is
// the single source of truth for recipient identity: any two spellings of
// the same number must normalize to the same string.
package phone

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// Normalizer rewrites local numbers to international form. The zero value
// is unusable; use New or fill both fields.
type Normalizer struct {
	CountryCode string
	TrunkPrefix string
}

// New returns a Normalizer with the given country code and trunk prefix,
// falling back to Indonesian defaults ("62", "0") when empty.
func New(countryCode, trunkPrefix string) Normalizer {
	if countryCode == "" {
		countryCode = "62"
	}
	if trunkPrefix == "" {
		trunkPrefix = "0"
	}
	return Normalizer{CountryCode: countryCode, TrunkPrefix: trunkPrefix}
}

// Normalize strips every non-digit character, then rewrites a leading trunk
// prefix to the country code. Already-international numbers pass through
// unchanged.
func (n Normalizer) Normalize(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	if n.TrunkPrefix != "" && strings.HasPrefix(digits, n.TrunkPrefix) {
		return n.CountryCode + digits[len(n.TrunkPrefix):]
	}
	return digits
}

// Digits strips every non-digit character without trunk rewriting. Used to
// decide whether a raw recipient entry carries a number at all.
func Digits(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}
