// Package template renders outbound message text: name placeholder
// substitution first, then spintax expansion.
package template

import (
	"math/rand"
	"regexp"
	"strings"
)

// spintaxGroup matches a non-nested {a|b|c} group. Unbalanced or nested
// braces do not match and are left as literal text.
var spintaxGroup = regexp.MustCompile(`\{([^{}]+)\}`)

// namePlaceholder is the reserved {N} token, matched case-insensitively.
var namePlaceholder = regexp.MustCompile(`(?i)\{N\}`)

// ExpandSpintax replaces every {a|b|c} group with one alternative chosen
// uniformly at random. An empty input yields an empty output.
func ExpandSpintax(text string) string {
	if text == "" {
		return ""
	}
	return spintaxGroup.ReplaceAllStringFunc(text, func(group string) string {
		parts := strings.Split(group[1:len(group)-1], "|")
		return parts[rand.Intn(len(parts))]
	})
}

// ApplyName substitutes the {N} placeholder with name. Callers that use
// both must apply this before ExpandSpintax so a name may end up inside a
// spintax alternative.
func ApplyName(text, name string) string {
	return namePlaceholder.ReplaceAllLiteralString(text, name)
}
