// Package normalize builds the identity keys used to match store names
// and product codes across the raw feeds. Two raw values represent the
// same logical identity iff their keys are equal; there is no fuzzy
// matching anywhere in the system.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, drops combining marks and recomposes,
// so "Médellín" and "Medellin" produce the same key.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Key produces the canonical matching key for a raw name: accents
// stripped, lower-cased, trimmed, internal whitespace collapsed to
// single spaces. Empty input maps to the empty string. Idempotent.
func Key(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	return strings.Join(strings.Fields(out), " ")
}

// Code upper-cases and trims a product code or brand for set matching.
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
