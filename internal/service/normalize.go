package service

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeText folds full-width forms (ＶＳ, ２０２５) to their ASCII
// equivalents.
func normalizeText(s string) string {
	return norm.NFKC.String(s)
}

// normalizeName folds a name for comparison: NFKC, no ASCII or ideographic
// spaces, no surrounding quotes.
func normalizeName(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "　", "", "\t", "").Replace(s)
	return strings.Trim(s, `"'「」『』`)
}
