package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var nameFolder = cases.Fold()

// FoldName canonicalizes a place name for comparison: trimmed, NFC-normalized,
// and Unicode case-folded. Matching on folded names keeps casing and combining
// character differences in author-supplied labels from forking the graph.
func FoldName(name string) string {
	return nameFolder.String(norm.NFC.String(strings.TrimSpace(name)))
}

// SameName reports whether two labels fold to the same canonical form.
func SameName(a, b string) bool {
	return FoldName(a) == FoldName(b)
}
