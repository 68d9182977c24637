package ratings

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize turns a raw text blob pulled from the ratings view into trimmed,
// non-empty lines with internal whitespace collapsed to single spaces.
// Combining marks are stripped so decorated page text still matches the plain
// label patterns. Normalizing an already normalized blob is a no-op.
func Normalize(blob string) []string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, blob)
	if err != nil {
		folded = blob
	}

	lines := make([]string, 0)
	for _, line := range strings.Split(folded, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, strings.Join(fields, " "))
	}

	return lines
}
