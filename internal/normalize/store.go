// Package normalize turns raw merchant names into canonical display forms by
// stripping legal-entity suffixes and locale noise.
package normalize

import (
	"regexp"
	"strings"

	"github.com/blocekhq/blocek/internal/model"
)

// suffixPatterns are applied in order, each removing one legal-suffix or
// locale token. Later patterns see partially cleaned text, so the sequence
// is fixed for determinism even though the patterns rarely overlap.
var suffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i),?\s*s\.r\.o\.?`),
	regexp.MustCompile(`(?i),?\s*v\.o\.s\.?`),
	regexp.MustCompile(`(?i),?\s*a\.s\.?`),
	regexp.MustCompile(`(?i),?\s*spol\.\s*s\s*r\.o\.?`),
	regexp.MustCompile(`(?i),?\s*Slovenská republika`),
	regexp.MustCompile(`(?i),?\s*Slovakia`),
	regexp.MustCompile(`(?i),?\s*SR`),
	regexp.MustCompile(`(?i),?\s*Inc\.?`),
	regexp.MustCompile(`(?i),?\s*Ltd\.?`),
	regexp.MustCompile(`(?i),?\s*GmbH`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// StoreName normalizes a raw merchant name into its canonical form. Missing
// names normalize to model.Unknown. The function is pure and
// idempotent: normalizing an already-normalized name is a no-op.
func StoreName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return model.Unknown
	}

	for _, p := range suffixPatterns {
		name = p.ReplaceAllString(name, "")
	}

	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	name = strings.TrimSpace(strings.TrimRight(name, ","))

	if name == "" {
		return model.Unknown
	}
	return name
}

// Lines annotates each receipt line with its normalized store name,
// preserving input order.
func Lines(lines []model.ReceiptLine) []model.AnnotatedLine {
	out := make([]model.AnnotatedLine, len(lines))
	for i, l := range lines {
		out[i] = model.AnnotatedLine{
			ReceiptLine:     l,
			NormalizedStore: StoreName(l.StoreRawName),
		}
	}
	return out
}
