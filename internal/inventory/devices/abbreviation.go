package devices

import (
	"regexp"
	"strings"
	"unicode"

	custom_error "sklad/pkg/errors"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Abbreviations become column names on the parts table, so the alphabet is
// closed: ASCII-folded, uppercase, underscores for spaces, at most 8 runes.
var abbreviationPattern = regexp.MustCompile(`^[A-Z0-9_]{1,8}$`)

// NormalizeAbbreviation folds diacritics to ASCII, uppercases and replaces
// spaces with underscores. Anything that does not survive the fold into the
// closed alphabet is rejected.
func NormalizeAbbreviation(raw string) (string, error) {
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, raw)
	if err != nil {
		return "", custom_error.NewValidationError("abbreviation", "cannot be normalized")
	}

	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(folded), " ", "_"))

	if normalized == "" {
		return "", custom_error.NewValidationError("abbreviation", "is mandatory")
	}
	if len(normalized) > 8 {
		return "", custom_error.NewValidationError("abbreviation", "must be at most 8 characters after normalization")
	}
	if !abbreviationPattern.MatchString(normalized) {
		return "", custom_error.NewValidationError("abbreviation", "must normalize to letters, digits and underscores")
	}

	return normalized, nil
}
