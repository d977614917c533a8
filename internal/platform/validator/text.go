package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxReasonLength caps free-text reasons stored with audit entries.
const MaxReasonLength = 500

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeReason strips markup from a free-text reason, trims it and caps
// its length in runes.
func SanitizeReason(reason string) string {
	clean := strings.TrimSpace(strictPolicy.Sanitize(reason))
	if utf8.RuneCountInString(clean) <= MaxReasonLength {
		return clean
	}
	runes := []rune(clean)
	return strings.TrimSpace(string(runes[:MaxReasonLength]))
}
