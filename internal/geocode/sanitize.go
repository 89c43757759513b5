package geocode

import (
	"regexp"
	"strings"
)

var (
	// Street-type prefixes and their abbreviations, Portuguese and English.
	streetPrefix = regexp.MustCompile(`(?i)^\s*(rua|r\.|avenida|av\.?|avn\.?|travessa|tv\.?|alameda|al\.|estrada|est\.|rodovia|rod\.|praça|praca|pç\.|street|st\.|avenue|ave\.?)(\s+|$)`)
	spaces       = regexp.MustCompile(`\s+`)
	commas       = regexp.MustCompile(`\s*,\s*`)
)

// SanitizeAddress strips the leading street type from a raw address and
// normalises its spacing. It never turns a non-empty address into "".
func SanitizeAddress(address string) string {
	trimmed := strings.TrimSpace(address)
	s := streetPrefix.ReplaceAllString(trimmed, "")
	s = spaces.ReplaceAllString(s, " ")
	s = commas.ReplaceAllString(s, ", ")
	s = strings.Trim(s, " ,")
	if s == "" {
		return trimmed
	}
	return s
}
