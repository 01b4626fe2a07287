package language

import "strings"

// NormalizeCode normalizes a language tag to its lowercase primary subtag
// (for example, "en" from " EN_us "). Returns an empty string when the value
// is blank or contains invalid characters.
func NormalizeCode(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}

	trimmed = strings.ReplaceAll(trimmed, "_", "-")
	if dash := strings.IndexByte(trimmed, '-'); dash >= 0 {
		trimmed = trimmed[:dash]
	}
	if !isAlphaLower(trimmed) {
		return ""
	}
	return trimmed
}

func isAlphaLower(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
