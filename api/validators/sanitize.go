package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the length of
// caller-supplied path values such as tracking codes. A maxLen of 0
// disables the cap.
func SanitizeString(input string, maxLen int) string {
	s := strings.TrimSpace(input)
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
