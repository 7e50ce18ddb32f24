package identity

import "strings"

// Normalize canonicalizes a MAC-like string for comparison: lowercase,
// ASCII letters and digits only. "AA:BB:CC:DD:EE:FF", "aa-bb-cc-dd-ee-ff"
// and "aabbccddeeff" all normalize to the same identity.
func Normalize(raw string) string {
	lowered := strings.ToLower(raw)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
