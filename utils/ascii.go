package utils

// IsAllWordChars reports whether every byte of s is an ASCII word character:
// a letter, a digit or an underscore. The empty string qualifies.
func IsAllWordChars(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' {
			continue
		}
		return false
	}
	return true
}
