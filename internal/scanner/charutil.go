package scanner

func IsAlpha[T byte | rune](b T) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

func IsDigit[T byte | rune](b T) bool {
	return b >= '0' && b <= '9'
}

func IsAlnum[T byte | rune](b T) bool {
	return IsAlpha(b) || IsDigit(b)
}

func IsCtrl[T byte | rune](b T) bool {
	return b < 32
}

// IsSpace reports whether b is JSON whitespace.
func IsSpace[T byte | rune](b T) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func IsHex[T byte | rune](b T) bool {
	return IsDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

// SpaceLen returns the length of the run of JSON whitespace at the start of s.
func SpaceLen(s string) int {
	for i := 0; i < len(s); i++ {
		if !IsSpace(s[i]) {
			return i
		}
	}
	return len(s)
}

// DigitLen returns the length of the run of decimal digits at the start of s.
func DigitLen(s string) int {
	for i := 0; i < len(s); i++ {
		if !IsDigit(s[i]) {
			return i
		}
	}
	return len(s)
}
