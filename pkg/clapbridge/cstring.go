package clapbridge

import "unicode/utf8"

// fitCString copies s into dst as a NUL terminated string, truncating on a
// UTF-8 boundary when it does not fit. It returns the number of bytes copied
// before the terminator.
func fitCString(dst []byte, s string) int {
	if len(dst) == 0 {
		return 0
	}

	n := len(s)
	if n > len(dst)-1 {
		n = len(dst) - 1
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
	}
	copy(dst, s[:n])
	dst[n] = 0
	return n
}
