package utils

import "unicode/utf8"

// DecodesAsText reports whether the provided byte slice can be treated as UTF-8 text.
// Content containing NUL bytes or invalid UTF-8 sequences is rejected.
func DecodesAsText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	if !utf8.Valid(data) {
		return false
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return false
		}
	}
	return true
}
