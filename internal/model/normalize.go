package model

import "strings"

// NormalizeStoreName lowercases a store name, strips everything that is
// not a letter, digit or space, and collapses runs of whitespace. Both
// duplicate detection and recurring analysis compare stores through
// this form, so "Pick n Pay", "PICK N PAY" and "pick   n pay" are the
// same store.
func NormalizeStoreName(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n':
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
