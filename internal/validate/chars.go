package validate

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// structural holds tab, newline and carriage return. They delimit cells and
// rows, so they are stripped before a cell is inspected.
var structural = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x09, Hi: 0x0a, Stride: 1},
		{Lo: 0x0d, Hi: 0x0d, Stride: 1},
	},
}

var disallowed = runes.Predicate(func(r rune) bool {
	return unicode.In(r, unicode.Cc, unicode.Cf)
})

// badCell reports whether value holds a control or format character, or is
// not valid UTF-8, once structural characters are removed.
func badCell(value string) bool {
	if !utf8.ValidString(value) {
		return true
	}
	cleaned, _, err := transform.String(runes.Remove(runes.In(structural)), value)
	if err != nil {
		return true
	}
	for _, r := range cleaned {
		if disallowed.Contains(r) {
			return true
		}
	}
	return false
}
