package latin1

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and drops the combining
// marks, so "José Conceição" becomes "Jose Conceicao".
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Transliterate maps s into its closest ISO-8859-1 compatible form.
// Accents are stripped; a rune with no Latin-1 representation is an
// error rather than a silent drop, because bank files must never lose
// characters from names or account fields.
func Transliterate(s string) (string, error) {
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		return "", fmt.Errorf("latin1: normalize %q: %w", s, err)
	}
	var b strings.Builder
	for _, r := range plain {
		switch {
		case r == 'ª':
			b.WriteByte('a')
		case r == 'º':
			b.WriteByte('o')
		// ß upcases to U+1E9E, which Latin-1 cannot hold.
		case r == 'ß':
			b.WriteString("ss")
		case r < 0x80:
			b.WriteRune(r)
		default:
			if _, ok := charmap.ISO8859_1.EncodeRune(r); !ok {
				return "", fmt.Errorf("latin1: character %q cannot be represented", r)
			}
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Encode converts a transliterated string to raw ISO-8859-1 bytes.
func Encode(s string) ([]byte, error) {
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("latin1: encode %q: %w", s, err)
	}
	return out, nil
}
