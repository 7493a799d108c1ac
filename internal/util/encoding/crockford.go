package encoding

import (
	"encoding/base32"
	"strings"
	"unicode"
)

// Crockford's Base32 alphabet, without I, L, O and U.
const crockfordBase32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

//nolint:gochecknoglobals
var crockfordBase32 = base32.NewEncoding(crockfordBase32Alphabet).WithPadding(base32.NoPadding)

// EncodeCrockfordB32LC encodes a byte slice using Crockford's Base32 alphabet without
// padding and returns the result in lowercase. Request ids are rendered this way so
// they stay short and unambiguous when read back from logs.
func EncodeCrockfordB32LC(input []byte) string {
	return strings.ToLower(crockfordBase32.EncodeToString(input))
}

// NormalizeCrockfordB32LC maps user-typed ids onto the canonical lowercase form:
// whitespace is dropped, O becomes 0 and I/L become 1.
func NormalizeCrockfordB32LC(input string) string {
	return strings.Map(func(r rune) rune {
		switch unicode.ToUpper(r) {
		case 'O':
			return '0'
		case 'I', 'L':
			return '1'
		}

		if unicode.IsSpace(r) {
			return -1
		}

		return unicode.ToLower(r)
	}, input)
}
