package anonymizer

import (
	"math/rand/v2"
	"strings"
)

const displayMaskChar = "X"

// RedactForDisplay partially masks a decrypted value for on-screen display.
// Values shorter than 4 characters keep their first character; longer values
// keep a random prefix of 1 to 5 characters, always leaving at least one
// character masked. The output is never stored.
func RedactForDisplay(value string) string {
	r := []rune(value)
	if len(r) == 0 {
		return ""
	}

	keep := 1
	if len(r) >= 4 {
		keep = min(1+rand.IntN(5), len(r)-1)
	}

	return string(r[:keep]) + strings.Repeat(displayMaskChar, len(r)-keep)
}
