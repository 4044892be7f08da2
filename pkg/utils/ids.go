package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randBase36(n int) string {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// fall back to a fixed glyph rather than panic
			b.WriteByte('0')
			continue
		}
		b.WriteByte(base36[idx.Int64()])
	}
	return b.String()
}

// GenMessageID generates an opaque message id in the site's historical
// format: "msg_" followed by nine random base36 characters.
func GenMessageID() string {
	return "msg_" + randBase36(9)
}

// GenSessionID generates a per-browser pseudonymous tag: "#" followed by
// four uppercase base36 characters.
func GenSessionID() string {
	return "#" + strings.ToUpper(randBase36(4))
}
