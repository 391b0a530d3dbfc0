package util

import (
	"crypto/rand"
	"math/big"
)

const shortLinkAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateShortLink returns a random base62 token of the given length.
func GenerateShortLink(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	max := big.NewInt(int64(len(shortLinkAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = shortLinkAlphabet[n.Int64()]
	}
	return string(buf), nil
}
