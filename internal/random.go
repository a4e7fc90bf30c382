package internal

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// NewCode generates a zero-padded numeric verification code with one
// independent CSPRNG draw per digit, so leading zeros are as likely as any
// other digit.
func NewCode(digits int) (string, error) {
	if digits < 6 || digits > 10 {
		return "", errors.New("invalid code digits")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}
