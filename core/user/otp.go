package user

import (
	"crypto/rand"
	"math/big"
)

const otpLen = 6

var otpDigits = []byte("0123456789")

// generateOTP returns a 6-digit numeric code from a crypto-secure source.
func generateOTP() (string, error) {
	max := big.NewInt(int64(len(otpDigits)))
	code := make([]byte, otpLen)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = otpDigits[n.Int64()]
	}
	return string(code), nil
}
