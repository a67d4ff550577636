package service

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// examCodeAlphabet is digits and upper-case letters without the look-alikes 0, O, 1, I and L.
const examCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const maxExamCodeAttempts = 10

// CodeGenerator produces candidate join codes.
type CodeGenerator func() (string, error)

// GenerateExamCode returns a random code in the form XXXX-XXXX.
func GenerateExamCode() (string, error) {
	var b strings.Builder
	b.Grow(9)
	size := big.NewInt(int64(len(examCodeAlphabet)))
	for i := 0; i < 8; i++ {
		if i == 4 {
			b.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(examCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
