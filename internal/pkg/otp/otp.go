package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

// Length is the number of digits in a generated code.
const Length = 6

const (
	lowest = 100000
	span   = 900000 // codes are drawn from [lowest, lowest+span)
)

// Generate returns a uniformly random 6-digit code in [100000, 999999].
// The lower bound keeps the code at six digits without zero padding.
func Generate() (string, error) {
	return generate(rand.Reader)
}

func generate(r io.Reader) (string, error) {
	n, err := rand.Int(r, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+lowest, 10), nil
}

// Valid reports whether code has the shape Generate produces.
func Valid(code string) bool {
	if len(code) != Length || code[0] == '0' {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
