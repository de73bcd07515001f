// Package otp generates numeric one-time passcodes for delivery over email or SMS.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// DefaultDigits is the code length used when a Generator is built with a non-positive length.
const DefaultDigits = 6

// maxDigits keeps 10^digits inside int64.
const maxDigits = 18

// Generator produces codes uniformly distributed in [10^(digits-1), 10^digits-1],
// so a code never starts with zero.
type Generator struct {
	digits int
	low    *big.Int
	span   *big.Int
}

func NewGenerator(digits int) *Generator {
	if digits < 1 {
		digits = DefaultDigits
	}
	if digits > maxDigits {
		digits = maxDigits
	}
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	high := new(big.Int).Mul(low, big.NewInt(10))
	return &Generator{
		digits: digits,
		low:    low,
		span:   new(big.Int).Sub(high, low),
	}
}

// Generate returns a fresh code.
func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, g.span)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Add(n, g.low).Int64(), 10), nil
}

// Digits returns the configured code length.
func (g *Generator) Digits() int { return g.digits }
