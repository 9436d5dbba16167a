package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Min and Max bound the verification code range, inclusive.
	Min = 100000
	Max = 999999
)

// Generator produces verification codes.
type Generator interface {
	Next() (string, error)
}

type generator struct{}

// NewGenerator returns a Generator backed by crypto/rand.
func NewGenerator() Generator { return generator{} }

// Next returns a code drawn uniformly from [Min, Max], always six digits.
func (generator) Next() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(Max-Min+1))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+Min), nil
}

// Fixed always returns the same code. Useful when wiring tests.
type Fixed string

func (f Fixed) Next() (string, error) { return string(f), nil }
