package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewAccessCode builds "<prefix><suffix>" with a random uppercase
// alphanumeric suffix, e.g. "MB26-ABCDEF" for length 6.
func NewAccessCode(prefix string, suffixLength int) (string, error) {
	suffix, err := randomSuffix(suffixLength)
	if err != nil {
		return "", err
	}
	return prefix + suffix, nil
}

func randomSuffix(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("suffix length must be greater than zero")
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf), nil
}
