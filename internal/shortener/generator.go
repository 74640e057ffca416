package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const (
	// CodeLength is the length of generated codes.
	CodeLength = 8
	// CodeAlphabet is the 62-character set generated codes are drawn from.
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// CodeGenerator generates short codes. Each call is independent; collisions
// are handled by the caller.
type CodeGenerator func() string

// NewCodeGenerator returns a generator of CodeLength codes over CodeAlphabet
// backed by crypto/rand.
func NewCodeGenerator() (CodeGenerator, error) {
	gen, err := nanoid.CustomASCII(CodeAlphabet, CodeLength)
	if err != nil {
		return nil, fmt.Errorf("code generator: %w", err)
	}

	return gen, nil
}
