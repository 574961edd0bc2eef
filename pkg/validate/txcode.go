package validate

import (
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

const (
	codePrefix = "TX-"
	codeDigits = 12
)

// NewTransactionCode generates a human-readable transaction code with a
// trailing Luhn check digit, e.g. TX-004617390258.
func NewTransactionCode() (string, error) {
	code := goluhn.Generate(codeDigits)
	return codePrefix + code, nil
}

// IsTransactionCode reports whether s is a well-formed transaction code.
func IsTransactionCode(s string) bool {
	if !strings.HasPrefix(s, codePrefix) {
		return false
	}
	digits := strings.TrimPrefix(s, codePrefix)
	if len(digits) != codeDigits {
		return false
	}
	return goluhn.Validate(digits) == nil
}
