package types

import (
	"fmt"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"strings"
)

const (
	DefaultDenom = "uscrt"
)

// ParseAmount accepts a decimal or a 0x-prefixed hexadecimal string.
func ParseAmount(s string) (*uint256.Int, error) {
	if strings.HasPrefix(s, "0x") {
		return uint256.FromHex(s)
	} else if IsNumericString(s) {
		return uint256.FromDecimal(s)
	}
	return nil, fmt.Errorf("invalid amount: %v", s)
}

// FormatFraction renders `n / 10^places` without losing precision, e.g. (350, 3) -> "0.35".
func FormatFraction(n uint64, places int32) string {
	return decimal.NewFromBigInt(new(uint256.Int).SetUint64(n).ToBig(), -places).String()
}

// IsNumericString reports whether `s` is a non-empty run of the digits 0-9.
func IsNumericString(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
