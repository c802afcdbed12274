package amount

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LeJamon/goRippled/internal/types"
)

// FromDecimalString parses text as an amount of currency issued by issuer.
//
// Native amounts use '^' to separate whole units from the fractional part, so
// "1^5" is one and a half units; a bare integer is a count of base units.
// Non-native amounts use '.', and both accept "<mantissa>e<exponent>".
func FromDecimalString(text string, currency types.Currency, issuer types.AccountID) (Amount, error) {
	native := currency.IsNative()
	s := strings.TrimSpace(text)
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty", ErrInvalidFormat)
	}

	negative := false
	if s[0] == '-' || s[0] == '+' {
		negative = s[0] == '-'
		s = s[1:]
	}

	sep, other := ".", "^"
	if native {
		sep, other = "^", "."
	}
	if strings.Contains(s, other) {
		return Amount{}, fmt.Errorf("%w: %q uses the wrong fractional separator", ErrInvalidFormat, text)
	}

	var (
		value   uint64
		offset  int
		integer bool
		err     error
	)
	switch dot, exp := strings.Index(s, sep), strings.IndexAny(s, "eE"); {
	case dot < 0 && exp < 0:
		integer = true
		value, err = parseDigits(s)
	case dot < 0:
		value, err = parseDigits(s[:exp])
		if err == nil {
			offset, err = strconv.Atoi(s[exp+1:])
		}
	case exp >= 0:
		err = fmt.Errorf("both separator and exponent")
	default:
		value, offset, err = parseFraction(s[:dot], s[dot+1:])
	}
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, text, err)
	}

	if native {
		if integer {
			offset = -SystemCurrencyPrecision
		}
		for offset > -SystemCurrencyPrecision {
			if value > MaxNative/10 {
				return Amount{}, ErrOverflow
			}
			value *= 10
			offset--
		}
		for offset < -SystemCurrencyPrecision {
			value /= 10
			offset++
		}
		if value > MaxNative {
			return Amount{}, ErrOverflow
		}
		return Amount{value: value, native: true, negative: negative && value != 0}, nil
	}

	return New(currency, issuer, value, offset, negative)
}

// MustParse is FromDecimalString for literals known to be valid.
func MustParse(text string, currency types.Currency, issuer types.AccountID) Amount {
	a, err := FromDecimalString(text, currency, issuer)
	if err != nil {
		panic(err)
	}
	return a
}

func parseDigits(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

func parseFraction(whole, frac string) (uint64, int, error) {
	if whole == "" && frac == "" {
		return 0, 0, fmt.Errorf("no digits")
	}
	// Trailing zeros add nothing but may push the mantissa out of range.
	frac = strings.TrimRight(frac, "0")
	v, err := parseDigits(whole + frac)
	if err != nil {
		return 0, 0, err
	}
	return v, -len(frac), nil
}
