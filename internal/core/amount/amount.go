// Package amount implements the fixed-point value type used for every
// balance, offer and exchange rate in the ledger.
//
// A native amount is an integer count of base units. A non-native amount is a
// decimal mantissa in [1e15, 1e16) scaled by a power of ten, tagged with the
// currency and the issuing account.
package amount

import (
	"github.com/LeJamon/goRippled/internal/types"
)

const (
	MinOffset = -96
	MaxOffset = 80

	MinValue uint64 = 1000000000000000
	MaxValue uint64 = 9999999999999999

	MaxNative uint64 = 9000000000000000000

	// ZeroOffset is the offset carried by every non-native zero.
	ZeroOffset = -100

	// SystemCurrencyParts is the number of base units in one native unit.
	SystemCurrencyParts     = 1000000
	SystemCurrencyPrecision = 6

	// QualityOne is the transfer rate or line quality meaning "no fee".
	QualityOne uint32 = 1000000000

	notNative uint64 = 0x8000000000000000
	posNative uint64 = 0x4000000000000000
)

// Amount is an immutable value. Operations return new amounts.
type Amount struct {
	currency types.Currency
	issuer   types.AccountID
	value    uint64
	offset   int
	native   bool
	negative bool
}

// NewNative returns a native amount of drops base units.
func NewNative(drops int64) Amount {
	if drops < 0 {
		return Amount{value: uint64(-drops), native: true, negative: true}
	}
	return Amount{value: uint64(drops), native: true}
}

// New builds a canonical amount. A zero currency yields a native amount, in
// which case the issuer is ignored.
func New(currency types.Currency, issuer types.AccountID, mantissa uint64, offset int, negative bool) (Amount, error) {
	a := Amount{
		currency: currency,
		issuer:   issuer,
		value:    mantissa,
		offset:   offset,
		native:   currency.IsNative(),
		negative: negative,
	}
	if a.native {
		a.issuer = types.AccountXRP
	}
	if err := a.canonicalize(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// MustNew is New for values known to be representable.
func MustNew(currency types.Currency, issuer types.AccountID, mantissa uint64, offset int, negative bool) Amount {
	a, err := New(currency, issuer, mantissa, offset, negative)
	if err != nil {
		panic(err)
	}
	return a
}

// FromInt returns v units of currency issued by issuer.
func FromInt(currency types.Currency, issuer types.AccountID, v int64) Amount {
	if v < 0 {
		return MustNew(currency, issuer, uint64(-v), 0, true)
	}
	return MustNew(currency, issuer, uint64(v), 0, false)
}

// Zero returns the zero of the given currency and issuer.
func Zero(currency types.Currency, issuer types.AccountID) Amount {
	if currency.IsNative() {
		return Amount{native: true}
	}
	return Amount{currency: currency, issuer: issuer, offset: ZeroOffset}
}

func (a Amount) Currency() types.Currency { return a.currency }
func (a Amount) Issuer() types.AccountID  { return a.issuer }
func (a Amount) Mantissa() uint64         { return a.value }
func (a Amount) Exponent() int            { return a.offset }
func (a Amount) IsNative() bool           { return a.native }
func (a Amount) IsNegative() bool         { return a.negative && a.value != 0 }
func (a Amount) IsZero() bool             { return a.value == 0 }
func (a Amount) IsPositive() bool         { return a.value != 0 && !a.negative }

// Signum returns -1, 0 or 1.
func (a Amount) Signum() int {
	switch {
	case a.value == 0:
		return 0
	case a.negative:
		return -1
	default:
		return 1
	}
}

// Drops returns the signed base units of a native amount.
func (a Amount) Drops() int64 {
	if a.negative {
		return -int64(a.value)
	}
	return int64(a.value)
}

// WithIssuer returns a copy of a issued by issuer. Native amounts are returned
// unchanged.
func (a Amount) WithIssuer(issuer types.AccountID) Amount {
	if !a.native {
		a.issuer = issuer
	}
	return a
}

// ZeroClone returns the zero of a's currency and issuer.
func (a Amount) ZeroClone() Amount { return Zero(a.currency, a.issuer) }

func (a Amount) Negate() Amount {
	if a.value != 0 {
		a.negative = !a.negative
	}
	return a
}

func (a Amount) Abs() Amount {
	a.negative = false
	return a
}

// Comparable reports whether a and b may be added or compared.
func (a Amount) Comparable(b Amount) bool {
	if a.native != b.native {
		return false
	}
	return a.native || a.currency == b.currency
}

// SameAsset reports whether a and b carry the same currency and issuer.
func (a Amount) SameAsset(b Amount) bool {
	return a.native == b.native && a.currency == b.currency && a.issuer == b.issuer
}

// Compare returns -1, 0 or 1. The amounts must be comparable.
func (a Amount) Compare(b Amount) int {
	if !a.Comparable(b) {
		panic(incomparable(a, b))
	}
	return compareValues(a, b)
}

func compareValues(a, b Amount) int {
	as, bs := a.Signum(), b.Signum()
	if as != bs {
		if as < bs {
			return -1
		}
		return 1
	}
	if as == 0 {
		return 0
	}
	flip := 1
	if as < 0 {
		flip = -1
	}
	switch {
	case a.offset > b.offset:
		return flip
	case a.offset < b.offset:
		return -flip
	case a.value > b.value:
		return flip
	case a.value < b.value:
		return -flip
	}
	return 0
}

// Equal is value equality. The issuer does not take part.
func (a Amount) Equal(b Amount) bool {
	return a.Comparable(b) && compareValues(a, b) == 0
}

func (a Amount) Less(b Amount) bool         { return a.Compare(b) < 0 }
func (a Amount) LessEqual(b Amount) bool    { return a.Compare(b) <= 0 }
func (a Amount) Greater(b Amount) bool      { return a.Compare(b) > 0 }
func (a Amount) GreaterEqual(b Amount) bool { return a.Compare(b) >= 0 }

// Min returns the smaller of two comparable amounts, preferring a on ties.
func Min(a, b Amount) Amount {
	if b.Less(a) {
		return b
	}
	return a
}

// Max returns the larger of two comparable amounts, preferring a on ties.
func Max(a, b Amount) Amount {
	if b.Greater(a) {
		return b
	}
	return a
}

const sortKeyMid uint64 = 1 << 63

// SortKey maps a to an unsigned key whose order agrees with Compare among
// comparable amounts. Zero sits at a fixed midpoint.
func (a Amount) SortKey() uint64 {
	if a.value == 0 {
		return sortKeyMid
	}
	var magnitude uint64
	if a.native {
		magnitude = a.value
	} else {
		magnitude = uint64(a.offset-MinOffset+1)<<54 | a.value
	}
	if a.negative {
		return sortKeyMid - magnitude
	}
	return sortKeyMid + magnitude
}
