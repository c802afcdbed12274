package amount

import (
	"errors"
	"math/big"

	"github.com/LeJamon/goRippled/internal/types"
)

// Add returns a+b in a's currency and issuer. Native sums use signed 64-bit
// arithmetic and are not checked for overflow.
func Add(a, b Amount) (Amount, error) {
	if !a.Comparable(b) {
		return Amount{}, incomparable(a, b)
	}
	if a.native {
		return NewNative(a.Drops() + b.Drops()), nil
	}
	if a.IsZero() {
		b.currency, b.issuer = a.currency, a.issuer
		return b, nil
	}
	if b.IsZero() {
		return a, nil
	}

	v1, o1 := int64(a.value), a.offset
	v2, o2 := int64(b.value), b.offset
	if a.negative {
		v1 = -v1
	}
	if b.negative {
		v2 = -v2
	}
	for o1 < o2 {
		v1 /= 10
		o1++
	}
	for o2 < o1 {
		v2 /= 10
		o2++
	}

	sum := v1 + v2
	negative := sum < 0
	if negative {
		sum = -sum
	}
	r, err := New(a.currency, a.issuer, uint64(sum), o1, negative)
	if errors.Is(err, ErrUnderflow) {
		return a.ZeroClone(), nil
	}
	return r, err
}

// Subtract returns a-b in a's currency and issuer.
func Subtract(a, b Amount) (Amount, error) {
	return Add(a, b.Negate())
}

// MustAdd is Add for operands already known to be comparable.
func MustAdd(a, b Amount) Amount {
	r, err := Add(a, b)
	if err != nil {
		panic(err)
	}
	return r
}

// MustSubtract is Subtract for operands already known to be comparable.
func MustSubtract(a, b Amount) Amount {
	r, err := Subtract(a, b)
	if err != nil {
		panic(err)
	}
	return r
}

var (
	tenTo14 = big.NewInt(100000000000000)
	tenTo17 = big.NewInt(100000000000000000)
	bigTen  = big.NewInt(10)

	// roundingBias is added before truncating the wide intermediate.
	roundingBias = big.NewInt(3)
)

const (
	maxNativeSqrt uint64 = 3000000000
	maxNativeDiv  uint64 = 2095475792
)

// normalized widens a native operand to at least 16 significant digits.
func normalized(a Amount) (uint64, int) {
	v, o := a.value, a.offset
	if a.native {
		for v < MinValue {
			v *= 10
			o--
		}
	}
	return v, o
}

// Multiply returns a*b expressed in currency and issuer.
func Multiply(a, b Amount, currency types.Currency, issuer types.AccountID) (Amount, error) {
	if a.IsZero() || b.IsZero() {
		return Zero(currency, issuer), nil
	}

	if a.native && b.native && currency.IsNative() {
		lo, hi := a.value, b.value
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo > maxNativeSqrt || (hi>>32)*lo > maxNativeDiv {
			return Amount{}, ErrOverflow
		}
		r := Amount{value: lo * hi, native: true, negative: a.negative != b.negative}
		if r.value > MaxNative {
			return Amount{}, ErrOverflow
		}
		return r, nil
	}

	v1, o1 := normalized(a)
	v2, o2 := normalized(b)

	// 1e16 <= product/1e14 < 1e18
	p := new(big.Int).Mul(new(big.Int).SetUint64(v1), new(big.Int).SetUint64(v2))
	p.Quo(p, tenTo14)
	p.Add(p, roundingBias)
	offset := o1 + o2 + 14
	for !p.IsUint64() {
		p.Quo(p, bigTen)
		offset++
	}

	return New(currency, issuer, p.Uint64(), offset, a.negative != b.negative)
}

// Divide returns num/den expressed in currency and issuer.
func Divide(num, den Amount, currency types.Currency, issuer types.AccountID) (Amount, error) {
	if den.IsZero() {
		return Amount{}, ErrDivideByZero
	}
	if num.IsZero() {
		return Zero(currency, issuer), nil
	}

	v1, o1 := normalized(num)
	v2, o2 := normalized(den)

	// 1e16 <= quotient < 1e18
	q := new(big.Int).Mul(new(big.Int).SetUint64(v1), tenTo17)
	q.Quo(q, new(big.Int).SetUint64(v2))
	q.Add(q, roundingBias)
	offset := o1 - o2 - 17
	for !q.IsUint64() {
		q.Quo(q, bigTen)
		offset++
	}

	return New(currency, issuer, q.Uint64(), offset, num.negative != den.negative)
}

// MulRatio scales a by num/den, each being a plain integer such as a
// transfer rate or line quality.
func MulRatio(a Amount, num, den uint32) (Amount, error) {
	if num == den {
		return a, nil
	}
	scaled, err := Multiply(a, FromInt(types.CurrencyOne, types.AccountOne, int64(num)), types.CurrencyOne, types.AccountOne)
	if err != nil {
		return Amount{}, err
	}
	return Divide(scaled, FromInt(types.CurrencyOne, types.AccountOne, int64(den)), a.currency, a.issuer)
}
