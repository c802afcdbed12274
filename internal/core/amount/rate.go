package amount

import (
	"github.com/LeJamon/goRippled/internal/types"
)

// GetRate returns the quality key of an offer that pays offerOut in exchange
// for offerIn: the high byte holds the exponent of offerIn/offerOut biased by
// 100 and the low 56 bits its mantissa. Smaller keys are better for a taker.
// A zero offerOut yields 0, which the path engine reads as "no quality".
// Callers that must tell a worthless offer apart use GetRateChecked.
func GetRate(offerOut, offerIn Amount) uint64 {
	r, err := GetRateChecked(offerOut, offerIn)
	if err != nil {
		return 0
	}
	return r
}

// GetRateChecked is GetRate reporting a worthless offer as an error.
func GetRateChecked(offerOut, offerIn Amount) (uint64, error) {
	if offerOut.IsZero() {
		return 0, ErrWorthlessOffer
	}
	r, err := Divide(offerIn, offerOut, types.CurrencyOne, types.AccountOne)
	if err != nil {
		return 0, err
	}
	if r.IsZero() {
		return 0, nil
	}
	return uint64(r.offset+100)<<56 | r.value, nil
}

// SetRate is the inverse of GetRate.
func SetRate(rate uint64) Amount {
	if rate == 0 {
		return Zero(types.CurrencyOne, types.AccountOne)
	}
	return Amount{
		currency: types.CurrencyOne,
		issuer:   types.AccountOne,
		value:    rate &^ (uint64(255) << 56),
		offset:   int(rate>>56) - 100,
	}
}

// FromRate returns the amount rate/1e9, the form in which transfer rates and
// line qualities enter amount arithmetic.
func FromRate(rate uint32) Amount {
	return MustNew(types.CurrencyOne, types.AccountOne, uint64(rate), -9, false)
}
