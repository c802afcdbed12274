package amount

import (
	"errors"
	"fmt"
)

var (
	ErrOverflow       = errors.New("amount overflow")
	ErrUnderflow      = errors.New("amount underflow")
	ErrIncomparable   = errors.New("amounts are not comparable")
	ErrDivideByZero   = errors.New("division by zero")
	ErrWorthlessOffer = errors.New("worthless offer")
	ErrInvalidFormat  = errors.New("invalid amount format")
	ErrCorrupt        = errors.New("corrupt serialized amount")
)

func incomparable(a, b Amount) error {
	return fmt.Errorf("%w: %s and %s", ErrIncomparable, a.FullText(), b.FullText())
}
