package entry

import (
	"fmt"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/types"
)

// RippleState is a trust line between two accounts in one currency. Balance
// is held from the low account's side: positive means the high account owes
// the low account. Each limit carries its owner as issuer.
type RippleState struct {
	Balance   amount.Amount
	LowLimit  amount.Amount
	HighLimit amount.Amount

	LowQualityIn   uint32
	LowQualityOut  uint32
	HighQualityIn  uint32
	HighQualityOut uint32

	LowNode  uint64
	HighNode uint64
	Flags    uint32
}

func (r *RippleState) Type() Type { return TypeRippleState }

func (r *RippleState) isEntry() {}

// LowAccount returns the lower-sorting account of the line.
func (r *RippleState) LowAccount() types.AccountID { return r.LowLimit.Issuer() }

// HighAccount returns the higher-sorting account of the line.
func (r *RippleState) HighAccount() types.AccountID { return r.HighLimit.Issuer() }

// Currency returns the currency the line is denominated in.
func (r *RippleState) Currency() types.Currency { return r.Balance.Currency() }

func (r *RippleState) Validate() error {
	if r.Balance.IsNative() {
		return fmt.Errorf("%w: trust line balance must not be native", ErrInvalidEntry)
	}
	if !r.LowLimit.Comparable(r.Balance) || !r.HighLimit.Comparable(r.Balance) {
		return fmt.Errorf("%w: trust line limits must match the balance currency", ErrInvalidEntry)
	}
	if !r.LowAccount().Less(r.HighAccount()) {
		return fmt.Errorf("%w: low account must sort below high account", ErrInvalidEntry)
	}
	if r.LowLimit.IsNegative() || r.HighLimit.IsNegative() {
		return fmt.Errorf("%w: trust line limits must not be negative", ErrInvalidEntry)
	}
	return nil
}

func (r *RippleState) Clone() Entry {
	c := *r
	return &c
}
