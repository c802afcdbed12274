package entry

import (
	"fmt"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/types"
)

// Offer is a standing order resting in an order book.
type Offer struct {
	Account       types.AccountID
	Sequence      uint32
	TakerPays     amount.Amount
	TakerGets     amount.Amount
	BookDirectory types.Hash256
	BookNode      uint64
	OwnerNode     uint64
	Expiration    uint32
	Flags         uint32
}

func (o *Offer) Type() Type { return TypeOffer }

func (o *Offer) isEntry() {}

// Passive offers do not cross offers of equal quality.
func (o *Offer) Passive() bool { return o.Flags&OfferPassive != 0 }

// Expired reports whether the offer has an expiration at or before now.
func (o *Offer) Expired(now uint32) bool {
	return o.Expiration != 0 && o.Expiration <= now
}

func (o *Offer) Validate() error {
	if o.Account.IsZero() {
		return fmt.Errorf("%w: offer account is required", ErrInvalidEntry)
	}
	if o.TakerPays.IsNative() && o.TakerGets.IsNative() {
		return fmt.Errorf("%w: offer cannot be native for native", ErrInvalidEntry)
	}
	return nil
}

func (o *Offer) Clone() Entry {
	c := *o
	return &c
}
