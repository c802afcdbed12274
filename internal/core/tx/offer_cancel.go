package tx

import (
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/log"
)

// offerCancel removes one of the source's offers. Cancelling an offer that
// was already taken or cancelled succeeds.
func (c *applyContext) offerCancel() ter.Result {
	seq := *c.tx.OfferSequence
	if seq == 0 {
		return ter.TemBAD_SEQUENCE
	}
	key := keylet.Offer(c.account, seq).Key
	if c.es.Offer(key) == nil {
		log.Debug("offerCancel: offer not found", "account", c.account, "seq", seq)
		return ter.TesSUCCESS
	}
	return c.es.OfferDelete(key)
}
