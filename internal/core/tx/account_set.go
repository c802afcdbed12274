package tx

import (
	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/types"
)

// accountSet changes the optional settings of the source account. A field
// set to its zero value is cleared.
func (c *applyContext) accountSet() ter.Result {
	t := c.tx

	if (t.PublishHash == nil) != (t.PublishSize == nil) {
		log.Info("accountSet: publish hash and size must be set together", "account", c.account)
		return ter.TemBAD_PUBLISH
	}
	if t.TransferRate != nil && *t.TransferRate != 0 && *t.TransferRate < amount.QualityOne {
		log.Info("accountSet: transfer rate below one", "account", c.account, "rate", *t.TransferRate)
		return ter.TemBAD_TRANSFER_RATE
	}

	root := c.root()

	if t.EmailHash != nil {
		root.EmailHash = [16]byte(*t.EmailHash)
	}
	if t.WalletLocator != nil {
		root.WalletLocator = *t.WalletLocator
	}
	if t.MessageKey != nil {
		root.MessageKey = blobOrNil(*t.MessageKey)
	}
	if t.Domain != nil {
		root.Domain = blobOrNil(*t.Domain)
	}
	if t.TransferRate != nil {
		rate := *t.TransferRate
		if rate == amount.QualityOne {
			rate = 0
		}
		root.TransferRate = rate
	}
	if t.PublishHash != nil {
		if t.PublishHash.IsZero() {
			root.PublishHash, root.PublishSize = types.Hash256{}, 0
		} else {
			root.PublishHash, root.PublishSize = *t.PublishHash, *t.PublishSize
		}
	}

	c.modifyRoot(root)
	log.Debug("accountSet: updated", "account", c.account)
	return ter.TesSUCCESS
}

// blobOrNil copies b, mapping an empty blob to an absent field.
func blobOrNil(b Blob) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}
