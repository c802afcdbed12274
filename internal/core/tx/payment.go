package tx

import (
	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/paths"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/types"
)

// payment delivers Amount to Destination. Native amounts without paths or
// SendMax move directly between balances; everything else is routed.
func (c *applyContext) payment() ter.Result {
	t := c.tx
	dst := *t.Destination
	amt := *t.Amount
	create := t.Has(TfCreateAccount)

	switch {
	case dst.IsZero():
		return ter.TemDST_NEEDED
	case !amt.IsPositive():
		return ter.TemBAD_AMOUNT
	case create && !amt.IsNative():
		log.Info("payment: account creation needs a native amount", "account", c.account)
		return ter.TemBAD_AMOUNT
	}

	srcCurrency := amt.Currency()
	if t.SendMax != nil {
		sendMax := *t.SendMax
		switch {
		case !sendMax.IsPositive():
			return ter.TemBAD_AMOUNT
		case sendMax.IsNative() && amt.IsNative():
			log.Info("payment: SendMax on a native payment", "account", c.account)
			return ter.TemINVALID
		case sendMax.SameAsset(amt) && sendMax.Equal(amt):
			log.Info("payment: SendMax equals Amount", "account", c.account)
			return ter.TemINVALID
		}
		srcCurrency = sendMax.Currency()
	}
	if dst == c.account && srcCurrency == amt.Currency() && len(t.Paths) == 0 {
		log.Info("payment: redundant payment to self", "account", c.account)
		return ter.TemREDUNDANT
	}
	if len(t.Paths) > c.lc.Config.MaxPaths {
		log.Info("payment: too many paths", "account", c.account, "paths", len(t.Paths), "max", c.lc.Config.MaxPaths)
		return ter.TelBAD_PATH_COUNT
	}

	dstRoot := c.es.AccountRoot(dst)
	switch {
	case dstRoot == nil && !create:
		log.Info("payment: destination does not exist", "destination", dst)
		return ter.TerNO_DST
	case dstRoot == nil:
		c.es.EntryCreate(keylet.Account(dst).Key, &entry.AccountRoot{
			Account:  dst,
			Balance:  amount.NewNative(0),
			Sequence: 1,
		})
		log.Debug("payment: creating account", "destination", dst)
	case create:
		log.Info("payment: account already exists", "destination", dst)
		return ter.TerCREATED
	}

	if len(t.Paths) > 0 || t.SendMax != nil || !amt.IsNative() {
		return c.ripplePayment(dst, amt)
	}

	root := c.root()
	if root.Balance.Less(amt) {
		log.Info("payment: insufficient funds", "account", c.account,
			"balance", root.Balance.FullText(), "amount", amt.FullText())
		return ter.TerUNFUNDED
	}
	if res := c.es.AccountSend(c.account, dst, amt); res != ter.TesSUCCESS {
		return res
	}
	c.delivered = &amt
	return ter.TesSUCCESS
}

func (c *applyContext) ripplePayment(dst types.AccountID, amt amount.Amount) ter.Result {
	t := c.tx
	maxAmount := amt
	switch {
	case t.SendMax != nil:
		maxAmount = *t.SendMax
	case !amt.IsNative():
		maxAmount = amt.WithIssuer(c.account)
	}

	maxAct, dstAct, res := paths.RippleCalc(c.es, paths.Params{
		MaxAmountReq:   maxAmount,
		DstAmountReq:   amt,
		Dst:            dst,
		Src:            c.account,
		Paths:          t.Paths,
		Partial:        t.Has(TfPartialPayment),
		LimitQuality:   t.Has(TfLimitQuality),
		NoRippleDirect: t.Has(TfNoRippleDirect),
		Standalone:     c.lc.Config.Standalone,
		Now:            c.now,
		Metrics:        c.engine.metrics,
	})
	log.Debug("payment: routed", "account", c.account, "destination", dst,
		"spent", maxAct.FullText(), "delivered", dstAct.FullText(), "result", res)
	if res == ter.TesSUCCESS {
		c.delivered = &dstAct
	}
	return res
}
