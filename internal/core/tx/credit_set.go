package tx

import (
	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/core/tx/view"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/types"
)

// creditSet sets how much of the LimitAmount issuer's IOUs the source will
// hold. The line is created on first use.
func (c *applyContext) creditSet() ter.Result {
	t := c.tx
	limit := *t.LimitAmount
	dst := limit.Issuer()

	switch {
	case dst.IsZero():
		log.Info("creditSet: destination needed", "account", c.account)
		return ter.TemDST_NEEDED
	case dst == c.account:
		log.Info("creditSet: destination is source", "account", c.account)
		return ter.TemDST_IS_SRC
	case limit.IsNegative():
		return ter.TemBAD_AMOUNT
	}
	if c.es.AccountRoot(dst) == nil {
		log.Info("creditSet: destination does not exist", "destination", dst)
		return ter.TerNO_DST
	}

	currency := limit.Currency()
	srcHigh := dst.Less(c.account)
	key := keylet.Line(c.account, dst, currency).Key

	if line := c.es.RippleState(c.account, dst, currency); line != nil {
		own := limit.WithIssuer(c.account)
		if srcHigh {
			line.HighLimit = own
			setQuality(&line.HighQualityIn, t.QualityIn)
			setQuality(&line.HighQualityOut, t.QualityOut)
		} else {
			line.LowLimit = own
			setQuality(&line.LowQualityIn, t.QualityIn)
			setQuality(&line.LowQualityOut, t.QualityOut)
		}
		c.es.EntryModify(key, line)
		log.Debug("creditSet: line updated", "account", c.account, "destination", dst, "limit", limit.FullText())
		return ter.TesSUCCESS
	}

	if limit.IsZero() {
		log.Info("creditSet: no line to set to zero", "account", c.account, "destination", dst)
		return ter.TerNO_LINE_NO_ZERO
	}

	var qIn, qOut uint32
	setQuality(&qIn, t.QualityIn)
	setQuality(&qOut, t.QualityOut)
	res := c.es.TrustCreate(view.TrustLine{
		SrcHigh:    srcHigh,
		Src:        c.account,
		SrcRoot:    c.root(),
		Dst:        dst,
		Key:        key,
		Balance:    amount.Zero(currency, types.AccountOne),
		Limit:      limit,
		QualityIn:  qIn,
		QualityOut: qOut,
	})
	log.Debug("creditSet: line created", "account", c.account, "destination", dst, "limit", limit.FullText(), "result", res)
	return res
}

// setQuality stores q when present. QualityOne is stored as absent.
func setQuality(field *uint32, q *uint32) {
	if q == nil {
		return
	}
	if *q == amount.QualityOne {
		*field = 0
		return
	}
	*field = *q
}
