package paths

import (
	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/types"
)

// advance moves an offer node to its next usable offer when the current one
// is consumed, or to the first offer of the book on first use. A zero
// offerIndex on success means the book has nothing more to give.
func (c *calc) advance(idx int, st *State, multiQuality, reverse bool) ter.Result {
	prv, cur := &st.Nodes[idx-1], &st.Nodes[idx]
	b := &cur.book

	for {
		dirDirty := false

		if b.directEnd.IsZero() {
			b.directTip = keylet.BookBase(prv.Currency, prv.Issuer, cur.Currency, cur.Issuer).Key
			b.directEnd = keylet.QualityNext(b.directTip)
			b.directAdvance = c.active.DirNode(b.directTip) == nil
			dirDirty = true
		}

		if b.directAdvance {
			b.directAdvance = false
			next, ok := c.active.Succ(b.directTip, b.directEnd)
			if !ok {
				log.Trace("advance: book exhausted", "node", idx, "reverse", reverse)
				b.offerIndex = types.Hash256{}
				return ter.TesSUCCESS
			}
			b.directTip = next
			dirDirty = true
		}

		if dirDirty {
			b.ofrRate = amount.SetRate(keylet.GetQuality(b.directTip))
			b.dir = nil
			b.entryAdvance = true
		}

		if !b.entryAdvance {
			if b.fundsDirty {
				offer := c.active.Offer(b.offerIndex)
				if offer == nil {
					return ter.TefBAD_LEDGER
				}
				b.takerPays, b.takerGets = offer.TakerPays, offer.TakerGets
				b.offerFunds = c.active.AccountFunds(b.owner, b.takerGets)
				b.fundsDirty = false
				if !b.offerFunds.IsPositive() || !b.takerGets.IsPositive() {
					b.entryAdvance = true
					continue
				}
			}
			return ter.TesSUCCESS
		}

		var index types.Hash256
		var ok bool
		if b.dir == nil {
			b.dir, index, ok = c.active.DirFirst(b.directTip)
		} else {
			index, ok = c.active.DirNext(b.dir)
		}
		if !ok {
			b.offerIndex = types.Hash256{}
			if multiQuality {
				b.directAdvance = true
				continue
			}
			return ter.TesSUCCESS
		}

		b.offerIndex = index
		offer := c.active.Offer(index)
		if offer == nil {
			log.Warn("advance: directory names missing offer", "index", index)
			return ter.TefBAD_LEDGER
		}
		b.owner = offer.Account

		if offer.Expired(c.now) {
			if reverse {
				c.unfundedFound.Add(index)
			}
			continue
		}

		line := issueKey{account: b.owner, currency: cur.Currency, issuer: cur.Issuer}
		if n, found := c.source[line]; found && n != idx {
			continue
		}
		n, foundReverse := st.reverse[line]
		if foundReverse && n != idx {
			continue
		}
		_, foundPast := c.source[line]

		b.takerPays, b.takerGets = offer.TakerPays, offer.TakerGets
		b.offerFunds = c.active.AccountFunds(b.owner, b.takerGets)
		if !b.offerFunds.IsPositive() {
			if reverse && !foundReverse && !foundPast {
				c.unfundedFound.Add(index)
			}
			continue
		}
		if !b.takerGets.IsPositive() || !b.takerPays.IsPositive() {
			continue
		}

		if reverse && !foundReverse && !foundPast {
			st.reverse[line] = idx
		}
		b.fundsDirty = false
		b.entryAdvance = false
		return ter.TesSUCCESS
	}
}

// reduceOffer takes what was exchanged out of the current offer.
func (c *calc) reduceOffer(b *bookCursor, paid, got amount.Amount) {
	offer := c.active.Offer(b.offerIndex)
	offer.TakerGets = subFloor(b.takerGets, got)
	offer.TakerPays = subFloor(b.takerPays, paid)
	c.active.EntryModify(b.offerIndex, offer)
	b.fundsDirty = true
}

// deliverRev asks the book at idx for outReq on behalf of outAccount and
// reports what the offers can deliver. The input each offer needs is added
// to the previous node's RevDeliver, recursing through preceding books.
func (c *calc) deliverRev(idx int, st *State, multiQuality bool, outAccount types.AccountID, outReq amount.Amount) (amount.Amount, ter.Result) {
	prv, cur := &st.Nodes[idx-1], &st.Nodes[idx]
	b := &cur.book
	outAct := outReq.ZeroClone()
	res := ter.TesSUCCESS

	for !outAct.Equal(outReq) {
		res = c.advance(idx, st, multiQuality, true)
		if res != ter.TesSUCCESS || b.offerIndex.IsZero() {
			break
		}

		// The issuer pays no fee to send or receive its own IOUs.
		feeRate := cur.TransferRate
		if b.owner == cur.Issuer || outAccount == cur.Issuer {
			feeRate = amount.QualityOne
		}
		switch {
		case cur.rateMax == 0 || feeRate < cur.rateMax:
			cur.rateMax = feeRate
		case feeRate > cur.rateMax:
			log.Trace("deliverRev: offer exceeds initial rate", "node", idx, "rate", feeRate, "max", cur.rateMax)
			return c.finishRev(outAct, ter.TesSUCCESS)
		}

		outPass := amount.Min(amount.Min(b.offerFunds, b.takerGets), sub(outReq, outAct))
		outPlusFees := mulRatio(outPass, feeRate, amount.QualityOne)
		if outPlusFees.Greater(b.offerFunds) {
			outPlusFees = b.offerFunds
			outPass = mulRatio(outPlusFees, amount.QualityOne, feeRate)
		}

		inPassReq := mul(outPass, b.ofrRate, b.takerPays)
		inPassAct := inPassReq
		if prv.Account.IsZero() {
			// offer -> OFFER: the previous book must supply the input.
			var inRes ter.Result
			inPassAct, inRes = c.deliverRev(idx-1, st, multiQuality, b.owner, inPassReq)
			if inRes == ter.TepPATH_DRY && !outAct.IsZero() {
				break
			}
			if inRes != ter.TesSUCCESS {
				res = inRes
				break
			}
		}
		if inPassAct.IsZero() {
			break
		}
		if !inPassAct.Equal(inPassReq) {
			outPass = div(inPassAct, b.ofrRate, b.takerGets)
			outPlusFees = mulRatio(outPass, feeRate, amount.QualityOne)
		}

		// Take the output now so later offers from the same owner see the
		// reduced funds. The forward pass starts over from the checkpoint.
		if b.owner != cur.Issuer {
			if r := c.active.AccountSend(b.owner, cur.Issuer, outPlusFees); r != ter.TesSUCCESS {
				res = r
				break
			}
		}
		c.reduceOffer(b, inPassAct, outPass)
		if outPass.Equal(b.takerGets) || outPass.IsZero() {
			b.entryAdvance = true
		}

		outAct = add(outAct, outPass)
		prv.RevDeliver = add(prv.RevDeliver, inPassAct)
	}
	return c.finishRev(outAct, res)
}

func (c *calc) finishRev(outAct amount.Amount, res ter.Result) (amount.Amount, ter.Result) {
	if outAct.IsZero() && res == ter.TesSUCCESS {
		res = ter.TepPATH_DRY
	}
	return outAct, res
}

// deliverFwd pushes up to inReq of inAccount's funds, fees included, into
// the book at idx and on through any following books. It returns the
// input consumed and the fees charged on it.
func (c *calc) deliverFwd(idx int, st *State, multiQuality bool, inAccount types.AccountID, inReq amount.Amount) (inAct, inFees amount.Amount, res ter.Result) {
	prv, cur, nxt := &st.Nodes[idx-1], &st.Nodes[idx], &st.Nodes[idx+1]
	b := &cur.book
	inAct, inFees = inReq.ZeroClone(), inReq.ZeroClone()
	res = ter.TesSUCCESS

	for res == ter.TesSUCCESS && add(inAct, inFees).Less(inReq) {
		res = c.advance(idx, st, multiQuality, false)
		if res != ter.TesSUCCESS || b.offerIndex.IsZero() {
			break
		}

		inFeeRate := prv.TransferRate
		if prv.Currency.IsNative() || inAccount == prv.Issuer || b.owner == prv.Issuer {
			inFeeRate = amount.QualityOne
		}

		outFunded := amount.Min(b.offerFunds, b.takerGets)
		inFunded := mul(outFunded, b.ofrRate, inReq)
		inTotal := mulRatio(inFunded, inFeeRate, amount.QualityOne)
		inSum := amount.Min(inTotal, sub(sub(inReq, inAct), inFees))
		inPassAct := inFunded
		if !inSum.Equal(inTotal) {
			inPassAct = mulRatio(inSum, amount.QualityOne, inFeeRate)
		}
		outPassMax := amount.Min(div(inPassAct, b.ofrRate, b.takerGets), outFunded)

		var outPassAct amount.Amount
		if nxt.IsAccount() {
			// ? -> OFFER -> account: pay the next account directly.
			outPassAct = outPassMax
			if b.owner != nxt.Account {
				if res = c.active.AccountSend(b.owner, nxt.Account, outPassAct); res != ter.TesSUCCESS {
					break
				}
			}
		} else {
			// ? -> OFFER -> offer
			var outFees amount.Amount
			outPassAct, outFees, res = c.deliverFwd(idx+1, st, multiQuality, b.owner, outPassMax)
			if res != ter.TesSUCCESS {
				break
			}
			if !outPassAct.Equal(outPassMax) {
				inPassAct = mul(outPassAct, b.ofrRate, inReq)
			}
			// The next book credited its owners from our issuer.
			if b.owner != cur.Issuer {
				if res = c.active.AccountSend(b.owner, cur.Issuer, add(outPassAct, outFees)); res != ter.TesSUCCESS {
					break
				}
			}
		}

		remaining := sub(sub(inReq, inAct), inFees)
		inPassFees := amount.Min(subFloor(mulRatio(inPassAct, inFeeRate, amount.QualityOne), inPassAct), subFloor(remaining, inPassAct))

		if prv.Issuer != b.owner {
			if res = c.active.AccountSend(prv.Issuer, b.owner, inPassAct); res != ter.TesSUCCESS {
				break
			}
		}
		c.reduceOffer(b, inPassAct, outPassAct)

		if !outPassAct.IsZero() {
			c.metrics.OfferTaken()
		}
		if outPassAct.Equal(outFunded) {
			st.unfundedBecame = append(st.unfundedBecame, b.offerIndex)
			b.entryAdvance = true
		}
		if inPassAct.IsZero() && outPassAct.IsZero() {
			b.entryAdvance = true
		}

		inAct = add(inAct, inPassAct)
		inFees = add(inFees, inPassFees)
		cur.FwdDeliver = add(cur.FwdDeliver, outPassAct)

		if log.IsTraceEnabled() {
			log.Trace("deliverFwd", "node", idx, "offer", b.offerIndex, "in", inPassAct.FullText(), "fees", inPassFees.FullText(), "out", outPassAct.FullText())
		}
	}
	return inAct, inFees, res
}

// offerRev drives a chain of books from its last node, the one followed by
// an account.
func (c *calc) offerRev(idx int, st *State, multiQuality bool) ter.Result {
	cur, nxt := &st.Nodes[idx], &st.Nodes[idx+1]
	if !nxt.IsAccount() {
		return ter.TesSUCCESS
	}
	_, res := c.deliverRev(idx, st, multiQuality, nxt.Account, cur.RevDeliver)
	return res
}

// offerFwd drives a chain of books from its first node, the one preceded
// by an account.
func (c *calc) offerFwd(idx int, st *State, multiQuality bool) ter.Result {
	prv := &st.Nodes[idx-1]
	if !prv.IsAccount() {
		return ter.TesSUCCESS
	}
	_, _, res := c.deliverFwd(idx, st, multiQuality, prv.Account, prv.FwdDeliver)
	return res
}
