package tx

import (
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/core/tx/view"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/types"
)

// offerCreate crosses the new offer against the opposite book and places
// whatever is left. The creator gives TakerGets and receives TakerPays.
func (c *applyContext) offerCreate() ter.Result {
	t := c.tx
	pays, gets := *t.TakerPays, *t.TakerGets
	passive := t.Has(TfPassive)

	switch {
	case !pays.IsPositive() || !gets.IsPositive():
		return ter.TemBAD_OFFER
	case pays.IsNative() && gets.IsNative():
		log.Info("offerCreate: native for native", "account", c.account)
		return ter.TemBAD_OFFER
	case pays.SameAsset(gets):
		log.Info("offerCreate: redundant offer", "account", c.account)
		return ter.TemREDUNDANT
	case pays.IsNative() != pays.Issuer().IsZero(), gets.IsNative() != gets.Issuer().IsZero():
		log.Info("offerCreate: bad issuer", "account", c.account)
		return ter.TemBAD_ISSUER
	}
	if t.Expiration != nil {
		if *t.Expiration == 0 {
			return ter.TemBAD_EXPIRATION
		}
		if *t.Expiration <= c.now {
			log.Info("offerCreate: expired", "account", c.account, "expiration", *t.Expiration, "now", c.now)
			return ter.TecEXPIRED
		}
	}

	if !c.es.AccountFunds(c.account, gets).IsPositive() {
		log.Info("offerCreate: unfunded", "account", c.account, "gets", gets.FullText())
		return ter.TerUNFUNDED
	}
	if !pays.IsNative() && c.es.AccountRoot(pays.Issuer()) == nil {
		log.Info("offerCreate: issuer does not exist", "issuer", pays.Issuer())
		return ter.TerNO_ACCOUNT
	}

	// In the opposite book the creator is the taker: it pays what it gets
	// and gets what it pays.
	takerBook := keylet.BookBase(gets.Currency(), gets.Issuer(), pays.Currency(), pays.Issuer()).Key
	paid, got, res := c.takeOffers(passive, takerBook, gets, pays)
	if res != ter.TesSUCCESS {
		return res
	}
	log.Debug("offerCreate: crossed", "account", c.account, "paid", paid.FullText(), "got", got.FullText())

	restPays, err := subFloor(pays, got)
	if err != nil {
		return ter.TefEXCEPTION
	}
	restGets, err := subFloor(gets, paid)
	if err != nil {
		return ter.TefEXCEPTION
	}
	if !restPays.IsPositive() || !restGets.IsPositive() {
		return ter.TesSUCCESS
	}
	if !c.es.AccountFunds(c.account, restGets).IsPositive() {
		log.Debug("offerCreate: unfunded after crossing, not placed", "account", c.account)
		return ter.TesSUCCESS
	}
	return c.placeOffer(pays, gets, restPays, restGets, passive)
}

// placeOffer links the remainder of the offer into its owner directory and
// its book and writes it. The book quality is that of the offer as
// submitted.
func (c *applyContext) placeOffer(pays, gets, restPays, restGets amount.Amount, passive bool) ter.Result {
	t := c.tx
	offerKey := keylet.Offer(c.account, t.Sequence).Key

	ownerNode, res := c.es.DirAdd(keylet.OwnerDir(c.account).Key, offerKey, view.OwnerDirDescriber(c.account))
	if res != ter.TesSUCCESS {
		return res
	}

	base := keylet.BookBase(pays.Currency(), pays.Issuer(), gets.Currency(), gets.Issuer()).Key
	bookDir := keylet.QualityIndex(base, amount.GetRate(gets, pays))
	bookNode, res := c.es.DirAdd(bookDir, offerKey,
		view.BookDirDescriber(pays.Currency(), pays.Issuer(), gets.Currency(), gets.Issuer()))
	if res != ter.TesSUCCESS {
		return res
	}

	offer := &entry.Offer{
		Account:       c.account,
		Sequence:      t.Sequence,
		TakerPays:     restPays,
		TakerGets:     restGets,
		BookDirectory: bookDir,
		BookNode:      bookNode,
		OwnerNode:     ownerNode,
	}
	if t.Expiration != nil {
		offer.Expiration = *t.Expiration
	}
	if passive {
		offer.Flags |= entry.OfferPassive
	}
	c.es.EntryCreate(offerKey, offer)
	c.es.OwnerCountAdjust(c.account, 1, nil)

	log.Debug("offerCreate: placed", "account", c.account, "seq", t.Sequence,
		"pays", restPays.FullText(), "gets", restGets.FullText(), "book", bookDir)
	return ter.TesSUCCESS
}

// takeOffers crosses the taker against the book at bookBase, best quality
// first, until the taker has paid takerPays, has got takerGets, runs out
// of funds, or the book's quality is worse than the taker's. A passive
// taker does not cross offers of equal quality. It returns what the taker
// paid and got, before transfer fees.
func (c *applyContext) takeOffers(passive bool, bookBase types.Hash256, takerPays, takerGets amount.Amount) (paid, got amount.Amount, res ter.Result) {
	taker := c.account
	paid, got = takerPays.ZeroClone(), takerGets.ZeroClone()
	takeQuality := amount.GetRate(takerGets, takerPays)

	// Offers found unusable, and offers this crossing emptied or unfunded.
	unfundedFound, unfundedBecame := mapset.NewSet(), mapset.NewSet()
	touched := mapset.NewSet()

	end := keylet.QualityNext(bookBase)
	tip := bookBase
	advance := c.es.DirNode(tip) == nil

	for done := false; !done; {
		if advance {
			next, ok := c.es.Succ(tip, end)
			if !ok {
				log.Trace("takeOffers: book exhausted", "book", bookBase)
				break
			}
			tip = next
		}
		advance = true

		tipQuality := keylet.GetQuality(tip)
		if tipQuality > takeQuality || (passive && tipQuality == takeQuality) {
			log.Trace("takeOffers: quality not acceptable", "tip", tipQuality, "take", takeQuality, "passive", passive)
			break
		}

		dir, index, ok := c.es.DirFirst(tip)
		for ; ok; index, ok = c.es.DirNext(dir) {
			restPays, err := subFloor(takerPays, paid)
			if err != nil {
				return paid, got, ter.TefEXCEPTION
			}
			restGets, err := subFloor(takerGets, got)
			if err != nil {
				return paid, got, ter.TefEXCEPTION
			}
			takerFunds := amount.Min(restPays, c.es.AccountFunds(taker, takerPays))
			if !restPays.IsPositive() || !restGets.IsPositive() || !takerFunds.IsPositive() {
				done = true
				break
			}

			offer := c.es.Offer(index)
			if offer == nil {
				log.Warn("takeOffers: directory names missing offer", "index", index)
				return paid, got, ter.TefBAD_LEDGER
			}
			owner := offer.Account

			if offer.Expired(c.now) || owner == taker ||
				!offer.TakerPays.IsPositive() || !offer.TakerGets.IsPositive() {
				log.Trace("takeOffers: skipping offer", "index", index, "owner", owner)
				unfundedFound.Add(index)
				continue
			}
			offerFunds := c.es.AccountFunds(owner, offer.TakerGets)
			if !offerFunds.IsPositive() {
				if touched.Contains(owner) {
					unfundedBecame.Add(index)
				} else {
					unfundedFound.Add(index)
				}
				continue
			}

			fill, err := amount.ApplyOffer(
				c.es.RippleTransferRateBetween(taker, owner, takerPays.Issuer()),
				c.es.RippleTransferRateBetween(owner, taker, takerGets.Issuer()),
				offerFunds, takerFunds,
				offer.TakerGets, offer.TakerPays,
				restPays, restGets,
			)
			if err != nil {
				log.Error("takeOffers: apply offer failed", "index", index, "err", err)
				return paid, got, ter.TefEXCEPTION
			}
			if log.IsTraceEnabled() {
				log.Trace("takeOffers: fill", "index", index, "paid", fill.TakerPaid.FullText(), "got", fill.TakerGot.FullText(),
					"takerFee", fill.TakerIssuerFee.FullText(), "offerFee", fill.OfferIssuerFee.FullText(), "consumed", fill.Consumed)
			}

			if offer.TakerGets, err = subFloor(offer.TakerGets, fill.TakerGot); err != nil {
				return paid, got, ter.TefEXCEPTION
			}
			if offer.TakerPays, err = subFloor(offer.TakerPays, fill.TakerPaid); err != nil {
				return paid, got, ter.TefEXCEPTION
			}
			c.es.EntryModify(index, offer)
			if fill.Consumed {
				unfundedBecame.Add(index)
			}
			touched.Add(owner)

			// Transfer fees are charged by the sends themselves.
			if res = c.es.AccountSend(owner, taker, fill.TakerGot); res != ter.TesSUCCESS {
				return paid, got, res
			}
			if res = c.es.AccountSend(taker, owner, fill.TakerPaid); res != ter.TesSUCCESS {
				return paid, got, res
			}
			if paid, err = amount.Add(paid, fill.TakerPaid); err != nil {
				return paid, got, ter.TefEXCEPTION
			}
			if got, err = amount.Add(got, fill.TakerGot); err != nil {
				return paid, got, ter.TefEXCEPTION
			}
			c.engine.metrics.OfferTaken()
		}
	}

	for _, set := range []mapset.Set{unfundedFound, unfundedBecame} {
		for _, key := range sortedKeys(set) {
			if c.es.Offer(key) == nil {
				continue
			}
			if res = c.es.OfferDelete(key); res != ter.TesSUCCESS {
				return paid, got, res
			}
		}
	}
	return paid, got, ter.TesSUCCESS
}

func sortedKeys(s mapset.Set) []types.Hash256 {
	keys := make([]types.Hash256, 0, s.Cardinality())
	for _, v := range s.ToSlice() {
		keys = append(keys, v.(types.Hash256))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })
	return keys
}

// subFloor is a-b, never below zero.
func subFloor(a, b amount.Amount) (amount.Amount, error) {
	r, err := amount.Subtract(a, b)
	if err != nil {
		return amount.Amount{}, err
	}
	if r.IsNegative() {
		return r.ZeroClone(), nil
	}
	return r, nil
}
