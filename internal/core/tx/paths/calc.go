package paths

import (
	"fmt"

	mapset "github.com/deckarep/golang-set"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/core/tx/view"
	"github.com/LeJamon/goRippled/internal/metrics"
	"github.com/LeJamon/goRippled/internal/types"
)

// rateOne is the quality of an even exchange.
var rateOne = amount.GetRate(amount.FromRate(amount.QualityOne), amount.FromRate(amount.QualityOne))

// calcFault aborts a calculation on an amount error. RippleCalc turns it
// into tefEXCEPTION.
type calcFault struct {
	err error
}

func (f calcFault) Error() string { return fmt.Sprintf("ripple calc: %v", f.err) }

func must(a amount.Amount, err error) amount.Amount {
	if err != nil {
		panic(calcFault{err})
	}
	return a
}

func add(a, b amount.Amount) amount.Amount { return must(amount.Add(a, b)) }
func sub(a, b amount.Amount) amount.Amount { return must(amount.Subtract(a, b)) }

func mul(a, b amount.Amount, like amount.Amount) amount.Amount {
	return must(amount.Multiply(a, b, like.Currency(), like.Issuer()))
}

func div(a, b amount.Amount, like amount.Amount) amount.Amount {
	return must(amount.Divide(a, b, like.Currency(), like.Issuer()))
}

func mulRatio(a amount.Amount, num, den uint32) amount.Amount {
	return must(amount.MulRatio(a, num, den))
}

// subFloor is a-b, never below zero.
func subFloor(a, b amount.Amount) amount.Amount {
	r := sub(a, b)
	if r.IsNegative() {
		return r.ZeroClone()
	}
	return r
}

// calc holds what one payment learns across passes.
type calc struct {
	active  *view.EntrySet
	now     uint32
	metrics *metrics.Metrics

	// source maps lines used by earlier passes to the node that used them.
	source map[issueKey]int
	// unfundedFound holds offers found unfunded or expired, removed however
	// the payment ends.
	unfundedFound mapset.Set
}

func newCalc(active *view.EntrySet, now uint32, m *metrics.Metrics) *calc {
	return &calc{
		active:        active,
		now:           now,
		metrics:       m,
		source:        make(map[issueKey]int),
		unfundedFound: mapset.NewSet(),
	}
}

// ripple moves value across one account node at the exchange qualityIn ->
// qualityOut. prvReq < 0 means the previous side is unlimited. Acts are
// advanced by what fits; rateMax keeps a later call in the same node from
// using a worse rate than an earlier one.
func (c *calc) ripple(qualityIn, qualityOut uint32, prvReq, curReq amount.Amount, prvAct, curAct *amount.Amount, rateMax *uint64) {
	prvUnlimited := prvReq.IsNegative()
	prv := prvReq
	if !prvUnlimited {
		prv = sub(prvReq, *prvAct)
	}
	cur := sub(curReq, *curAct)

	if qualityIn >= qualityOut {
		if *rateMax != 0 && rateOne > *rateMax {
			return
		}
		transfer := cur
		if !prvUnlimited {
			transfer = amount.Min(prv, cur)
		}
		*prvAct = add(*prvAct, transfer)
		*curAct = add(*curAct, transfer)
		if *rateMax == 0 {
			*rateMax = rateOne
		}
		return
	}

	rate := amount.GetRate(amount.FromRate(qualityIn), amount.FromRate(qualityOut))
	if *rateMax != 0 && rate > *rateMax {
		return
	}
	curIn := mulRatio(cur, qualityOut, qualityIn)
	if prvUnlimited || curIn.LessEqual(prv) {
		*curAct = add(*curAct, cur)
		*prvAct = add(*prvAct, curIn)
	} else {
		*curAct = add(*curAct, mulRatio(prv, qualityIn, qualityOut))
		*prvAct = prvReq
	}
	if *rateMax == 0 {
		*rateMax = rate
	}
}

// accountNeighbours describes an account node's position in the path.
type accountNeighbours struct {
	prv, cur, nxt          *Node
	prvAccount, nxtAccount bool
	prvID, curID, nxtID    types.AccountID
	currency               types.Currency
}

func neighbours(st *State, idx int, reverse bool) accountNeighbours {
	last := len(st.Nodes) - 1
	n := accountNeighbours{
		prv: &st.Nodes[max(idx-1, 0)],
		cur: &st.Nodes[idx],
		nxt: &st.Nodes[min(idx+1, last)],
	}
	n.prvAccount = n.prv.IsAccount()
	n.nxtAccount = n.nxt.IsAccount()
	if reverse {
		n.prvAccount = idx == 0 || n.prvAccount
		n.nxtAccount = idx == last || n.nxtAccount
	}
	n.curID = n.cur.Account
	n.prvID, n.nxtID = n.curID, n.curID
	if n.prvAccount {
		n.prvID = n.prv.Account
	}
	if n.nxtAccount {
		n.nxtID = n.nxt.Account
	}
	n.currency = n.cur.Currency
	return n
}

func (c *calc) qualities(st *State, idx int, n accountNeighbours) (in, out uint32) {
	in, out = amount.QualityOne, amount.QualityOne
	if n.currency.IsNative() {
		return in, out
	}
	if idx != 0 {
		in = c.active.RippleQualityIn(n.curID, n.prvID, n.currency)
	}
	if idx != len(st.Nodes)-1 {
		out = c.active.RippleQualityOut(n.curID, n.nxtID, n.currency)
	}
	return in, out
}

// accountRev works out what the previous node must send this account for it
// to pass on what the next node asked for. Redeeming held IOUs comes before
// issuing new ones. No balances change.
func (c *calc) accountRev(idx int, st *State) ter.Result {
	last := len(st.Nodes) - 1
	n := neighbours(st, idx, true)
	prv, cur := n.prv, n.cur
	qualityIn, qualityOut := c.qualities(st, idx, n)
	var rateMax uint64

	// What the previous account may redeem or issue on its line to us.
	prvOwed := amount.Zero(n.currency, n.curID)
	prvLimit := amount.Zero(n.currency, n.curID)
	if n.prvAccount && idx != 0 && !n.currency.IsNative() {
		prvOwed = c.active.RippleOwed(n.curID, n.prvID, n.currency)
		prvLimit = c.active.RippleLimit(n.curID, n.prvID, n.currency)
	}
	prvRedeemReq := prvOwed.ZeroClone()
	if prvOwed.IsPositive() {
		prvRedeemReq = prvOwed
	}
	prvIssueReq := prvLimit
	if prvOwed.IsNegative() {
		prvIssueReq = add(prvLimit, prvOwed)
	}
	if prvIssueReq.IsNegative() {
		prvIssueReq = prvIssueReq.ZeroClone()
	}
	prvDeliverReq := amount.FromInt(n.currency, n.curID, -1)

	curRedeemReq, curIssueReq, curDeliverReq := cur.RevRedeem, cur.RevIssue, cur.RevDeliver
	curRedeemAct, curIssueAct, curDeliverAct := curRedeemReq.ZeroClone(), curIssueReq.ZeroClone(), curDeliverReq.ZeroClone()

	switch {
	case idx == 0:
		// The source has nobody to ask.

	case n.prvAccount && n.nxtAccount && idx == last:
		// account -> destination: take what is still wanted, up to the
		// room on the line.
		wantedReq := amount.Min(sub(st.OutReq, st.OutAct), add(prvLimit, prvOwed))
		if !wantedReq.IsPositive() {
			return ter.TepPATH_DRY
		}
		wantedAct := wantedReq.ZeroClone()

		prv.RevRedeem = prvRedeemReq.ZeroClone()
		if prvRedeemReq.IsPositive() {
			wantedAct = amount.Min(prvRedeemReq, wantedReq)
			prv.RevRedeem = wantedAct
			rateMax = rateOne
		}
		prv.RevIssue = prvRedeemReq.ZeroClone()
		if !wantedReq.Equal(wantedAct) && prvIssueReq.IsPositive() {
			c.ripple(qualityIn, amount.QualityOne, prvIssueReq, wantedReq, &prv.RevIssue, &wantedAct, &rateMax)
		}
		if wantedAct.IsZero() {
			return ter.TepPATH_DRY
		}

	case n.prvAccount && n.nxtAccount:
		// account -> account -> account
		prv.RevRedeem = prvRedeemReq.ZeroClone()
		prv.RevIssue = prvRedeemReq.ZeroClone()

		if !curRedeemReq.IsZero() && !prvRedeemReq.IsZero() {
			c.ripple(amount.QualityOne, qualityOut, prvRedeemReq, curRedeemReq, &prv.RevRedeem, &curRedeemAct, &rateMax)
		}
		if !curRedeemReq.Equal(curRedeemAct) && prv.RevRedeem.Equal(prvRedeemReq) {
			c.ripple(qualityIn, qualityOut, prvIssueReq, curRedeemReq, &prv.RevIssue, &curRedeemAct, &rateMax)
		}
		if !curIssueReq.IsZero() && curRedeemAct.Equal(curRedeemReq) && !prv.RevRedeem.Equal(prvRedeemReq) {
			c.ripple(amount.QualityOne, c.active.RippleTransferRate(n.curID), prvRedeemReq, curIssueReq, &prv.RevRedeem, &curIssueAct, &rateMax)
		}
		if !curIssueReq.Equal(curIssueAct) && curRedeemAct.Equal(curRedeemReq) &&
			prvRedeemReq.Equal(prv.RevRedeem) && !prvIssueReq.IsZero() {
			c.ripple(qualityIn, amount.QualityOne, prvIssueReq, curIssueReq, &prv.RevIssue, &curIssueAct, &rateMax)
		}
		if curRedeemAct.IsZero() && curIssueAct.IsZero() {
			return ter.TepPATH_DRY
		}

	case n.prvAccount:
		// account -> issuer -> offer. The issuer hands its own IOUs to the
		// book, so this is always delivery.
		prv.RevRedeem = prvRedeemReq.ZeroClone()
		prv.RevIssue = prvRedeemReq.ZeroClone()

		if prvOwed.IsPositive() && !curDeliverReq.IsZero() {
			c.ripple(amount.QualityOne, c.active.RippleTransferRate(n.curID), prvRedeemReq, curDeliverReq, &prv.RevRedeem, &curDeliverAct, &rateMax)
		}
		if prvRedeemReq.Equal(prv.RevRedeem) && !curDeliverReq.Equal(curDeliverAct) {
			c.ripple(qualityIn, amount.QualityOne, prvIssueReq, curDeliverReq, &prv.RevIssue, &curDeliverAct, &rateMax)
		}
		if curDeliverAct.IsZero() {
			return ter.TepPATH_DRY
		}

	case n.nxtAccount && idx == last:
		// offer -> destination
		prv.RevDeliver = prv.zero()
		wantedReq := sub(st.OutReq, st.OutAct)
		if !wantedReq.IsPositive() {
			return ter.TepPATH_DRY
		}
		wantedAct := wantedReq.ZeroClone()
		c.ripple(qualityIn, amount.QualityOne, prvDeliverReq, wantedReq, &prv.RevDeliver, &wantedAct, &rateMax)
		if wantedAct.IsZero() {
			return ter.TepPATH_DRY
		}

	case n.nxtAccount:
		// offer -> issuer -> account. The book delivers the issuer's own
		// IOUs back to it.
		prv.RevDeliver = prv.zero()
		if !curRedeemReq.IsZero() {
			c.ripple(amount.QualityOne, qualityOut, prvDeliverReq, curRedeemReq, &prv.RevDeliver, &curRedeemAct, &rateMax)
		}
		if curRedeemReq.Equal(curRedeemAct) && !curIssueReq.IsZero() {
			c.ripple(amount.QualityOne, c.active.RippleTransferRate(n.curID), prvDeliverReq, curIssueReq, &prv.RevDeliver, &curIssueAct, &rateMax)
		}
		if prv.RevDeliver.IsZero() {
			return ter.TepPATH_DRY
		}

	default:
		// offer -> issuer -> offer
		prv.RevDeliver = prv.zero()
		c.ripple(amount.QualityOne, c.active.RippleTransferRate(n.curID), prvDeliverReq, curDeliverReq, &prv.RevDeliver, &curDeliverAct, &rateMax)
		if curDeliverAct.IsZero() {
			return ter.TepPATH_DRY
		}
	}
	return ter.TesSUCCESS
}

// accountFwd pushes what the previous node actually sent through this
// account and adjusts the balances on the way.
func (c *calc) accountFwd(idx int, st *State) ter.Result {
	last := len(st.Nodes) - 1
	n := neighbours(st, idx, false)
	prv, cur := n.prv, n.cur
	qualityIn, qualityOut := c.qualities(st, idx, n)
	var rateMax uint64

	prvRedeemReq, prvIssueReq, prvDeliverReq := prv.FwdRedeem, prv.FwdIssue, prv.FwdDeliver
	prvRedeemAct, prvIssueAct, prvDeliverAct := prvRedeemReq.ZeroClone(), prvIssueReq.ZeroClone(), prvDeliverReq.ZeroClone()

	limited := !st.InReq.IsNegative()

	switch {
	case n.prvAccount && n.nxtAccount && idx == 0:
		// source -> account: send what was asked for, within SendMax.
		cur.FwdRedeem = cur.RevRedeem
		if limited {
			cur.FwdRedeem = amount.Min(cur.FwdRedeem, sub(st.InReq, st.InAct))
		}
		st.InPass = add(st.InReq.ZeroClone(), cur.FwdRedeem)

		cur.FwdIssue = cur.RevIssue.ZeroClone()
		if cur.FwdRedeem.Equal(cur.RevRedeem) {
			cur.FwdIssue = cur.RevIssue
		}
		if !cur.FwdIssue.IsZero() && limited {
			cur.FwdIssue = amount.Min(cur.FwdIssue, sub(sub(st.InReq, st.InAct), cur.FwdRedeem))
		}
		st.InPass = add(st.InPass, cur.FwdIssue)

	case n.prvAccount && n.nxtAccount && idx == last:
		// account -> destination: accept everything and value issued IOUs
		// at the line's quality.
		issueCredit := prvIssueReq
		if qualityIn < amount.QualityOne {
			issueCredit = mulRatio(prvIssueReq, qualityIn, amount.QualityOne)
		}
		st.OutPass = add(add(st.OutReq.ZeroClone(), prvRedeemReq), issueCredit)
		return c.active.RippleCredit(n.prvID, n.curID, add(prvRedeemReq, prvIssueReq))

	case n.prvAccount && n.nxtAccount:
		// account -> account -> account
		cur.FwdRedeem = cur.RevRedeem.ZeroClone()
		cur.FwdIssue = cur.RevIssue.ZeroClone()

		if !prvRedeemReq.IsZero() && !cur.RevRedeem.IsZero() {
			c.ripple(amount.QualityOne, qualityOut, prvRedeemReq, cur.RevRedeem, &prvRedeemAct, &cur.FwdRedeem, &rateMax)
		}
		if !prvIssueReq.Equal(prvIssueAct) && !cur.RevRedeem.Equal(cur.FwdRedeem) {
			c.ripple(qualityIn, qualityOut, prvIssueReq, cur.RevRedeem, &prvIssueAct, &cur.FwdRedeem, &rateMax)
		}
		if !prvRedeemReq.Equal(prvRedeemAct) && cur.RevRedeem.Equal(cur.FwdRedeem) && !cur.RevIssue.IsZero() {
			c.ripple(amount.QualityOne, c.active.RippleTransferRate(n.curID), prvRedeemReq, cur.RevIssue, &prvRedeemAct, &cur.FwdIssue, &rateMax)
		}
		if !prvIssueReq.Equal(prvIssueAct) && cur.RevRedeem.Equal(cur.FwdRedeem) {
			c.ripple(qualityIn, amount.QualityOne, prvIssueReq, cur.RevIssue, &prvIssueAct, &cur.FwdIssue, &rateMax)
		}
		return c.active.RippleCredit(n.prvID, n.curID, add(prvRedeemReq, prvIssueReq))

	case n.prvAccount && idx != 0:
		// account -> issuer -> offer. The funds stay with the issuer until
		// the book takes them.
		cur.FwdDeliver = cur.RevDeliver.ZeroClone()
		if !prvRedeemReq.IsZero() {
			c.ripple(amount.QualityOne, c.active.RippleTransferRate(n.curID), prvRedeemReq, cur.RevDeliver, &prvRedeemAct, &cur.FwdDeliver, &rateMax)
		}
		if prvRedeemReq.Equal(prvRedeemAct) && !prvIssueReq.IsZero() {
			c.ripple(qualityIn, amount.QualityOne, prvIssueReq, cur.RevDeliver, &prvIssueAct, &cur.FwdDeliver, &rateMax)
		}
		return c.active.RippleCredit(n.prvID, n.curID, add(prvRedeemReq, prvIssueReq))

	case n.prvAccount:
		// source -> offer. Native funds go to limbo; a non-native source is
		// the issuer and has nothing to move.
		cur.FwdDeliver = cur.RevDeliver
		if limited {
			cur.FwdDeliver = amount.Min(cur.FwdDeliver, sub(st.InReq, st.InAct))
		}
		if n.currency.IsNative() {
			cur.FwdDeliver = amount.Min(cur.FwdDeliver, c.active.AccountHolds(n.curID, types.CurrencyXRP, types.AccountXRP))
		}
		st.InPass = add(st.InReq.ZeroClone(), cur.FwdDeliver)
		if n.currency.IsNative() {
			return c.active.AccountSend(n.curID, types.AccountXRP, cur.FwdDeliver)
		}

	case n.nxtAccount && idx == last:
		// offer -> destination. The book already paid the destination.
		st.OutPass = add(st.OutReq.ZeroClone(), prvDeliverReq)

	case n.nxtAccount:
		// offer -> issuer -> account. The next node moves the balance.
		cur.FwdRedeem = cur.RevRedeem.ZeroClone()
		cur.FwdIssue = cur.RevIssue.ZeroClone()
		if !prvDeliverReq.IsZero() && !cur.RevRedeem.IsZero() {
			c.ripple(amount.QualityOne, qualityOut, prvDeliverReq, cur.RevRedeem, &prvDeliverAct, &cur.FwdRedeem, &rateMax)
		}
		if !prvDeliverReq.Equal(prvDeliverAct) && cur.RevRedeem.Equal(cur.FwdRedeem) && !cur.RevIssue.IsZero() {
			c.ripple(amount.QualityOne, c.active.RippleTransferRate(n.curID), prvDeliverReq, cur.RevIssue, &prvDeliverAct, &cur.FwdIssue, &rateMax)
		}

	default:
		// offer -> issuer -> offer
		cur.FwdDeliver = cur.RevDeliver.ZeroClone()
		if !prvDeliverReq.IsZero() && !cur.RevDeliver.IsZero() {
			c.ripple(amount.QualityOne, c.active.RippleTransferRate(n.curID), prvDeliverReq, cur.RevDeliver, &prvDeliverAct, &cur.FwdDeliver, &rateMax)
		}
	}
	return ter.TesSUCCESS
}

// calcNodeRev runs the reverse pass from idx back to the source.
func (c *calc) calcNodeRev(idx int, st *State, multiQuality bool) ter.Result {
	cur := &st.Nodes[idx]
	cur.TransferRate = c.active.RippleTransferRate(cur.Issuer)

	var res ter.Result
	if cur.IsAccount() {
		res = c.accountRev(idx, st)
	} else {
		res = c.offerRev(idx, st, multiQuality)
	}
	if res == ter.TesSUCCESS && idx > 0 {
		res = c.calcNodeRev(idx-1, st, multiQuality)
	}
	return res
}

// calcNodeFwd runs the forward pass from idx to the destination.
func (c *calc) calcNodeFwd(idx int, st *State, multiQuality bool) ter.Result {
	var res ter.Result
	if st.Nodes[idx].IsAccount() {
		res = c.accountFwd(idx, st)
	} else {
		res = c.offerFwd(idx, st, multiQuality)
	}
	if res == ter.TesSUCCESS && idx+1 < len(st.Nodes) {
		res = c.calcNodeFwd(idx+1, st, multiQuality)
	}
	return res
}
