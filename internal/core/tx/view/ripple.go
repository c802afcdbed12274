package view

import (
	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/types"
)

func accountKey(id types.AccountID) types.Hash256 {
	return keylet.Account(id).Key
}

func lineKey(a, b types.AccountID, currency types.Currency) types.Hash256 {
	return keylet.Line(a, b, currency).Key
}

// OwnerCountAdjust changes owner's OwnerCount by delta. A change that would
// take the count below zero is ignored. root may be nil, in which case the
// account is looked up.
func (s *EntrySet) OwnerCountAdjust(owner types.AccountID, delta int, root *entry.AccountRoot) {
	if root == nil {
		root = s.AccountRoot(owner)
		if root == nil {
			panic("view: owner count adjust on missing account " + owner.String())
		}
	}
	if int64(root.OwnerCount)+int64(delta) < 0 {
		return
	}
	root.OwnerCount = uint32(int64(root.OwnerCount) + int64(delta))
	s.EntryModify(accountKey(owner), root)
}

// OfferDelete removes an offer from its owner's directory and its book and
// deletes it. The book keeps its order; the owner directory does not.
func (s *EntrySet) OfferDelete(key types.Hash256) ter.Result {
	offer := s.Offer(key)
	if offer == nil {
		log.Warn("offerDelete: no such offer", "offer", key)
		return ter.TefBAD_LEDGER
	}
	return s.offerDelete(key, offer)
}

func (s *EntrySet) offerDelete(key types.Hash256, offer *entry.Offer) ter.Result {
	owner := offer.Account
	res := s.DirDelete(false, offer.OwnerNode, keylet.OwnerDir(owner).Key, key, false)
	if res == ter.TesSUCCESS {
		s.OwnerCountAdjust(owner, -1, nil)
		res = s.DirDelete(false, offer.BookNode, offer.BookDirectory, key, true)
	}
	s.EntryDelete(key, offer)
	return res
}

// RippleOwed returns what to owes from on their line: positive when from
// holds to's IOUs, negative when from owes to. The result is issued by to.
func (s *EntrySet) RippleOwed(to, from types.AccountID, currency types.Currency) amount.Amount {
	line := s.RippleState(to, from, currency)
	if line == nil {
		log.Info("rippleOwed: no credit line", "from", from, "to", to, "currency", currency)
		return amount.Zero(currency, to)
	}
	bal := line.Balance
	if to.Less(from) {
		bal = bal.Negate()
	}
	return bal.WithIssuer(to)
}

// RippleLimit returns the most of from's IOUs to will hold, issued by to.
func (s *EntrySet) RippleLimit(to, from types.AccountID, currency types.Currency) amount.Amount {
	line := s.RippleState(to, from, currency)
	if line == nil {
		return amount.Zero(currency, to)
	}
	limit := line.HighLimit
	if to.Less(from) {
		limit = line.LowLimit
	}
	return limit.WithIssuer(to)
}

// RippleTransferRate returns the transfer rate issuer charges on its IOUs
// changing hands, QualityOne when it charges nothing.
func (s *EntrySet) RippleTransferRate(issuer types.AccountID) uint32 {
	root := s.AccountRoot(issuer)
	if root == nil || root.TransferRate == 0 {
		return amount.QualityOne
	}
	return root.TransferRate
}

// RippleTransferRateBetween is the rate charged when sender pays receiver
// in issuer's IOUs. Nothing is charged when either side is the issuer.
func (s *EntrySet) RippleTransferRateBetween(sender, receiver, issuer types.AccountID) uint32 {
	if sender == issuer || receiver == issuer {
		return amount.QualityOne
	}
	return s.RippleTransferRate(issuer)
}

// RippleQualityIn is the rate at which to values from's IOUs arriving on
// their line.
func (s *EntrySet) RippleQualityIn(to, from types.AccountID, currency types.Currency) uint32 {
	return s.rippleQuality(to, from, currency, true)
}

// RippleQualityOut is the rate at which to values its IOUs leaving toward
// from.
func (s *EntrySet) RippleQualityOut(to, from types.AccountID, currency types.Currency) uint32 {
	return s.rippleQuality(to, from, currency, false)
}

func (s *EntrySet) rippleQuality(to, from types.AccountID, currency types.Currency, in bool) uint32 {
	if to == from {
		return amount.QualityOne
	}
	line := s.RippleState(to, from, currency)
	if line == nil {
		return amount.QualityOne
	}
	var q uint32
	switch low := to.Less(from); {
	case in && low:
		q = line.LowQualityIn
	case in:
		q = line.HighQualityIn
	case low:
		q = line.LowQualityOut
	default:
		q = line.HighQualityOut
	}
	// An unset quality means par.
	if q == 0 {
		return amount.QualityOne
	}
	return q
}

// RippleHolds returns how many of issuer's IOUs account holds. It is
// negative when account owes issuer.
func (s *EntrySet) RippleHolds(account types.AccountID, currency types.Currency, issuer types.AccountID) amount.Amount {
	line := s.RippleState(account, issuer, currency)
	if line == nil {
		return amount.Zero(currency, issuer)
	}
	bal := line.Balance
	if issuer.Less(account) {
		bal = bal.Negate()
	}
	return bal.WithIssuer(issuer)
}

// AccountHolds returns what account can spend of currency/issuer. For the
// native currency the reserve for the account's owned entries is held back.
func (s *EntrySet) AccountHolds(account types.AccountID, currency types.Currency, issuer types.AccountID) amount.Amount {
	if !currency.IsNative() {
		return s.RippleHolds(account, currency, issuer)
	}
	root := s.AccountRoot(account)
	if root == nil {
		return amount.NewNative(0)
	}
	reserve := int64(s.fees.AccountReserve(root.OwnerCount))
	bal := root.Balance.Drops()
	if bal < reserve {
		return amount.NewNative(0)
	}
	return amount.NewNative(bal - reserve)
}

// AccountFunds returns what account can spend of def's currency and
// issuer. An issuer's funds in its own IOUs are unlimited, reported as def.
func (s *EntrySet) AccountFunds(account types.AccountID, def amount.Amount) amount.Amount {
	if !def.IsNative() && def.Issuer() == account {
		return def
	}
	return s.AccountHolds(account, def.Currency(), def.Issuer())
}

// RippleTransferFee returns the fee issuer charges on amt moving from
// sender to receiver.
func (s *EntrySet) RippleTransferFee(sender, receiver, issuer types.AccountID, amt amount.Amount) (amount.Amount, error) {
	rate := s.RippleTransferRateBetween(sender, receiver, issuer)
	if rate == amount.QualityOne {
		return amt.ZeroClone(), nil
	}
	gross, err := amount.MulRatio(amt, rate, amount.QualityOne)
	if err != nil {
		return amount.Amount{}, err
	}
	return amount.Subtract(gross, amt)
}

// TrustLine describes the source side of a trust line being created.
type TrustLine struct {
	// SrcHigh is set when the source sorts above the destination.
	SrcHigh bool
	Src     types.AccountID
	// SrcRoot is the source's account root, charged the reserve.
	SrcRoot *entry.AccountRoot
	Dst     types.AccountID
	Key     types.Hash256
	// Balance is the source's balance on the line in its own terms:
	// negative when the source owes the destination.
	Balance    amount.Amount
	Limit      amount.Amount
	QualityIn  uint32
	QualityOut uint32
}

// TrustCreate creates a trust line, links it into both owners' directories
// and charges the source one owned entry.
func (s *EntrySet) TrustCreate(t TrustLine) ter.Result {
	low, high := t.Src, t.Dst
	if t.SrcHigh {
		low, high = t.Dst, t.Src
	}

	lowNode, res := s.DirAdd(keylet.OwnerDir(low).Key, t.Key, OwnerDirDescriber(low))
	if res != ter.TesSUCCESS {
		return res
	}
	highNode, res := s.DirAdd(keylet.OwnerDir(high).Key, t.Key, OwnerDirDescriber(high))
	if res != ter.TesSUCCESS {
		return res
	}

	currency := t.Balance.Currency()
	line := &entry.RippleState{
		LowNode:  lowNode,
		HighNode: highNode,
	}
	srcLimit := t.Limit.WithIssuer(t.Src)
	dstLimit := amount.Zero(currency, t.Dst)
	bal := t.Balance.WithIssuer(types.AccountOne)
	if t.SrcHigh {
		line.HighLimit, line.LowLimit = srcLimit, dstLimit
		line.HighQualityIn, line.HighQualityOut = t.QualityIn, t.QualityOut
		line.Flags = entry.RippleStateHighReserve
		bal = bal.Negate()
	} else {
		line.LowLimit, line.HighLimit = srcLimit, dstLimit
		line.LowQualityIn, line.LowQualityOut = t.QualityIn, t.QualityOut
		line.Flags = entry.RippleStateLowReserve
	}
	line.Balance = bal
	s.EntryCreate(t.Key, line)

	s.OwnerCountAdjust(t.Src, 1, t.SrcRoot)
	return ter.TesSUCCESS
}

// RippleCredit moves amt directly between sender and receiver on their
// line without fees, creating the line when there is none.
func (s *EntrySet) RippleCredit(sender, receiver types.AccountID, amt amount.Amount) ter.Result {
	currency := amt.Currency()
	senderHigh := receiver.Less(sender)
	key := lineKey(sender, receiver, currency)

	line := s.RippleState(sender, receiver, currency)
	if line == nil {
		log.Debug("rippleCredit: create line", "sender", sender, "receiver", receiver, "amount", amt.FullText())
		return s.TrustCreate(TrustLine{
			SrcHigh: senderHigh,
			Src:     sender,
			SrcRoot: s.AccountRoot(sender),
			Dst:     receiver,
			Key:     key,
			Balance: amt.Negate(),
			Limit:   amount.Zero(currency, sender),
		})
	}

	// The stored balance is from the low side; work in the sender's terms.
	bal := line.Balance
	if !senderHigh {
		bal = bal.Negate()
	}
	bal, err := amount.Add(bal, amt.WithIssuer(bal.Issuer()))
	if err != nil {
		log.Warn("rippleCredit: balance overflow", "sender", sender, "receiver", receiver, "err", err)
		return ter.TefEXCEPTION
	}
	if !senderHigh {
		bal = bal.Negate()
	}
	line.Balance = bal
	s.EntryModify(key, line)
	return ter.TesSUCCESS
}

// RippleSend delivers amt to receiver regardless of limits and returns what
// the sender actually paid. Third-party IOUs pass through their issuer,
// which charges its transfer fee to the sender.
func (s *EntrySet) RippleSend(sender, receiver types.AccountID, amt amount.Amount) (amount.Amount, ter.Result) {
	issuer := amt.Issuer()
	if sender == issuer || receiver == issuer || issuer == types.AccountOne {
		return amt, s.RippleCredit(sender, receiver, amt)
	}

	fee, err := s.RippleTransferFee(sender, receiver, issuer, amt)
	if err != nil {
		return amount.Amount{}, ter.TefEXCEPTION
	}
	actual, err := amount.Add(amt, fee)
	if err != nil {
		return amount.Amount{}, ter.TefEXCEPTION
	}
	actual = actual.WithIssuer(issuer)

	if res := s.RippleCredit(issuer, receiver, amt); res != ter.TesSUCCESS {
		return actual, res
	}
	return actual, s.RippleCredit(sender, issuer, actual)
}

// AccountSend moves amt from sender to receiver: native amounts between
// balances, IOUs through RippleSend. A zero sender or receiver is the
// native pseudo-account and is not debited or credited.
func (s *EntrySet) AccountSend(sender, receiver types.AccountID, amt amount.Amount) ter.Result {
	if amt.IsNegative() {
		panic("view: account send of negative amount " + amt.FullText())
	}
	if amt.IsZero() {
		return ter.TesSUCCESS
	}
	if !amt.IsNative() {
		_, res := s.RippleSend(sender, receiver, amt)
		return res
	}

	if !sender.IsZero() {
		root := s.AccountRoot(sender)
		if root != nil {
			root.Balance = amount.NewNative(root.Balance.Drops() - amt.Drops())
			s.EntryModify(accountKey(sender), root)
		}
	}
	if !receiver.IsZero() {
		root := s.AccountRoot(receiver)
		if root != nil {
			root.Balance = amount.NewNative(root.Balance.Drops() + amt.Drops())
			s.EntryModify(accountKey(receiver), root)
		}
	}
	if log.IsTraceEnabled() {
		log.Trace("accountSend", "sender", sender, "receiver", receiver, "amount", amt.FullText())
	}
	return ter.TesSUCCESS
}
