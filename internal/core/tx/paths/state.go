package paths

import (
	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/core/tx/view"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/types"
)

// issueKey names a source of funds: an account holding currency from
// issuer. Offer nodes use the zero account.
type issueKey struct {
	account  types.AccountID
	currency types.Currency
	issuer   types.AccountID
}

// Node is one hop of an expanded path. An account node ripples between its
// neighbours; an offer node (zero Account) converts through the book that
// pays Currency/Issuer.
type Node struct {
	Type     uint8
	Account  types.AccountID
	Currency types.Currency
	Issuer   types.AccountID

	// TransferRate is the rate Issuer charges, refreshed each reverse pass.
	TransferRate uint32
	// rateMax keeps an offer node from mixing in offers whose fee rate is
	// worse than the first one taken in the pass.
	rateMax uint32

	RevRedeem  amount.Amount
	RevIssue   amount.Amount
	RevDeliver amount.Amount
	FwdRedeem  amount.Amount
	FwdIssue   amount.Amount
	FwdDeliver amount.Amount

	book bookCursor
}

// bookCursor is an offer node's position in its order book.
type bookCursor struct {
	directTip     types.Hash256
	directEnd     types.Hash256
	directAdvance bool
	dir           *view.DirCursor
	ofrRate       amount.Amount

	entryAdvance bool
	offerIndex   types.Hash256
	owner        types.AccountID
	fundsDirty   bool
	offerFunds   amount.Amount
	takerPays    amount.Amount
	takerGets    amount.Amount
}

func (n *Node) IsAccount() bool { return n.Type&TypeAccount != 0 }

func (n *Node) zero() amount.Amount { return amount.Zero(n.Currency, n.Issuer) }

// resetPass clears what a previous pass left behind.
func (n *Node) resetPass() {
	z := n.zero()
	n.rateMax = 0
	n.RevRedeem, n.RevIssue, n.RevDeliver = z, z, z
	n.FwdRedeem, n.FwdIssue, n.FwdDeliver = z, z, z
	n.book = bookCursor{}
}

// State is one candidate path and the outcome of its latest pass.
type State struct {
	index  int
	Nodes  []Node
	Status ter.Result
	// Quality of the latest increment, 0 when the path is dry.
	Quality uint64

	InReq   amount.Amount
	InAct   amount.Amount
	InPass  amount.Amount
	OutReq  amount.Amount
	OutAct  amount.Amount
	OutPass amount.Amount

	forward        map[issueKey]int
	reverse        map[issueKey]int
	unfundedBecame []types.Hash256

	// entries starts as a copy of the source set for line lookups during
	// construction, and later holds the ledger state of the path's pass.
	entries *view.EntrySet
}

func endpointType(currency types.Currency) uint8 {
	if currency.IsNative() {
		return TypeAccount | TypeCurrency
	}
	return TypeAccount | TypeCurrency | TypeIssuer
}

// NewState expands path into nodes carrying send from sender to receiver,
// spending at most sendMax. Status reports why the path cannot be used:
// temBAD_PATH, temBAD_PATH_LOOP, terNO_LINE or tepPATH_DRY.
func NewState(index int, source *view.EntrySet, path Path, receiver, sender types.AccountID, send, sendMax amount.Amount) *State {
	st := &State{
		index:   index,
		Quality: 1,
		InReq:   sendMax,
		OutReq:  send,
		forward: make(map[issueKey]int),
		reverse: make(map[issueKey]int),
		entries: source.Duplicate(),
	}
	st.Status = st.expand(path, receiver, sender)
	if st.Status != ter.TesSUCCESS {
		log.Debug("path rejected", "index", index, "path", path, "result", st.Status)
	}
	return st
}

func (st *State) expand(path Path, receiver, sender types.AccountID) ter.Result {
	maxCurrency, maxIssuer := st.InReq.Currency(), st.InReq.Issuer()
	outCurrency, outIssuer := st.OutReq.Currency(), st.OutReq.Issuer()

	// The sender is always the issuer of its own non-native funds.
	senderIssuer := types.AccountXRP
	if !maxCurrency.IsNative() {
		senderIssuer = sender
	}

	if len(path) > MaxPathLength {
		return ter.TemBAD_PATH
	}
	if (maxCurrency.IsNative() && !maxIssuer.IsZero()) || (outCurrency.IsNative() && !outIssuer.IsZero()) {
		return ter.TemBAD_PATH
	}

	res := st.pushNode(endpointType(maxCurrency), sender, maxCurrency, senderIssuer)

	if res == ter.TesSUCCESS && maxIssuer != senderIssuer {
		// SendMax names a third-party issuer, which must come next unless the
		// path starts there anyway.
		nxtCurrency := outCurrency
		nxtAccount := types.AccountXRP
		switch {
		case len(path) > 0:
			nxtCurrency = maxCurrency
			if path[0].Type&TypeCurrency != 0 {
				nxtCurrency = path[0].Currency
			}
			nxtAccount = path[0].Account
		case !outCurrency.IsNative() && outIssuer == receiver:
			nxtAccount = receiver
		case !outCurrency.IsNative():
			nxtAccount = outIssuer
		}
		if nxtCurrency.IsNative() || maxCurrency != nxtCurrency || maxIssuer != nxtAccount {
			res = st.pushNode(endpointType(maxCurrency), maxIssuer, maxCurrency, maxIssuer)
		}
	}

	for _, el := range path {
		if res != ter.TesSUCCESS {
			break
		}
		res = st.pushNode(el.Type, el.Account, el.Currency, el.Issuer)
	}

	if res == ter.TesSUCCESS && !outCurrency.IsNative() && outIssuer != receiver {
		back := st.Nodes[len(st.Nodes)-1]
		if back.Currency != outCurrency || back.Account != outIssuer {
			res = st.pushNode(endpointType(outCurrency), outIssuer, outCurrency, outIssuer)
		}
	}

	if res == ter.TesSUCCESS {
		res = st.pushNode(endpointType(outCurrency), receiver, outCurrency, receiver)
	}
	if res != ter.TesSUCCESS {
		return res
	}

	// The same book may only be crossed once.
	for i, n := range st.Nodes {
		if n.IsAccount() {
			continue
		}
		key := issueKey{currency: n.Currency, issuer: n.Issuer}
		if _, dup := st.forward[key]; dup {
			return ter.TemBAD_PATH_LOOP
		}
		st.forward[key] = i
	}
	return ter.TesSUCCESS
}

// pushImply appends the nodes needed before a node receiving currency from
// issuer can be reached: a book when the currency changes, then the
// issuer's account when neither side of the hop is the issuer.
func (st *State) pushImply(account types.AccountID, currency types.Currency, issuer types.AccountID) ter.Result {
	res := ter.TesSUCCESS
	if st.Nodes[len(st.Nodes)-1].Currency != currency {
		typ := TypeCurrency
		if !currency.IsNative() {
			typ |= TypeIssuer
		}
		res = st.pushNode(typ, types.AccountXRP, currency, issuer)
	}

	back := st.Nodes[len(st.Nodes)-1]
	if res == ter.TesSUCCESS && !currency.IsNative() && back.Account != issuer && account != issuer {
		res = st.pushNode(TypeAccount|TypeCurrency|TypeIssuer, issuer, currency, issuer)
	}
	return res
}

// pushNode appends a node, preceded by any nodes it implies.
func (st *State) pushNode(typ uint8, account types.AccountID, currency types.Currency, issuer types.AccountID) ter.Result {
	first := len(st.Nodes) == 0
	var prv Node
	if !first {
		prv = st.Nodes[len(st.Nodes)-1]
	}

	cur := Node{Type: typ, Currency: prv.Currency}
	if typ&TypeCurrency != 0 {
		cur.Currency = currency
	}
	hasIssuer := typ&TypeIssuer != 0

	switch {
	case typ&^TypeValidBits != 0:
		return ter.TemBAD_PATH
	case hasIssuer && cur.Currency.IsNative():
		return ter.TemBAD_PATH
	case hasIssuer && issuer.IsZero():
		return ter.TemBAD_PATH
	}

	if !cur.IsAccount() {
		switch {
		case hasIssuer:
			cur.Issuer = issuer
		case cur.Currency.IsNative():
			cur.Issuer = types.AccountXRP
		case !prv.Issuer.IsZero():
			cur.Issuer = prv.Issuer
		default:
			cur.Issuer = prv.Account
		}
		if cur.Currency.IsNative() != cur.Issuer.IsZero() {
			return ter.TemBAD_PATH
		}
		if !prv.Account.IsZero() {
			// Funds enter a book from their issuer.
			if res := st.pushImply(types.AccountXRP, prv.Currency, prv.Issuer); res != ter.TesSUCCESS {
				return res
			}
		}
		st.append(cur)
		return ter.TesSUCCESS
	}

	cur.Account = account
	switch {
	case hasIssuer:
		cur.Issuer = issuer
	case !cur.Currency.IsNative():
		cur.Issuer = account
	default:
		cur.Issuer = types.AccountXRP
	}

	if first {
		st.append(cur)
		return ter.TesSUCCESS
	}
	if account.IsZero() {
		return ter.TemBAD_PATH
	}

	wanted := types.AccountXRP
	if !cur.Currency.IsNative() {
		wanted = account
	}
	if res := st.pushImply(account, cur.Currency, wanted); res != ter.TesSUCCESS {
		return res
	}

	// Native value moves between account roots without a credit line.
	back := st.Nodes[len(st.Nodes)-1]
	if back.IsAccount() && !cur.Currency.IsNative() {
		if st.entries.RippleState(back.Account, account, cur.Currency) == nil {
			log.Debug("pushNode: no credit line", "from", back.Account, "to", account, "currency", cur.Currency)
			return ter.TerNO_LINE
		}
		owed := st.entries.RippleOwed(account, back.Account, cur.Currency)
		if !owed.IsPositive() && owed.Negate().GreaterEqual(st.entries.RippleLimit(account, back.Account, cur.Currency)) {
			return ter.TepPATH_DRY
		}
	}
	st.append(cur)
	return ter.TesSUCCESS
}

func (st *State) append(n Node) {
	z := n.zero()
	n.RevRedeem, n.RevIssue, n.RevDeliver = z, z, z
	n.FwdRedeem, n.FwdIssue, n.FwdDeliver = z, z, z
	n.TransferRate = amount.QualityOne
	st.Nodes = append(st.Nodes, n)
}

// lessPriority reports whether a's increment ranks below b's: a worse
// quality, then less delivered, then a later path.
func lessPriority(a, b *State) bool {
	if a.Quality != b.Quality {
		return a.Quality > b.Quality
	}
	if !a.OutPass.Equal(b.OutPass) {
		return a.OutPass.Less(b.OutPass)
	}
	return a.index > b.index
}
