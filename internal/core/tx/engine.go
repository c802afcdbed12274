// Package tx applies transactions to a ledger.
//
// The Engine checks a transaction's signature and shape, charges its fee,
// runs the handler for its type against a view.EntrySet over the ledger and
// writes the result back. A handler that fails still pays the fee: the
// set is rolled back to the state right after the fee was charged and that
// state is committed.
package tx

import (
	"errors"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/core/tx/view"
	"github.com/LeJamon/goRippled/internal/crypto"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/metrics"
	"github.com/LeJamon/goRippled/internal/types"
)

// Engine processes transactions against a ledger
type Engine struct {
	verifier crypto.Verifier
	metrics  *metrics.Metrics
}

// NewEngine creates a new transaction engine. m may be nil.
func NewEngine(verifier crypto.Verifier, m *metrics.Metrics) *Engine {
	return &Engine{verifier: verifier, metrics: m}
}

// ApplyResult contains the result of applying a transaction
type ApplyResult struct {
	ID     types.Hash256
	Result ter.Result

	// Applied is set when every change the transaction made was written.
	Applied bool
	// FeeClaimed is set when only the fee and sequence were written.
	FeeClaimed bool
	// Fee is the fee charged, in native base units.
	Fee uint64

	// Delivered is what a payment delivered to its destination.
	Delivered *amount.Amount

	Message string
}

// Apply processes a transaction and applies it to the ledger. The ledger
// is locked for the whole call.
func (e *Engine) Apply(lc *LedgerContext, t *Transaction) ApplyResult {
	lc.Ledger.Lock()
	defer lc.Ledger.Unlock()

	res := ApplyResult{ID: t.ID()}
	res.Result = e.apply(lc, t, &res)
	res.Message = res.Result.Message()

	e.metrics.TxApplied(t.TransactionType.String(), res.Result.String())
	log.Debug("apply", "type", t.TransactionType, "account", t.Account, "seq", t.Sequence,
		"id", res.ID, "result", res.Result, "applied", res.Applied, "feeClaimed", res.FeeClaimed)
	return res
}

func (e *Engine) apply(lc *LedgerContext, t *Transaction, out *ApplyResult) (result ter.Result) {
	defer func() {
		if r := recover(); r != nil {
			var re *view.ReadError
			err, ok := r.(error)
			if !ok || !errors.As(err, &re) {
				panic(r)
			}
			log.Error("apply: ledger read failed", "id", out.ID, "err", err)
			out.Applied, out.FeeClaimed, out.Fee = false, false, 0
			result = ter.TefEXCEPTION
		}
	}()

	// Step 1: signature and shape.
	if out.ID.IsZero() {
		return ter.TemINVALID
	}
	if _, ok := Formats[t.TransactionType]; !ok {
		return ter.TemUNKNOWN
	}
	if err := t.CheckSign(e.verifier); err != nil {
		log.Info("apply: bad signature", "id", out.ID, "err", err)
		return ter.TemBAD_SIGNATURE
	}
	if err := t.Validate(); err != nil {
		log.Info("apply: malformed transaction", "id", out.ID, "err", err)
		return ter.TemMALFORMED
	}

	es := view.New(lc.Ledger, lc.Fees, view.WithDirNodeMax(lc.Config.DirNodeMax))

	// Step 2: fee.
	required := requiredFee(es, t, lc.Fees)
	if t.Fee.IsNegative() {
		return ter.TemBAD_AMOUNT
	}
	paid := uint64(t.Fee.Drops())
	switch {
	case required == 0 && paid != 0:
		return ter.TemINSUF_FEE_P
	case paid < required:
		log.Info("apply: insufficient fee", "id", out.ID, "paid", paid, "required", required)
		return ter.TelINSUF_FEE_P
	}

	// Step 3: source and sequence.
	root := es.AccountRoot(t.Account)
	if root == nil {
		return ter.TerNO_ACCOUNT
	}
	switch {
	case t.Sequence > root.Sequence:
		return ter.TerPRE_SEQ
	case t.Sequence < root.Sequence:
		if lc.Ledger.HasTx(out.ID) {
			return ter.TefALREADY
		}
		return ter.TefPAST_SEQ
	}

	// Step 4: authorization.
	if res := checkAuth(t, root); res != ter.TesSUCCESS {
		return res
	}

	// Step 5: fee debit.
	if uint64(root.Balance.Drops()) < paid {
		return ter.TerINSUF_FEE_B
	}
	root.Balance = amount.NewNative(root.Balance.Drops() - int64(paid))
	root.Sequence++
	es.EntryModify(keylet.Account(t.Account).Key, root)
	out.Fee = paid
	checkpoint := es.Duplicate()

	// Step 6: dispatch.
	now := uint32(0)
	if lc.Clock != nil {
		now = lc.Clock.Now()
	}
	ctx := &applyContext{
		lc:      lc,
		engine:  e,
		tx:      t,
		es:      es,
		account: t.Account,
		now:     now,
	}
	result = ctx.dispatch()

	// Step 7: commit.
	if result.IsApplied() {
		out.Applied = true
		out.Delivered = ctx.delivered
	} else {
		log.Debug("apply: handler failed, claiming fee", "id", out.ID, "result", result)
		es.SetTo(checkpoint)
		out.FeeClaimed = true
	}
	if err := es.Commit(lc.Ledger); err != nil {
		log.Error("apply: commit failed", "id", out.ID, "err", err)
		out.Applied, out.FeeClaimed, out.Delivered = false, false, nil
		return ter.TefEXCEPTION
	}
	lc.Ledger.AddTx(ledger.TxRecord{
		ID:     out.ID,
		Type:   t.TransactionType.String(),
		Result: result.String(),
		Raw:    t.Blob(),
	})
	return result
}

// requiredFee is the fee t must pay, in native base units.
func requiredFee(es *view.EntrySet, t *Transaction, fees ledger.Fees) uint64 {
	switch t.TransactionType {
	case TypeClaim, TypePasswordSet:
		return 0
	case TypePayment:
		if t.Has(TfCreateAccount) {
			return fees.AccountCreate
		}
	case TypeNicknameSet:
		if es.Peek(keylet.Nickname(*t.Nickname).Key) == nil {
			return fees.NicknameCreate
		}
	}
	return fees.Base
}

// checkAuth checks that the signing key may act for the source account.
func checkAuth(t *Transaction, root *entry.AccountRoot) ter.Result {
	signer := t.Signer()
	switch t.TransactionType {
	case TypeClaim:
		if root.HasAuthorizedKey() {
			return ter.TefCLAIMED
		}
		if signer != t.Account {
			return ter.TefBAD_CLAIM_ID
		}
	case TypePasswordSet:
		if signer != t.Account {
			return ter.TemBAD_SET_ID
		}
		if root.Flags&entry.AccountRootPasswordSpent != 0 {
			return ter.TefBAD_AUTH
		}
	default:
		if root.HasAuthorizedKey() {
			if signer != root.AuthorizedKey {
				return ter.TefBAD_AUTH
			}
		} else if signer != t.Account {
			return ter.TefBAD_AUTH_MASTER
		}
	}
	return ter.TesSUCCESS
}

func (c *applyContext) dispatch() ter.Result {
	switch c.tx.TransactionType {
	case TypeAccountSet:
		return c.accountSet()
	case TypeClaim:
		return c.setAuthorized(true)
	case TypeCreditSet:
		return c.creditSet()
	case TypeNicknameSet:
		return c.nicknameSet()
	case TypeOfferCreate:
		return c.offerCreate()
	case TypeOfferCancel:
		return c.offerCancel()
	case TypePasswordFund:
		return c.passwordFund()
	case TypePasswordSet:
		return c.passwordSet()
	case TypePayment:
		return c.payment()
	case TypeWalletAdd:
		return c.walletAdd()
	default:
		return ter.TemUNKNOWN
	}
}
