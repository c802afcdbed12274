package tx

import (
	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/crypto"
	"github.com/LeJamon/goRippled/internal/log"
)

// walletAdd funds a new account whose master key is PublicKey. The key
// proves it agrees by signing the AuthorizedKey the new account will have.
func (c *applyContext) walletAdd() ter.Result {
	t := c.tx
	amt := *t.Amount
	if !amt.IsNative() || amt.IsNegative() {
		return ter.TemBAD_AMOUNT
	}

	pub := []byte(*t.PublicKey)
	authKey := *t.AuthorizedKey
	if !c.engine.verifier.Verify(authKey[:], pub, *t.Signature) {
		log.Info("walletAdd: bad authorization signature", "account", c.account)
		return ter.TefBAD_ADD_AUTH
	}

	dst := crypto.CalcAccountID(pub)
	dstKey := keylet.Account(dst).Key
	if c.es.Peek(dstKey) != nil {
		log.Info("walletAdd: account exists", "destination", dst)
		return ter.TefCREATED
	}

	root := c.root()
	if root.Balance.Less(amt) {
		log.Info("walletAdd: insufficient funds", "account", c.account,
			"balance", root.Balance.FullText(), "amount", amt.FullText())
		return ter.TerUNFUNDED
	}
	root.Balance = amount.NewNative(root.Balance.Drops() - amt.Drops())
	c.modifyRoot(root)

	created := &entry.AccountRoot{
		Account:       dst,
		Balance:       amt,
		Sequence:      1,
		AuthorizedKey: authKey,
	}
	if t.Generator != nil {
		genKey := keylet.Generator(dst[:]).Key
		if c.es.Peek(genKey) != nil {
			return ter.TefGEN_IN_USE
		}
		c.es.EntryCreate(genKey, &entry.GeneratorMap{Generator: append([]byte(nil), *t.Generator...)})
		created.Generator = genKey
	}
	c.es.EntryCreate(dstKey, created)

	log.Debug("walletAdd: account created", "account", c.account, "destination", dst, "amount", amt.FullText())
	return ter.TesSUCCESS
}
