package tx

import (
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/crypto"
	"github.com/LeJamon/goRippled/internal/log"
)

// setAuthorized checks that PublicKey signed Generator, records the
// generator in the ledger and hands the account's signing rights to the
// key named by the transaction. A Claim names the generator's own account;
// a PasswordSet names AuthorizedKey. With mustBeNew a generator that is
// already recorded fails the transaction.
func (c *applyContext) setAuthorized(mustBeNew bool) ter.Result {
	t := c.tx
	generator, pub := []byte(*t.Generator), []byte(*t.PublicKey)

	if !c.engine.verifier.Verify(generator, pub, *t.Signature) {
		log.Info("setAuthorized: bad generator signature", "account", c.account)
		return ter.TefBAD_GEN_AUTH
	}

	genID := crypto.CalcAccountID(pub)
	key := keylet.Generator(genID[:]).Key
	switch existing := c.es.Peek(key); {
	case existing == nil:
		c.es.EntryCreate(key, &entry.GeneratorMap{Generator: append([]byte(nil), generator...)})
	case mustBeNew:
		log.Info("setAuthorized: generator in use", "account", c.account, "generator", genID)
		return ter.TefGEN_IN_USE
	}

	root := c.root()
	if t.TransactionType == TypeClaim {
		root.AuthorizedKey = genID
	} else {
		root.AuthorizedKey = *t.AuthorizedKey
	}
	root.Generator = key
	c.modifyRoot(root)

	log.Debug("setAuthorized: authorized key set", "account", c.account, "key", root.AuthorizedKey)
	return ter.TesSUCCESS
}

// passwordSet spends the account's free password change.
func (c *applyContext) passwordSet() ter.Result {
	root := c.root()
	root.Flags |= entry.AccountRootPasswordSpent
	c.modifyRoot(root)
	return c.setAuthorized(false)
}

// passwordFund clears the password-spent flag of the destination so it may
// change its password again.
func (c *applyContext) passwordFund() ter.Result {
	dst := *c.tx.Destination
	root := c.es.AccountRoot(dst)
	if root == nil {
		log.Info("passwordFund: destination does not exist", "destination", dst)
		return ter.TerSET_MISSING_DST
	}
	if root.Flags&entry.AccountRootPasswordSpent != 0 {
		root.Flags &^= entry.AccountRootPasswordSpent
		c.es.EntryModify(keylet.Account(dst).Key, root)
	}
	return ter.TesSUCCESS
}
