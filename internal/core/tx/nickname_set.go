package tx

import (
	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/log"
)

func (c *applyContext) nicknameSet() ter.Result {
	t := c.tx

	minimum := amount.NewNative(0)
	if t.MinimumOffer != nil {
		if t.MinimumOffer.IsNegative() {
			return ter.TemBAD_AMOUNT
		}
		minimum = *t.MinimumOffer
	}
	hasMinimum := t.MinimumOffer != nil && !minimum.IsZero()

	key := keylet.Nickname(*t.Nickname).Key
	e := c.es.Peek(key)
	if e == nil {
		c.es.EntryCreate(key, &entry.Nickname{
			Account:      c.account,
			MinimumOffer: minimum,
			HasMinimum:   hasMinimum,
		})
		log.Debug("nicknameSet: created", "account", c.account, "nickname", *t.Nickname)
		return ter.TesSUCCESS
	}

	nick, ok := e.(*entry.Nickname)
	if !ok {
		log.Warn("nicknameSet: index holds another entry type", "index", key, "type", e.Type())
		return ter.TefBAD_LEDGER
	}
	if nick.Account != c.account {
		log.Info("nicknameSet: nickname owned by another account", "account", c.account, "owner", nick.Account)
		return ter.TerNICKNAME_EXISTS
	}
	nick.MinimumOffer, nick.HasMinimum = minimum, hasMinimum
	c.es.EntryModify(key, nick)
	return ter.TesSUCCESS
}
