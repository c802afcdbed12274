package ledger

import (
	"fmt"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/types"
)

// GenesisDrops is the native supply created with the first ledger.
const GenesisDrops int64 = 100000000000 * amount.SystemCurrencyParts

// Genesis writes the master account holding the whole native supply.
func Genesis(l *Ledger, master types.AccountID) error {
	root := &entry.AccountRoot{
		Account:  master,
		Balance:  amount.NewNative(GenesisDrops),
		Sequence: 1,
	}
	if err := l.Write(keylet.Account(master).Key, root); err != nil {
		return fmt.Errorf("failed to create genesis account: %w", err)
	}
	return nil
}
