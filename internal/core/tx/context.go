package tx

import (
	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/view"
	"github.com/LeJamon/goRippled/internal/types"
)

// DefaultMaxPaths is the most explicit paths a payment may carry.
const DefaultMaxPaths = 3

// Config holds the processing settings of a ledger.
type Config struct {
	// MaxPaths bounds the explicit paths of a payment.
	MaxPaths int
	// DirNodeMax is the number of indexes one directory page holds.
	DirNodeMax int
	// Standalone keeps unfunded offers the router finds instead of
	// removing them.
	Standalone bool
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxPaths:   DefaultMaxPaths,
		DirNodeMax: view.DefaultDirNodeMax,
	}
}

// LedgerContext is everything a transaction is applied against.
type LedgerContext struct {
	Ledger *ledger.Ledger
	Fees   ledger.Fees
	Clock  ledger.Clock
	Config Config
}

// NewLedgerContext returns a context over l with the default fees and
// settings and the system clock.
func NewLedgerContext(l *ledger.Ledger) *LedgerContext {
	return &LedgerContext{
		Ledger: l,
		Fees:   ledger.DefaultFees(),
		Clock:  ledger.SystemClock{},
		Config: DefaultConfig(),
	}
}

// applyContext is the state one handler runs with.
type applyContext struct {
	lc      *LedgerContext
	engine  *Engine
	tx      *Transaction
	es      *view.EntrySet
	account types.AccountID
	now     uint32

	// delivered is what a payment delivered, when known.
	delivered *amount.Amount
}

// root returns the source account root. It is looked up on every call
// because checkpoints taken by the router invalidate earlier pointers.
func (c *applyContext) root() *entry.AccountRoot {
	root := c.es.AccountRoot(c.account)
	if root == nil {
		panic("tx: source account vanished during apply " + c.account.String())
	}
	return root
}

func (c *applyContext) modifyRoot(root *entry.AccountRoot) {
	c.es.EntryModify(keylet.Account(root.Account).Key, root)
}
