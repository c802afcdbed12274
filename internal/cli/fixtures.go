package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx"
	"github.com/LeJamon/goRippled/internal/types"
)

// Fixture file structures

// StateFixture represents state.json - the ledger before the transactions
type StateFixture struct {
	LedgerIndex uint32 `json:"ledger_index"`
	// Genesis, when set, receives the whole native supply.
	Genesis  *types.AccountID `json:"genesis,omitempty"`
	Accounts []AccountFixture `json:"accounts"`
	Entries  []StateEntry     `json:"entries"`
}

// AccountFixture is a funded account with no other state
type AccountFixture struct {
	Account  types.AccountID `json:"account"`
	Balance  amount.Amount   `json:"balance"`
	Sequence uint32          `json:"sequence,omitempty"`
}

// StateEntry represents a single state entry
type StateEntry struct {
	Index string `json:"index"` // 32-byte hex key
	Data  string `json:"data"`  // Encoded entry as hex
}

// EnvFixture represents env.json - the execution context
type EnvFixture struct {
	CloseTime  uint32       `json:"close_time"`
	Fees       *FeesFixture `json:"fees,omitempty"`
	Standalone bool         `json:"standalone"`
}

// FeesFixture overrides the configured fee schedule
type FeesFixture struct {
	BaseFee          uint64 `json:"base_fee"`
	AccountCreate    uint64 `json:"account_create"`
	NicknameCreate   uint64 `json:"nickname_create"`
	ReserveBase      uint64 `json:"reserve_base"`
	ReserveIncrement uint64 `json:"reserve_increment"`
}

// TxsFixture represents txs.json - transactions to apply in order
type TxsFixture struct {
	Transactions []json.RawMessage `json:"transactions"`
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// seedLedger writes the fixture state into l.
func seedLedger(l *ledger.Ledger, state *StateFixture) error {
	if state.Genesis != nil {
		if err := ledger.Genesis(l, *state.Genesis); err != nil {
			return err
		}
	}

	for i, a := range state.Accounts {
		if !a.Balance.IsNative() || a.Balance.IsNegative() {
			return fmt.Errorf("account %d (%s): balance must be a non-negative native amount", i, a.Account)
		}
		seq := a.Sequence
		if seq == 0 {
			seq = 1
		}
		root := &entry.AccountRoot{Account: a.Account, Balance: a.Balance, Sequence: seq}
		if err := l.Write(keylet.Account(a.Account).Key, root); err != nil {
			return fmt.Errorf("account %d (%s): %w", i, a.Account, err)
		}
	}

	for i, e := range state.Entries {
		key, err := types.ParseHash256(e.Index)
		if err != nil {
			return fmt.Errorf("entry %d: invalid index: %w", i, err)
		}
		data, err := hex.DecodeString(e.Data)
		if err != nil {
			return fmt.Errorf("entry %d: invalid data hex: %w", i, err)
		}
		decoded, err := entry.Unmarshal(data)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if err := l.Write(key, decoded); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// decodeTransactions parses every transaction of the fixture. A fixture
// with any undecodable transaction is rejected as a whole.
func decodeTransactions(fx *TxsFixture) ([]*tx.Transaction, error) {
	txs := make([]*tx.Transaction, 0, len(fx.Transactions))
	for i, raw := range fx.Transactions {
		t, err := tx.FromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func (e *EnvFixture) apply(lc *tx.LedgerContext) {
	if e.CloseTime != 0 {
		lc.Clock = ledger.FixedClock(e.CloseTime)
	}
	if e.Fees != nil {
		lc.Fees = ledger.Fees{
			Base:             e.Fees.BaseFee,
			AccountCreate:    e.Fees.AccountCreate,
			NicknameCreate:   e.Fees.NicknameCreate,
			ReserveBase:      e.Fees.ReserveBase,
			ReserveIncrement: e.Fees.ReserveIncrement,
		}
	}
	if e.Standalone {
		lc.Config.Standalone = true
	}
}
