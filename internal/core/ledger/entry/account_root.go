package entry

import (
	"fmt"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/types"
)

// AccountRoot represents an account in the ledger
type AccountRoot struct {
	Account    types.AccountID
	Balance    amount.Amount
	Sequence   uint32
	Flags      uint32
	OwnerCount uint32

	// Optional settings. A zero value means the field is absent.
	AuthorizedKey types.AccountID
	Generator     types.Hash256
	EmailHash     [16]byte
	WalletLocator types.Hash256
	MessageKey    []byte
	TransferRate  uint32
	Domain        []byte
	PublishHash   types.Hash256
	PublishSize   uint32
}

func (a *AccountRoot) Type() Type { return TypeAccountRoot }

func (a *AccountRoot) isEntry() {}

// HasAuthorizedKey reports whether a key other than the master key may sign
// for the account.
func (a *AccountRoot) HasAuthorizedKey() bool {
	return !a.AuthorizedKey.IsZero()
}

func (a *AccountRoot) Validate() error {
	if a.Account.IsZero() {
		return fmt.Errorf("%w: account ID is required", ErrInvalidEntry)
	}
	if !a.Balance.IsNative() {
		return fmt.Errorf("%w: balance must be native", ErrInvalidEntry)
	}
	if a.TransferRate != 0 && a.TransferRate < amount.QualityOne {
		return fmt.Errorf("%w: transfer rate must be 0 or >= %d", ErrInvalidEntry, amount.QualityOne)
	}
	return nil
}

func (a *AccountRoot) Clone() Entry {
	c := *a
	c.MessageKey = cloneBytes(a.MessageKey)
	c.Domain = cloneBytes(a.Domain)
	return &c
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
