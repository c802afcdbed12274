package entry

import (
	"fmt"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/types"
)

// GeneratorMap records a claimed generator so it cannot be claimed twice.
type GeneratorMap struct {
	Generator []byte
}

func (g *GeneratorMap) Type() Type { return TypeGeneratorMap }

func (g *GeneratorMap) isEntry() {}

func (g *GeneratorMap) Validate() error {
	if len(g.Generator) == 0 {
		return fmt.Errorf("%w: generator is required", ErrInvalidEntry)
	}
	return nil
}

func (g *GeneratorMap) Clone() Entry {
	return &GeneratorMap{Generator: cloneBytes(g.Generator)}
}

// Nickname maps a nickname hash to its owning account.
type Nickname struct {
	Account      types.AccountID
	MinimumOffer amount.Amount
	HasMinimum   bool
}

func (n *Nickname) Type() Type { return TypeNickname }

func (n *Nickname) isEntry() {}

func (n *Nickname) Validate() error {
	if n.Account.IsZero() {
		return fmt.Errorf("%w: nickname account is required", ErrInvalidEntry)
	}
	if n.HasMinimum && n.MinimumOffer.IsNegative() {
		return fmt.Errorf("%w: minimum offer must not be negative", ErrInvalidEntry)
	}
	return nil
}

func (n *Nickname) Clone() Entry {
	c := *n
	return &c
}
