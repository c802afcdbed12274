// Package paths routes payments across trust lines and order books.
//
// A payment is tried along the direct path and any explicit paths. Each path
// is expanded into a State: a chain of account and offer nodes. Every pass
// computes, for each live path, the best increment it can deliver by a
// reverse pass from the destination (how much each hop must ask for) and a
// forward pass from the source (how much actually moves). The best increment
// is kept and the next pass starts from it.
package paths

import (
	"fmt"
	"strings"

	"github.com/LeJamon/goRippled/internal/types"
)

// Element types. They match the bits of a serialized path element.
const (
	TypeAccount  uint8 = 0x01
	TypeCurrency uint8 = 0x10
	TypeIssuer   uint8 = 0x20

	TypeValidBits = TypeAccount | TypeCurrency | TypeIssuer
)

// MaxPathLength is the most elements an explicit path may have.
const MaxPathLength = 8

// Element is one step of an explicit path: an account to ripple through, or
// an order book named by the currency and issuer it converts to.
type Element struct {
	Type     uint8           `json:"type"`
	Account  types.AccountID `json:"account"`
	Currency types.Currency  `json:"currency"`
	Issuer   types.AccountID `json:"issuer"`
}

// AccountElement returns an element rippling through account.
func AccountElement(account types.AccountID) Element {
	return Element{Type: TypeAccount, Account: account}
}

// BookElement returns an element converting through the book that pays
// currency issued by issuer. A native currency carries no issuer.
func BookElement(currency types.Currency, issuer types.AccountID) Element {
	if currency.IsNative() {
		return Element{Type: TypeCurrency, Currency: currency}
	}
	return Element{Type: TypeCurrency | TypeIssuer, Currency: currency, Issuer: issuer}
}

func (e Element) IsAccount() bool { return e.Type&TypeAccount != 0 }

func (e Element) String() string {
	var parts []string
	if e.Type&TypeAccount != 0 {
		parts = append(parts, e.Account.String())
	}
	if e.Type&TypeCurrency != 0 {
		parts = append(parts, e.Currency.String())
	}
	if e.Type&TypeIssuer != 0 {
		parts = append(parts, e.Issuer.String())
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, "/"))
}

// Path is an ordered list of elements between the source and the
// destination. Neither endpoint is part of the path.
type Path []Element

// PathSet holds the alternative paths of one payment.
type PathSet []Path
