// Package types holds the fixed-width identifiers shared by every ledger
// package: account ids, currency codes and 256-bit indexes.
package types

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	addresscodec "github.com/LeJamon/goRippled/internal/codec/address-codec"
)

// AccountID is the 160-bit identifier of an account.
type AccountID [20]byte

// Currency is the 160-bit identifier of a currency.
type Currency [20]byte

// Hash256 is a 256-bit ledger index or transaction id.
type Hash256 [32]byte

var (
	// AccountXRP is the pseudo issuer of the native currency.
	AccountXRP = AccountID{}
	// AccountOne is the placeholder issuer meaning "any issuer".
	AccountOne = AccountID{19: 1}

	// CurrencyXRP is the native currency.
	CurrencyXRP = Currency{}
	// CurrencyOne is the placeholder currency carried by rates.
	CurrencyOne = Currency{19: 1}
)

var (
	ErrBadAccount  = errors.New("types: malformed account id")
	ErrBadCurrency = errors.New("types: malformed currency code")
	ErrBadHash     = errors.New("types: malformed 256-bit hash")
)

func (a AccountID) IsZero() bool { return a == AccountXRP }

// Compare orders account ids as unsigned big-endian integers.
func (a AccountID) Compare(b AccountID) int { return bytes.Compare(a[:], b[:]) }

func (a AccountID) Less(b AccountID) bool { return a.Compare(b) < 0 }

// String renders the classic address form.
func (a AccountID) String() string {
	s, _ := addresscodec.EncodeAccountID(a[:])
	return s
}

func (a AccountID) Hex() string { return strings.ToUpper(hex.EncodeToString(a[:])) }

func (a AccountID) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AccountID) UnmarshalText(text []byte) error {
	id, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// ParseAccountID accepts a classic address or 40 hex characters.
func ParseAccountID(s string) (AccountID, error) {
	if len(s) == 40 {
		if raw, err := hex.DecodeString(s); err == nil {
			var id AccountID
			copy(id[:], raw)
			return id, nil
		}
	}
	id, err := addresscodec.DecodeAccountID(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("%w: %q: %v", ErrBadAccount, s, err)
	}
	return AccountID(id), nil
}

// MustAccountID is ParseAccountID for literals known to be valid.
func MustAccountID(s string) AccountID {
	id, err := ParseAccountID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (c Currency) IsZero() bool { return c == CurrencyXRP }

// IsNative reports whether c is the native currency.
func (c Currency) IsNative() bool { return c.IsZero() }

// String renders "XRP" for the native currency, the three letter code for
// standard currencies and upper-case hex otherwise.
func (c Currency) String() string {
	if c.IsZero() {
		return "XRP"
	}
	if c.isStandard() {
		return string(c[12:15])
	}
	return strings.ToUpper(hex.EncodeToString(c[:]))
}

func (c Currency) isStandard() bool {
	for i, b := range c {
		if i >= 12 && i < 15 {
			if b < 0x20 || b > 0x7e {
				return false
			}
			continue
		}
		if b != 0 {
			return false
		}
	}
	return true
}

func (c Currency) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Currency) UnmarshalText(text []byte) error {
	cur, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = cur
	return nil
}

// ParseCurrency accepts "XRP" (or the empty string) for the native currency, a
// three character code, or 40 hex characters.
func ParseCurrency(code string) (Currency, error) {
	var c Currency
	switch {
	case code == "" || code == "XRP":
		return CurrencyXRP, nil
	case len(code) == 3:
		copy(c[12:], code)
		return c, nil
	case len(code) == 40:
		raw, err := hex.DecodeString(code)
		if err != nil {
			return c, fmt.Errorf("%w: %q", ErrBadCurrency, code)
		}
		copy(c[:], raw)
		return c, nil
	default:
		return c, fmt.Errorf("%w: %q", ErrBadCurrency, code)
	}
}

// MustCurrency is ParseCurrency for literals known to be valid.
func MustCurrency(code string) Currency {
	c, err := ParseCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

func (h Hash256) IsZero() bool { return h == Hash256{} }

func (h Hash256) String() string { return strings.ToUpper(hex.EncodeToString(h[:])) }

func (h Hash256) Compare(o Hash256) int { return bytes.Compare(h[:], o[:]) }

func (h Hash256) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash256) UnmarshalText(text []byte) error {
	v, err := ParseHash256(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// ParseHash256 parses 64 hex characters.
func ParseHash256(s string) (Hash256, error) {
	var h Hash256
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(h) {
		return h, fmt.Errorf("%w: %q", ErrBadHash, s)
	}
	copy(h[:], raw)
	return h, nil
}
