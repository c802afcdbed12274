package tx

import "fmt"

// Type represents a transaction type code
type Type uint16

// Transaction type codes
const (
	TypePayment      Type = 0
	TypeClaim        Type = 1
	TypeWalletAdd    Type = 2
	TypeAccountSet   Type = 3
	TypePasswordFund Type = 4
	TypePasswordSet  Type = 5
	TypeNicknameSet  Type = 6
	TypeOfferCreate  Type = 7
	TypeOfferCancel  Type = 8
	TypeCreditSet    Type = 20

	TypeInvalid Type = 0xFFFF
)

var typeNames = map[Type]string{
	TypePayment:      "Payment",
	TypeClaim:        "Claim",
	TypeWalletAdd:    "WalletAdd",
	TypeAccountSet:   "AccountSet",
	TypePasswordFund: "PasswordFund",
	TypePasswordSet:  "PasswordSet",
	TypeNicknameSet:  "NicknameSet",
	TypeOfferCreate:  "OfferCreate",
	TypeOfferCancel:  "OfferCancel",
	TypeCreditSet:    "CreditSet",
	TypeInvalid:      "Invalid",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// String returns the transaction type name
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName returns the type with the given name.
func TypeFromName(name string) (Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	v, ok := TypeFromName(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTransactionType, text)
	}
	*t = v
	return nil
}
