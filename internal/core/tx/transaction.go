package tx

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/tx/paths"
	"github.com/LeJamon/goRippled/internal/crypto"
	"github.com/LeJamon/goRippled/internal/types"
)

// Common errors
var (
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrMalformed              = errors.New("malformed transaction")
	ErrNotSigned              = errors.New("transaction is not signed")
)

// Blob is a variable length field rendered as upper case hex.
type Blob []byte

func (b Blob) MarshalText() ([]byte, error) {
	return []byte(strings.ToUpper(hex.EncodeToString(b))), nil
}

func (b *Blob) UnmarshalText(text []byte) error {
	v, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid hex blob: %w", err)
	}
	*b = v
	return nil
}

// Hash128 is a 128-bit field such as an email hash.
type Hash128 [16]byte

func (h Hash128) IsZero() bool { return h == Hash128{} }

func (h Hash128) MarshalText() ([]byte, error) {
	return []byte(strings.ToUpper(hex.EncodeToString(h[:]))), nil
}

func (h *Hash128) UnmarshalText(text []byte) error {
	v, err := hex.DecodeString(string(text))
	if err != nil || len(v) != len(h) {
		return fmt.Errorf("invalid 128-bit hash %q", text)
	}
	copy(h[:], v)
	return nil
}

// Transaction is a signed request to change the ledger. The common fields
// are always present; the others are present when non-nil and must match
// the format of the transaction type.
type Transaction struct {
	TransactionType Type            `json:"TransactionType"`
	Flags           uint32          `json:"Flags,omitempty"`
	Account         types.AccountID `json:"Account"`
	Sequence        uint32          `json:"Sequence"`
	Fee             amount.Amount   `json:"Fee"`
	SigningPubKey   Blob            `json:"SigningPubKey,omitempty"`
	TxnSignature    Blob            `json:"TxnSignature,omitempty"`

	Destination   *types.AccountID `json:"Destination,omitempty"`
	Amount        *amount.Amount   `json:"Amount,omitempty"`
	SendMax       *amount.Amount   `json:"SendMax,omitempty"`
	Paths         paths.PathSet    `json:"Paths,omitempty"`
	LimitAmount   *amount.Amount   `json:"LimitAmount,omitempty"`
	QualityIn     *uint32          `json:"QualityIn,omitempty"`
	QualityOut    *uint32          `json:"QualityOut,omitempty"`
	TakerPays     *amount.Amount   `json:"TakerPays,omitempty"`
	TakerGets     *amount.Amount   `json:"TakerGets,omitempty"`
	Expiration    *uint32          `json:"Expiration,omitempty"`
	OfferSequence *uint32          `json:"OfferSequence,omitempty"`
	EmailHash     *Hash128         `json:"EmailHash,omitempty"`
	WalletLocator *types.Hash256   `json:"WalletLocator,omitempty"`
	MessageKey    *Blob            `json:"MessageKey,omitempty"`
	Domain        *Blob            `json:"Domain,omitempty"`
	TransferRate  *uint32          `json:"TransferRate,omitempty"`
	PublishHash   *types.Hash256   `json:"PublishHash,omitempty"`
	PublishSize   *uint32          `json:"PublishSize,omitempty"`
	Nickname      *types.Hash256   `json:"Nickname,omitempty"`
	MinimumOffer  *amount.Amount   `json:"MinimumOffer,omitempty"`
	AuthorizedKey *types.AccountID `json:"AuthorizedKey,omitempty"`
	Generator     *Blob            `json:"Generator,omitempty"`
	PublicKey     *Blob            `json:"PublicKey,omitempty"`
	Signature     *Blob            `json:"Signature,omitempty"`
}

// New returns an unsigned transaction of type t from account.
func New(t Type, account types.AccountID, sequence uint32, fee int64) *Transaction {
	return &Transaction{
		TransactionType: t,
		Account:         account,
		Sequence:        sequence,
		Fee:             amount.NewNative(fee),
	}
}

// FromJSON decodes a transaction.
func FromJSON(data []byte) (*Transaction, error) {
	var t Transaction
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return &t, nil
}

// SigningData is the message a signature covers.
func (t *Transaction) SigningData() []byte {
	return append(crypto.HashPrefixTxSign.Bytes(), t.serialize(false)...)
}

// SigningHash is the SHA512-half of SigningData.
func (t *Transaction) SigningHash() types.Hash256 {
	return crypto.Sha512Half(t.SigningData())
}

// Blob returns the serialized transaction including its signature.
func (t *Transaction) Blob() []byte {
	return t.serialize(true)
}

// ID is the transaction id: the hash of the signed serialization.
func (t *Transaction) ID() types.Hash256 {
	return crypto.PrefixedHash(crypto.HashPrefixTransactionID, t.serialize(true))
}

// Sign sets the signing key and signature.
func (t *Transaction) Sign(s crypto.Signer) error {
	t.SigningPubKey = s.PublicKey()
	sig, err := s.Sign(t.SigningData())
	if err != nil {
		return fmt.Errorf("failed to sign %s: %w", t.TransactionType, err)
	}
	t.TxnSignature = sig
	return nil
}

// CheckSign verifies the transaction signature.
func (t *Transaction) CheckSign(v crypto.Verifier) error {
	if len(t.SigningPubKey) == 0 || len(t.TxnSignature) == 0 {
		return ErrNotSigned
	}
	if !v.Verify(t.SigningData(), t.SigningPubKey, t.TxnSignature) {
		return errors.New("signature does not match signing key")
	}
	return nil
}

// Signer returns the account the signing key belongs to.
func (t *Transaction) Signer() types.AccountID {
	return crypto.CalcAccountID(t.SigningPubKey)
}

// Has reports whether the transaction carries flag bit.
func (t *Transaction) Has(bit uint32) bool { return isSet(t.Flags, bit) }
