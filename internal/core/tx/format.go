package tx

import (
	"encoding/binary"
	"fmt"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/tx/paths"
)

// Field identifies a transaction field on the wire.
type Field uint8

const (
	FieldTransactionType Field = 1
	FieldFlags           Field = 2
	FieldAccount         Field = 3
	FieldSequence        Field = 4
	FieldFee             Field = 5
	FieldSigningPubKey   Field = 6

	FieldDestination   Field = 10
	FieldAmount        Field = 11
	FieldSendMax       Field = 12
	FieldPaths         Field = 13
	FieldLimitAmount   Field = 14
	FieldQualityIn     Field = 15
	FieldQualityOut    Field = 16
	FieldTakerPays     Field = 17
	FieldTakerGets     Field = 18
	FieldExpiration    Field = 19
	FieldOfferSequence Field = 20
	FieldEmailHash     Field = 21
	FieldWalletLocator Field = 22
	FieldMessageKey    Field = 23
	FieldDomain        Field = 24
	FieldTransferRate  Field = 25
	FieldPublishHash   Field = 26
	FieldPublishSize   Field = 27
	FieldNickname      Field = 28
	FieldMinimumOffer  Field = 29
	FieldAuthorizedKey Field = 30
	FieldGenerator     Field = 31
	FieldPublicKey     Field = 32
	FieldSignature     Field = 33

	FieldTxnSignature Field = 0x7F
)

// Requirement says when a field may appear in a transaction.
type Requirement int

const (
	// Required fields must be present.
	Required Requirement = iota
	// Optional fields may be present.
	Optional
	// IfFlag fields may be present only when Flag is set.
	IfFlag
	// IfNotFlag fields may be present only when Flag is clear.
	IfNotFlag
	// IsFlags marks the flags field; Flag holds the bits the type accepts.
	IsFlags
)

// FieldSpec is one row of a transaction format.
type FieldSpec struct {
	Field Field
	Req   Requirement
	Flag  uint32
}

// Format lists the fields of a transaction type in serialization order.
type Format []FieldSpec

type fieldDef struct {
	name string
	has  func(t *Transaction) bool
	put  func(t *Transaction, dst []byte) []byte
}

func putVL(dst, b []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(b)))
	return append(dst, b...)
}

func putPaths(dst []byte, ps paths.PathSet) []byte {
	for i, p := range ps {
		if i > 0 {
			dst = append(dst, 0xFF)
		}
		for _, e := range p {
			dst = append(dst, e.Type)
			if e.Type&paths.TypeAccount != 0 {
				dst = append(dst, e.Account[:]...)
			}
			if e.Type&paths.TypeCurrency != 0 {
				dst = append(dst, e.Currency[:]...)
			}
			if e.Type&paths.TypeIssuer != 0 {
				dst = append(dst, e.Issuer[:]...)
			}
		}
	}
	return append(dst, 0x00)
}

func amountField(name string, get func(t *Transaction) *amount.Amount) fieldDef {
	return fieldDef{
		name: name,
		has:  func(t *Transaction) bool { return get(t) != nil },
		put:  func(t *Transaction, dst []byte) []byte { return get(t).Encode(dst) },
	}
}

func u32Field(name string, get func(t *Transaction) *uint32) fieldDef {
	return fieldDef{
		name: name,
		has:  func(t *Transaction) bool { return get(t) != nil },
		put:  func(t *Transaction, dst []byte) []byte { return binary.BigEndian.AppendUint32(dst, *get(t)) },
	}
}

func blobField(name string, get func(t *Transaction) *Blob) fieldDef {
	return fieldDef{
		name: name,
		has:  func(t *Transaction) bool { return get(t) != nil },
		put:  func(t *Transaction, dst []byte) []byte { return putVL(dst, *get(t)) },
	}
}

// fieldDefs covers the type specific fields.
var fieldDefs = map[Field]fieldDef{
	FieldDestination: {
		name: "Destination",
		has:  func(t *Transaction) bool { return t.Destination != nil },
		put:  func(t *Transaction, dst []byte) []byte { return append(dst, t.Destination[:]...) },
	},
	FieldAmount:  amountField("Amount", func(t *Transaction) *amount.Amount { return t.Amount }),
	FieldSendMax: amountField("SendMax", func(t *Transaction) *amount.Amount { return t.SendMax }),
	FieldPaths: {
		name: "Paths",
		has:  func(t *Transaction) bool { return len(t.Paths) > 0 },
		put:  func(t *Transaction, dst []byte) []byte { return putPaths(dst, t.Paths) },
	},
	FieldLimitAmount: amountField("LimitAmount", func(t *Transaction) *amount.Amount { return t.LimitAmount }),
	FieldQualityIn:   u32Field("QualityIn", func(t *Transaction) *uint32 { return t.QualityIn }),
	FieldQualityOut:  u32Field("QualityOut", func(t *Transaction) *uint32 { return t.QualityOut }),
	FieldTakerPays:   amountField("TakerPays", func(t *Transaction) *amount.Amount { return t.TakerPays }),
	FieldTakerGets:   amountField("TakerGets", func(t *Transaction) *amount.Amount { return t.TakerGets }),
	FieldExpiration:  u32Field("Expiration", func(t *Transaction) *uint32 { return t.Expiration }),
	FieldOfferSequence: u32Field("OfferSequence", func(t *Transaction) *uint32 {
		return t.OfferSequence
	}),
	FieldEmailHash: {
		name: "EmailHash",
		has:  func(t *Transaction) bool { return t.EmailHash != nil },
		put:  func(t *Transaction, dst []byte) []byte { return append(dst, t.EmailHash[:]...) },
	},
	FieldWalletLocator: {
		name: "WalletLocator",
		has:  func(t *Transaction) bool { return t.WalletLocator != nil },
		put:  func(t *Transaction, dst []byte) []byte { return append(dst, t.WalletLocator[:]...) },
	},
	FieldMessageKey:   blobField("MessageKey", func(t *Transaction) *Blob { return t.MessageKey }),
	FieldDomain:       blobField("Domain", func(t *Transaction) *Blob { return t.Domain }),
	FieldTransferRate: u32Field("TransferRate", func(t *Transaction) *uint32 { return t.TransferRate }),
	FieldPublishHash: {
		name: "PublishHash",
		has:  func(t *Transaction) bool { return t.PublishHash != nil },
		put:  func(t *Transaction, dst []byte) []byte { return append(dst, t.PublishHash[:]...) },
	},
	FieldPublishSize: u32Field("PublishSize", func(t *Transaction) *uint32 { return t.PublishSize }),
	FieldNickname: {
		name: "Nickname",
		has:  func(t *Transaction) bool { return t.Nickname != nil },
		put:  func(t *Transaction, dst []byte) []byte { return append(dst, t.Nickname[:]...) },
	},
	FieldMinimumOffer: amountField("MinimumOffer", func(t *Transaction) *amount.Amount { return t.MinimumOffer }),
	FieldAuthorizedKey: {
		name: "AuthorizedKey",
		has:  func(t *Transaction) bool { return t.AuthorizedKey != nil },
		put:  func(t *Transaction, dst []byte) []byte { return append(dst, t.AuthorizedKey[:]...) },
	},
	FieldGenerator: blobField("Generator", func(t *Transaction) *Blob { return t.Generator }),
	FieldPublicKey: blobField("PublicKey", func(t *Transaction) *Blob { return t.PublicKey }),
	FieldSignature: blobField("Signature", func(t *Transaction) *Blob { return t.Signature }),
}

// fieldOrder fixes the order unexpected fields are reported in.
var fieldOrder = []Field{
	FieldDestination, FieldAmount, FieldSendMax, FieldPaths, FieldLimitAmount,
	FieldQualityIn, FieldQualityOut, FieldTakerPays, FieldTakerGets, FieldExpiration,
	FieldOfferSequence, FieldEmailHash, FieldWalletLocator, FieldMessageKey, FieldDomain,
	FieldTransferRate, FieldPublishHash, FieldPublishSize, FieldNickname, FieldMinimumOffer,
	FieldAuthorizedKey, FieldGenerator, FieldPublicKey, FieldSignature,
}

// Formats holds the field table of every transaction type.
var Formats = map[Type]Format{
	TypePayment: {
		{Field: FieldFlags, Req: IsFlags, Flag: TfPaymentMask},
		{Field: FieldDestination, Req: Required},
		{Field: FieldAmount, Req: Required},
		{Field: FieldSendMax, Req: Optional},
		{Field: FieldPaths, Req: IfNotFlag, Flag: TfCreateAccount},
	},
	TypeClaim: {
		{Field: FieldFlags, Req: IsFlags},
		{Field: FieldGenerator, Req: Required},
		{Field: FieldPublicKey, Req: Required},
		{Field: FieldSignature, Req: Required},
	},
	TypeWalletAdd: {
		{Field: FieldFlags, Req: IsFlags},
		{Field: FieldAmount, Req: Required},
		{Field: FieldAuthorizedKey, Req: Required},
		{Field: FieldPublicKey, Req: Required},
		{Field: FieldSignature, Req: Required},
		{Field: FieldGenerator, Req: Optional},
	},
	TypeAccountSet: {
		{Field: FieldFlags, Req: IsFlags},
		{Field: FieldEmailHash, Req: Optional},
		{Field: FieldWalletLocator, Req: Optional},
		{Field: FieldMessageKey, Req: Optional},
		{Field: FieldDomain, Req: Optional},
		{Field: FieldTransferRate, Req: Optional},
		{Field: FieldPublishHash, Req: Optional},
		{Field: FieldPublishSize, Req: Optional},
	},
	TypePasswordFund: {
		{Field: FieldFlags, Req: IsFlags},
		{Field: FieldDestination, Req: Required},
	},
	TypePasswordSet: {
		{Field: FieldFlags, Req: IsFlags},
		{Field: FieldAuthorizedKey, Req: Required},
		{Field: FieldGenerator, Req: Required},
		{Field: FieldPublicKey, Req: Required},
		{Field: FieldSignature, Req: Required},
	},
	TypeNicknameSet: {
		{Field: FieldFlags, Req: IsFlags},
		{Field: FieldNickname, Req: Required},
		{Field: FieldMinimumOffer, Req: Optional},
	},
	TypeOfferCreate: {
		{Field: FieldFlags, Req: IsFlags, Flag: TfOfferCreateMask},
		{Field: FieldTakerPays, Req: Required},
		{Field: FieldTakerGets, Req: Required},
		{Field: FieldExpiration, Req: Optional},
	},
	TypeOfferCancel: {
		{Field: FieldFlags, Req: IsFlags},
		{Field: FieldOfferSequence, Req: Required},
	},
	TypeCreditSet: {
		{Field: FieldFlags, Req: IsFlags},
		{Field: FieldLimitAmount, Req: Required},
		{Field: FieldQualityIn, Req: Optional},
		{Field: FieldQualityOut, Req: Optional},
	},
}

func malformed(t *Transaction, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformed, t.TransactionType, fmt.Sprintf(format, args...))
}

// Validate checks the transaction against the format of its type.
func (t *Transaction) Validate() error {
	format, ok := Formats[t.TransactionType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTransactionType, t.TransactionType)
	}
	return format.check(t)
}

func (f Format) check(t *Transaction) error {
	if t.Account.IsZero() {
		return malformed(t, "Account is required")
	}
	if !t.Fee.IsNative() {
		return malformed(t, "Fee must be native")
	}

	listed := make(map[Field]bool, len(f))
	for _, s := range f {
		listed[s.Field] = true
		if s.Req == IsFlags {
			if extra := t.Flags &^ s.Flag; extra != 0 {
				return malformed(t, "invalid flags %#08x", extra)
			}
			continue
		}
		def := fieldDefs[s.Field]
		present := def.has(t)
		switch s.Req {
		case Required:
			if !present {
				return malformed(t, "%s is required", def.name)
			}
		case IfFlag:
			if present && !isSet(t.Flags, s.Flag) {
				return malformed(t, "%s requires flag %#08x", def.name, s.Flag)
			}
		case IfNotFlag:
			if present && isSet(t.Flags, s.Flag) {
				return malformed(t, "%s not allowed with flag %#08x", def.name, s.Flag)
			}
		}
	}

	for _, field := range fieldOrder {
		if !listed[field] && fieldDefs[field].has(t) {
			return malformed(t, "unexpected field %s", fieldDefs[field].name)
		}
	}
	return nil
}

// serialize writes the common fields and then the type's fields in format
// order, each as its field id followed by the payload.
func (t *Transaction) serialize(withSignature bool) []byte {
	buf := make([]byte, 0, 256)
	buf = append(buf, byte(FieldTransactionType))
	buf = binary.BigEndian.AppendUint16(buf, uint16(t.TransactionType))
	buf = append(buf, byte(FieldFlags))
	buf = binary.BigEndian.AppendUint32(buf, t.Flags)
	buf = append(buf, byte(FieldAccount))
	buf = append(buf, t.Account[:]...)
	buf = append(buf, byte(FieldSequence))
	buf = binary.BigEndian.AppendUint32(buf, t.Sequence)
	buf = append(buf, byte(FieldFee))
	buf = t.Fee.Encode(buf)
	buf = append(buf, byte(FieldSigningPubKey))
	buf = putVL(buf, t.SigningPubKey)

	for _, s := range Formats[t.TransactionType] {
		switch {
		case s.Req == IsFlags:
			continue
		case s.Req == IfFlag && !isSet(t.Flags, s.Flag):
			continue
		case s.Req == IfNotFlag && isSet(t.Flags, s.Flag):
			continue
		}
		def := fieldDefs[s.Field]
		if !def.has(t) {
			continue
		}
		buf = append(buf, byte(s.Field))
		buf = def.put(t, buf)
	}

	if withSignature {
		buf = append(buf, byte(FieldTxnSignature))
		buf = putVL(buf, t.TxnSignature)
	}
	return buf
}
