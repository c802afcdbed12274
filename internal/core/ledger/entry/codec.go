package entry

import (
	"fmt"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/types"
	"github.com/ugorji/go/codec"
)

var msgpackHandle = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	h.Canonical = true
	return h
}()

// The stored form is a one byte type tag followed by the msgpack record.
// Amounts travel in their wire encoding.

type accountRootRecord struct {
	Account       []byte `codec:"acct"`
	Balance       []byte `codec:"bal"`
	Sequence      uint32 `codec:"seq"`
	Flags         uint32 `codec:"flags,omitempty"`
	OwnerCount    uint32 `codec:"owners,omitempty"`
	AuthorizedKey []byte `codec:"auth,omitempty"`
	Generator     []byte `codec:"gen,omitempty"`
	EmailHash     []byte `codec:"email,omitempty"`
	WalletLocator []byte `codec:"wloc,omitempty"`
	MessageKey    []byte `codec:"msgkey,omitempty"`
	TransferRate  uint32 `codec:"xfer,omitempty"`
	Domain        []byte `codec:"domain,omitempty"`
	PublishHash   []byte `codec:"pubhash,omitempty"`
	PublishSize   uint32 `codec:"pubsize,omitempty"`
}

type rippleStateRecord struct {
	Balance        []byte `codec:"bal"`
	LowLimit       []byte `codec:"low"`
	HighLimit      []byte `codec:"high"`
	LowQualityIn   uint32 `codec:"lqi,omitempty"`
	LowQualityOut  uint32 `codec:"lqo,omitempty"`
	HighQualityIn  uint32 `codec:"hqi,omitempty"`
	HighQualityOut uint32 `codec:"hqo,omitempty"`
	LowNode        uint64 `codec:"lnode,omitempty"`
	HighNode       uint64 `codec:"hnode,omitempty"`
	Flags          uint32 `codec:"flags,omitempty"`
}

type offerRecord struct {
	Account       []byte `codec:"acct"`
	Sequence      uint32 `codec:"seq"`
	TakerPays     []byte `codec:"pays"`
	TakerGets     []byte `codec:"gets"`
	BookDirectory []byte `codec:"book"`
	BookNode      uint64 `codec:"bnode,omitempty"`
	OwnerNode     uint64 `codec:"onode,omitempty"`
	Expiration    uint32 `codec:"exp,omitempty"`
	Flags         uint32 `codec:"flags,omitempty"`
}

type directoryRecord struct {
	RootIndex         []byte   `codec:"root"`
	Indexes           [][]byte `codec:"idx"`
	IndexNext         uint64   `codec:"next,omitempty"`
	IndexPrevious     uint64   `codec:"prev,omitempty"`
	Owner             []byte   `codec:"owner,omitempty"`
	TakerPaysCurrency []byte   `codec:"pcur,omitempty"`
	TakerPaysIssuer   []byte   `codec:"piss,omitempty"`
	TakerGetsCurrency []byte   `codec:"gcur,omitempty"`
	TakerGetsIssuer   []byte   `codec:"giss,omitempty"`
}

type generatorRecord struct {
	Generator []byte `codec:"gen"`
}

type nicknameRecord struct {
	Account      []byte `codec:"acct"`
	MinimumOffer []byte `codec:"min,omitempty"`
}

// Marshal encodes e for the node store.
func Marshal(e Entry) ([]byte, error) {
	var rec interface{}
	switch v := e.(type) {
	case *AccountRoot:
		rec = accountRootRecord{
			Account:       v.Account[:],
			Balance:       v.Balance.Bytes(),
			Sequence:      v.Sequence,
			Flags:         v.Flags,
			OwnerCount:    v.OwnerCount,
			AuthorizedKey: optional(v.AuthorizedKey[:]),
			Generator:     optional(v.Generator[:]),
			EmailHash:     optional(v.EmailHash[:]),
			WalletLocator: optional(v.WalletLocator[:]),
			MessageKey:    v.MessageKey,
			TransferRate:  v.TransferRate,
			Domain:        v.Domain,
			PublishHash:   optional(v.PublishHash[:]),
			PublishSize:   v.PublishSize,
		}
	case *RippleState:
		rec = rippleStateRecord{
			Balance:        v.Balance.Bytes(),
			LowLimit:       v.LowLimit.Bytes(),
			HighLimit:      v.HighLimit.Bytes(),
			LowQualityIn:   v.LowQualityIn,
			LowQualityOut:  v.LowQualityOut,
			HighQualityIn:  v.HighQualityIn,
			HighQualityOut: v.HighQualityOut,
			LowNode:        v.LowNode,
			HighNode:       v.HighNode,
			Flags:          v.Flags,
		}
	case *Offer:
		rec = offerRecord{
			Account:       v.Account[:],
			Sequence:      v.Sequence,
			TakerPays:     v.TakerPays.Bytes(),
			TakerGets:     v.TakerGets.Bytes(),
			BookDirectory: v.BookDirectory[:],
			BookNode:      v.BookNode,
			OwnerNode:     v.OwnerNode,
			Expiration:    v.Expiration,
			Flags:         v.Flags,
		}
	case *DirectoryNode:
		r := directoryRecord{
			RootIndex:         v.RootIndex[:],
			Indexes:           make([][]byte, len(v.Indexes)),
			IndexNext:         v.IndexNext,
			IndexPrevious:     v.IndexPrevious,
			Owner:             optional(v.Owner[:]),
			TakerPaysCurrency: optional(v.TakerPaysCurrency[:]),
			TakerPaysIssuer:   optional(v.TakerPaysIssuer[:]),
			TakerGetsCurrency: optional(v.TakerGetsCurrency[:]),
			TakerGetsIssuer:   optional(v.TakerGetsIssuer[:]),
		}
		for i := range v.Indexes {
			r.Indexes[i] = v.Indexes[i][:]
		}
		rec = r
	case *GeneratorMap:
		rec = generatorRecord{Generator: v.Generator}
	case *Nickname:
		r := nicknameRecord{Account: v.Account[:]}
		if v.HasMinimum {
			r.MinimumOffer = v.MinimumOffer.Bytes()
		}
		rec = r
	default:
		panic(fmt.Sprintf("entry: unhandled entry type %T", e))
	}

	out := []byte{byte(e.Type())}
	if err := codec.NewEncoderBytes(&out, msgpackHandle).Encode(rec); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", e.Type(), err)
	}
	return out, nil
}

// Unmarshal decodes an entry produced by Marshal.
func Unmarshal(data []byte) (Entry, error) {
	if len(data) < 2 {
		return nil, ErrCorrupt
	}
	t := Type(data[0])
	body := data[1:]
	dec := codec.NewDecoderBytes(body, msgpackHandle)

	var (
		e   Entry
		err error
	)
	switch t {
	case TypeAccountRoot:
		var r accountRootRecord
		if err = dec.Decode(&r); err != nil {
			break
		}
		a := &AccountRoot{
			Sequence:     r.Sequence,
			Flags:        r.Flags,
			OwnerCount:   r.OwnerCount,
			MessageKey:   r.MessageKey,
			TransferRate: r.TransferRate,
			Domain:       r.Domain,
			PublishSize:  r.PublishSize,
		}
		copy(a.Account[:], r.Account)
		copy(a.AuthorizedKey[:], r.AuthorizedKey)
		copy(a.Generator[:], r.Generator)
		copy(a.EmailHash[:], r.EmailHash)
		copy(a.WalletLocator[:], r.WalletLocator)
		copy(a.PublishHash[:], r.PublishHash)
		a.Balance, err = decodeAmount(r.Balance)
		e = a
	case TypeRippleState:
		var r rippleStateRecord
		if err = dec.Decode(&r); err != nil {
			break
		}
		s := &RippleState{
			LowQualityIn:   r.LowQualityIn,
			LowQualityOut:  r.LowQualityOut,
			HighQualityIn:  r.HighQualityIn,
			HighQualityOut: r.HighQualityOut,
			LowNode:        r.LowNode,
			HighNode:       r.HighNode,
			Flags:          r.Flags,
		}
		if s.Balance, err = decodeAmount(r.Balance); err != nil {
			break
		}
		if s.LowLimit, err = decodeAmount(r.LowLimit); err != nil {
			break
		}
		s.HighLimit, err = decodeAmount(r.HighLimit)
		e = s
	case TypeOffer:
		var r offerRecord
		if err = dec.Decode(&r); err != nil {
			break
		}
		o := &Offer{
			Sequence:   r.Sequence,
			BookNode:   r.BookNode,
			OwnerNode:  r.OwnerNode,
			Expiration: r.Expiration,
			Flags:      r.Flags,
		}
		copy(o.Account[:], r.Account)
		copy(o.BookDirectory[:], r.BookDirectory)
		if o.TakerPays, err = decodeAmount(r.TakerPays); err != nil {
			break
		}
		o.TakerGets, err = decodeAmount(r.TakerGets)
		e = o
	case TypeDirectoryNode:
		var r directoryRecord
		if err = dec.Decode(&r); err != nil {
			break
		}
		d := &DirectoryNode{
			IndexNext:     r.IndexNext,
			IndexPrevious: r.IndexPrevious,
		}
		copy(d.RootIndex[:], r.RootIndex)
		copy(d.Owner[:], r.Owner)
		copy(d.TakerPaysCurrency[:], r.TakerPaysCurrency)
		copy(d.TakerPaysIssuer[:], r.TakerPaysIssuer)
		copy(d.TakerGetsCurrency[:], r.TakerGetsCurrency)
		copy(d.TakerGetsIssuer[:], r.TakerGetsIssuer)
		if len(r.Indexes) > 0 {
			d.Indexes = make([]types.Hash256, len(r.Indexes))
			for i, idx := range r.Indexes {
				if len(idx) != len(types.Hash256{}) {
					return nil, ErrCorrupt
				}
				copy(d.Indexes[i][:], idx)
			}
		}
		e = d
	case TypeGeneratorMap:
		var r generatorRecord
		if err = dec.Decode(&r); err != nil {
			break
		}
		e = &GeneratorMap{Generator: r.Generator}
	case TypeNickname:
		var r nicknameRecord
		if err = dec.Decode(&r); err != nil {
			break
		}
		n := &Nickname{}
		copy(n.Account[:], r.Account)
		if len(r.MinimumOffer) > 0 {
			n.HasMinimum = true
			n.MinimumOffer, err = decodeAmount(r.MinimumOffer)
		}
		e = n
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", t, err)
	}
	return e, nil
}

func decodeAmount(b []byte) (amount.Amount, error) {
	var a amount.Amount
	if err := a.UnmarshalBinary(b); err != nil {
		return amount.Amount{}, err
	}
	return a, nil
}

func optional(b []byte) []byte {
	for _, c := range b {
		if c != 0 {
			return b
		}
	}
	return nil
}
