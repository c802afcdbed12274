package amount

import (
	"encoding/binary"
	"fmt"

	"github.com/LeJamon/goRippled/internal/types"
)

const (
	// NativeSize is the encoded size of a native amount.
	NativeSize = 8
	// IssuedSize is the encoded size of a non-native amount.
	IssuedSize = 8 + 20 + 20
)

// Encode appends the wire form of a to dst.
func (a Amount) Encode(dst []byte) []byte {
	var word uint64
	switch {
	case a.native && a.IsNegative():
		word = a.value
	case a.native:
		word = a.value | posNative
	case a.IsZero():
		word = notNative
	case a.negative:
		word = notNative | a.value | uint64(a.offset+512+97)<<54
	default:
		word = notNative | a.value | uint64(a.offset+512+256+97)<<54
	}
	dst = binary.BigEndian.AppendUint64(dst, word)
	if !a.native {
		dst = append(dst, a.currency[:]...)
		dst = append(dst, a.issuer[:]...)
	}
	return dst
}

// Bytes returns the wire form of a.
func (a Amount) Bytes() []byte {
	if a.native {
		return a.Encode(make([]byte, 0, NativeSize))
	}
	return a.Encode(make([]byte, 0, IssuedSize))
}

// Decode reads one amount from the front of data and reports how many bytes
// it consumed.
func Decode(data []byte) (Amount, int, error) {
	if len(data) < NativeSize {
		return Amount{}, 0, fmt.Errorf("%w: short buffer", ErrCorrupt)
	}
	word := binary.BigEndian.Uint64(data)

	if word&notNative == 0 {
		if word&posNative != 0 {
			v := word &^ posNative
			if v > MaxNative {
				return Amount{}, 0, fmt.Errorf("%w: native value out of range", ErrCorrupt)
			}
			return Amount{value: v, native: true}, NativeSize, nil
		}
		if word == 0 {
			return Amount{}, 0, fmt.Errorf("%w: negative zero", ErrCorrupt)
		}
		if word > MaxNative {
			return Amount{}, 0, fmt.Errorf("%w: native value out of range", ErrCorrupt)
		}
		return Amount{value: word, native: true, negative: true}, NativeSize, nil
	}

	if len(data) < IssuedSize {
		return Amount{}, 0, fmt.Errorf("%w: short buffer", ErrCorrupt)
	}
	var (
		currency types.Currency
		issuer   types.AccountID
	)
	copy(currency[:], data[8:28])
	copy(issuer[:], data[28:48])
	if currency.IsNative() {
		return Amount{}, 0, fmt.Errorf("%w: non-native amount with native currency", ErrCorrupt)
	}
	if issuer.IsZero() {
		return Amount{}, 0, fmt.Errorf("%w: non-native amount without issuer", ErrCorrupt)
	}

	field := int(word >> 54)
	value := word &^ (uint64(1023) << 54)
	if value == 0 {
		if field != 512 {
			return Amount{}, 0, fmt.Errorf("%w: bad zero encoding", ErrCorrupt)
		}
		return Zero(currency, issuer), IssuedSize, nil
	}

	negative := field&256 == 0
	offset := (field & 255) - 97
	if value < MinValue || value > MaxValue || offset < MinOffset || offset > MaxOffset {
		return Amount{}, 0, fmt.Errorf("%w: value out of canonical range", ErrCorrupt)
	}
	return Amount{
		currency: currency,
		issuer:   issuer,
		value:    value,
		offset:   offset,
		negative: negative,
	}, IssuedSize, nil
}

func (a Amount) MarshalBinary() ([]byte, error) { return a.Bytes(), nil }

func (a *Amount) UnmarshalBinary(data []byte) error {
	v, n, err := Decode(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(data)-n)
	}
	*a = v
	return nil
}
