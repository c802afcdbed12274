// Package crypto provides the hashing, account id derivation and signature
// capabilities the ledger consumes.
package crypto

import (
	"crypto/sha512"
	"encoding/binary"
)

// HashPrefix separates the hash spaces of different kinds of objects.
type HashPrefix uint32

const (
	// HashPrefixTransactionID prefixes a signed transaction to form its id (TXN\0).
	HashPrefixTransactionID HashPrefix = 0x54584E00
	// HashPrefixTxSign prefixes the unsigned transaction a signature covers (STX\0).
	HashPrefixTxSign HashPrefix = 0x53545800
	// HashPrefixLeafNode prefixes a stored ledger entry (MLN\0).
	HashPrefixLeafNode HashPrefix = 0x4D4C4E00
)

// Bytes returns the prefix as 4 big-endian bytes.
func (hp HashPrefix) Bytes() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(hp))
	return b
}

// Sha512Half returns the first 32 bytes of the SHA-512 of the concatenated
// inputs.
func Sha512Half(data ...[]byte) [32]byte {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// PrefixedHash is Sha512Half over prefix followed by data.
func PrefixedHash(prefix HashPrefix, data ...[]byte) [32]byte {
	return Sha512Half(append([][]byte{prefix.Bytes()}, data...)...)
}
