// Package addresscodec encodes and decodes ripple base58check identifiers:
// account ids, family seeds and account public keys.
package addresscodec

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

const (
	// AccountAddressPrefix is the version byte of classic account addresses ("r...").
	AccountAddressPrefix byte = 0x00
	// AccountPublicKeyPrefix is the version byte of account public keys ("a...").
	AccountPublicKeyPrefix byte = 0x23
	// FamilySeedPrefix is the version byte of family seeds ("s...").
	FamilySeedPrefix byte = 0x21

	AccountIDLength = 20
	FamilySeedLength = 16

	checksumLength = 4
)

// RippleAlphabet is the base58 dictionary used by the ripple network.
const RippleAlphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

var rippleAlphabet = base58.NewAlphabet(RippleAlphabet)

var (
	ErrChecksum      = errors.New("addresscodec: checksum mismatch")
	ErrInvalidPrefix = errors.New("addresscodec: unexpected version prefix")
	ErrInvalidLength = errors.New("addresscodec: invalid payload length")
)

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLength]
}

// Encode prefixes payload with version, appends the double-sha256 checksum and
// renders the result in the ripple alphabet.
func Encode(version byte, payload []byte) string {
	buf := make([]byte, 0, 1+len(payload)+checksumLength)
	buf = append(buf, version)
	buf = append(buf, payload...)
	buf = append(buf, checksum(buf)...)
	return base58.EncodeAlphabet(buf, rippleAlphabet)
}

// Decode reverses Encode. The returned payload excludes version and checksum.
func Decode(encoded string, version byte) ([]byte, error) {
	raw, err := base58.DecodeAlphabet(encoded, rippleAlphabet)
	if err != nil {
		return nil, fmt.Errorf("addresscodec: %w", err)
	}
	if len(raw) < 1+checksumLength {
		return nil, ErrInvalidLength
	}
	body, sum := raw[:len(raw)-checksumLength], raw[len(raw)-checksumLength:]
	if !bytes.Equal(checksum(body), sum) {
		return nil, ErrChecksum
	}
	if body[0] != version {
		return nil, ErrInvalidPrefix
	}
	return body[1:], nil
}

// EncodeAccountID renders a 20 byte account id as a classic address.
func EncodeAccountID(id []byte) (string, error) {
	if len(id) != AccountIDLength {
		return "", ErrInvalidLength
	}
	return Encode(AccountAddressPrefix, id), nil
}

// DecodeAccountID parses a classic address into its 20 byte account id.
func DecodeAccountID(address string) ([AccountIDLength]byte, error) {
	var id [AccountIDLength]byte
	payload, err := Decode(address, AccountAddressPrefix)
	if err != nil {
		return id, err
	}
	if len(payload) != AccountIDLength {
		return id, ErrInvalidLength
	}
	copy(id[:], payload)
	return id, nil
}

// IsValidClassicAddress reports whether address decodes to an account id.
func IsValidClassicAddress(address string) bool {
	_, err := DecodeAccountID(address)
	return err == nil
}

// EncodeSeed renders 16 bytes of seed entropy as a family seed.
func EncodeSeed(entropy []byte) (string, error) {
	if len(entropy) != FamilySeedLength {
		return "", ErrInvalidLength
	}
	return Encode(FamilySeedPrefix, entropy), nil
}

// DecodeSeed parses a family seed back into its entropy.
func DecodeSeed(seed string) ([]byte, error) {
	payload, err := Decode(seed, FamilySeedPrefix)
	if err != nil {
		return nil, err
	}
	if len(payload) != FamilySeedLength {
		return nil, ErrInvalidLength
	}
	return payload, nil
}

// EncodeAccountPublicKey renders a 33 byte public key in "a..." form.
func EncodeAccountPublicKey(pubKey []byte) (string, error) {
	if len(pubKey) != 33 {
		return "", ErrInvalidLength
	}
	return Encode(AccountPublicKeyPrefix, pubKey), nil
}

// DecodeAccountPublicKey parses an "a..." public key.
func DecodeAccountPublicKey(key string) ([]byte, error) {
	payload, err := Decode(key, AccountPublicKeyPrefix)
	if err != nil {
		return nil, err
	}
	if len(payload) != 33 {
		return nil, ErrInvalidLength
	}
	return payload, nil
}
