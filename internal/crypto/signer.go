package crypto

import (
	"crypto/ed25519"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

var ErrInvalidPrivateKey = errors.New("crypto: invalid private key")

// Signer produces signatures a Verifier accepts.
type Signer interface {
	PublicKey() []byte
	Sign(msg []byte) ([]byte, error)
}

// Secp256k1Signer signs with a raw 32 byte secp256k1 scalar.
type Secp256k1Signer struct {
	key *btcec.PrivateKey
}

func NewSecp256k1Signer(privateKey []byte) (*Secp256k1Signer, error) {
	if len(privateKey) != 32 {
		return nil, ErrInvalidPrivateKey
	}
	key, _ := btcec.PrivKeyFromBytes(privateKey)
	if key.Key.IsZero() {
		return nil, ErrInvalidPrivateKey
	}
	return &Secp256k1Signer{key: key}, nil
}

// PublicKey returns the 33 byte compressed public key.
func (s *Secp256k1Signer) PublicKey() []byte {
	return s.key.PubKey().SerializeCompressed()
}

// Sign returns a low-S DER signature over the SHA512-half of msg.
func (s *Secp256k1Signer) Sign(msg []byte) ([]byte, error) {
	digest := Sha512Half(msg)
	return btcecdsa.Sign(s.key, digest[:]).Serialize(), nil
}

// Ed25519Signer signs with an Ed25519 key derived from a 32 byte seed.
type Ed25519Signer struct {
	key ed25519.PrivateKey
}

func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidPrivateKey
	}
	return &Ed25519Signer{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// PublicKey returns 0xED followed by the 32 byte Ed25519 public key.
func (s *Ed25519Signer) PublicKey() []byte {
	pub := s.key.Public().(ed25519.PublicKey)
	return append([]byte{0xED}, pub...)
}

func (s *Ed25519Signer) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(s.key, msg), nil
}
