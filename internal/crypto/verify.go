package crypto

import (
	"crypto/ed25519"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

//go:generate mockgen -destination=mock/verifier_mock.go -package=mock github.com/LeJamon/goRippled/internal/crypto Verifier

// Verifier checks a signature over msg made by the holder of pubKey.
type Verifier interface {
	Verify(msg, pubKey, sig []byte) bool
}

// SignatureVerifier verifies secp256k1 and Ed25519 signatures. secp256k1
// signatures are DER encoded and cover the SHA512-half of msg; Ed25519
// signatures cover msg itself.
type SignatureVerifier struct{}

func (SignatureVerifier) Verify(msg, pubKey, sig []byte) bool {
	switch PublicKeyType(pubKey) {
	case KeyTypeSecp256k1:
		if !IsCanonicalECDSA(sig) {
			return false
		}
		key, err := secp256k1.ParsePubKey(pubKey)
		if err != nil {
			return false
		}
		parsed, err := ecdsa.ParseDERSignature(sig)
		if err != nil {
			return false
		}
		digest := Sha512Half(msg)
		return parsed.Verify(digest[:], key)
	case KeyTypeEd25519:
		if len(sig) != ed25519.SignatureSize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(pubKey[1:]), msg, sig)
	default:
		return false
	}
}
