package crypto

// KeyType identifies the signature scheme of a public key.
type KeyType int

const (
	KeyTypeUnknown KeyType = iota
	KeyTypeSecp256k1
	KeyTypeEd25519
)

func (kt KeyType) String() string {
	switch kt {
	case KeyTypeSecp256k1:
		return "secp256k1"
	case KeyTypeEd25519:
		return "ed25519"
	default:
		return "unknown"
	}
}

// PublicKeyType classifies a 33 byte public key by its first byte: 0xED for
// Ed25519, 0x02/0x03 for a compressed secp256k1 point.
func PublicKeyType(pubKey []byte) KeyType {
	if len(pubKey) != 33 {
		return KeyTypeUnknown
	}
	switch pubKey[0] {
	case 0xED:
		return KeyTypeEd25519
	case 0x02, 0x03:
		return KeyTypeSecp256k1
	default:
		return KeyTypeUnknown
	}
}
