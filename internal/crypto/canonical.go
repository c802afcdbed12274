package crypto

import (
	"math/big"
)

var secp256k1Order, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

// IsCanonicalECDSA reports whether sig is a strict DER encoding of (R, S)
// with both values in [1, order). High S values are accepted.
func IsCanonicalECDSA(sig []byte) bool {
	if len(sig) < 8 || len(sig) > 72 || sig[0] != 0x30 || int(sig[1]) != len(sig)-2 {
		return false
	}
	r, rest, ok := derInteger(sig[2:])
	if !ok {
		return false
	}
	s, rest, ok := derInteger(rest)
	if !ok || len(rest) != 0 {
		return false
	}
	return inOrder(r) && inOrder(s)
}

func derInteger(data []byte) ([]byte, []byte, bool) {
	if len(data) < 3 || data[0] != 0x02 {
		return nil, nil, false
	}
	n := int(data[1])
	if n == 0 || n > 33 || len(data) < 2+n {
		return nil, nil, false
	}
	v := data[2 : 2+n]
	// Negative values and superfluous leading zeros are not strict DER.
	if v[0]&0x80 != 0 {
		return nil, nil, false
	}
	if n > 1 && v[0] == 0 && v[1]&0x80 == 0 {
		return nil, nil, false
	}
	return v, data[2+n:], true
}

func inOrder(b []byte) bool {
	v := new(big.Int).SetBytes(b)
	return v.Sign() > 0 && v.Cmp(secp256k1Order) < 0
}
