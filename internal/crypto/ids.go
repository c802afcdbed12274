package crypto

import (
	"crypto/sha256"

	"github.com/LeJamon/goRippled/internal/types"
	"github.com/decred/dcrd/crypto/ripemd160"
)

// CalcAccountID derives the account id of a public key as
// RIPEMD160(SHA256(publicKey)). Both key types hash the full 33 bytes,
// including the type prefix.
func CalcAccountID(publicKey []byte) types.AccountID {
	sha := sha256.Sum256(publicKey)

	h := ripemd160.New()
	h.Write(sha[:])

	var id types.AccountID
	copy(id[:], h.Sum(nil))
	return id
}
