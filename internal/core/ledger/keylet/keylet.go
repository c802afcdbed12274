package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/crypto"
	"github.com/LeJamon/goRippled/internal/types"
)

// Space identifiers for keylet generation
const (
	spaceAccount   uint16 = 'a' // Account root
	spaceDirNode   uint16 = 'd' // Directory node page
	spaceGenerator uint16 = 'g' // Generator map
	spaceNickname  uint16 = 'n' // Nickname
	spaceRipple    uint16 = 'r' // Trust line
	spaceOffer     uint16 = 'o' // Offer
	spaceOwnerDir  uint16 = 'O' // Owner directory
	spaceBookDir   uint16 = 'B' // Order book directory
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  types.Hash256
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) types.Hash256 {
	var spaceBytes [2]byte
	binary.BigEndian.PutUint16(spaceBytes[:], space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes[:])
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

// Account returns the keylet for an account root entry.
func Account(accountID types.AccountID) Keylet {
	return Keylet{
		Type: entry.TypeAccountRoot,
		Key:  indexHash(spaceAccount, accountID[:]),
	}
}

// Offer returns the keylet for an offer entry.
func Offer(accountID types.AccountID, sequence uint32) Keylet {
	var seqBytes [4]byte
	binary.BigEndian.PutUint32(seqBytes[:], sequence)
	return Keylet{
		Type: entry.TypeOffer,
		Key:  indexHash(spaceOffer, accountID[:], seqBytes[:]),
	}
}

// OwnerDir returns the keylet for the root of an owner directory.
func OwnerDir(accountID types.AccountID) Keylet {
	return Keylet{
		Type: entry.TypeDirectoryNode,
		Key:  indexHash(spaceOwnerDir, accountID[:]),
	}
}

// DirPage returns the keylet for page n of the directory rooted at root.
// Page 0 is the root itself.
func DirPage(root types.Hash256, page uint64) Keylet {
	if page == 0 {
		return Keylet{Type: entry.TypeDirectoryNode, Key: root}
	}
	var pageBytes [8]byte
	binary.BigEndian.PutUint64(pageBytes[:], page)
	return Keylet{
		Type: entry.TypeDirectoryNode,
		Key:  indexHash(spaceDirNode, root[:], pageBytes[:]),
	}
}

// OwnerDirPage returns the keylet for a specific page of an owner directory.
func OwnerDirPage(accountID types.AccountID, page uint64) Keylet {
	return DirPage(OwnerDir(accountID).Key, page)
}

// Line returns the keylet for a trust line (RippleState) between two accounts.
// The order of the accounts does not matter.
func Line(account1, account2 types.AccountID, currency types.Currency) Keylet {
	low, high := account1, account2
	if high.Less(low) {
		low, high = high, low
	}
	return Keylet{
		Type: entry.TypeRippleState,
		Key:  indexHash(spaceRipple, low[:], high[:], currency[:]),
	}
}

// Generator returns the keylet for a generator map entry.
func Generator(generatorID []byte) Keylet {
	return Keylet{
		Type: entry.TypeGeneratorMap,
		Key:  indexHash(spaceGenerator, generatorID),
	}
}

// Nickname returns the keylet for a nickname, identified by its hash.
func Nickname(nickname types.Hash256) Keylet {
	return Keylet{
		Type: entry.TypeNickname,
		Key:  indexHash(spaceNickname, nickname[:]),
	}
}

// BookBase returns the keylet for the lowest-quality page of an order book.
// Offers trading takerGets for takerPays at quality q live at
// QualityIndex(BookBase(...).Key, q).
func BookBase(takerPaysCurrency types.Currency, takerPaysIssuer types.AccountID, takerGetsCurrency types.Currency, takerGetsIssuer types.AccountID) Keylet {
	base := indexHash(spaceBookDir, takerPaysCurrency[:], takerPaysIssuer[:], takerGetsCurrency[:], takerGetsIssuer[:])
	return Keylet{
		Type: entry.TypeDirectoryNode,
		Key:  QualityIndex(base, 0),
	}
}

// QualityIndex replaces the low 64 bits of base with quality.
func QualityIndex(base types.Hash256, quality uint64) types.Hash256 {
	binary.BigEndian.PutUint64(base[24:], quality)
	return base
}

// QualityNext returns the first index past every quality of base's book.
func QualityNext(base types.Hash256) types.Hash256 {
	next := QualityIndex(base, 0)
	for i := 23; i >= 0; i-- {
		next[i]++
		if next[i] != 0 {
			break
		}
	}
	return next
}

// GetQuality returns the quality stored in the low 64 bits of index.
func GetQuality(index types.Hash256) uint64 {
	return binary.BigEndian.Uint64(index[24:])
}
