package entry

import (
	"fmt"
)

// Type represents a ledger entry type
type Type uint16

// All known ledger entry types
const (
	TypeAccountRoot   Type = 0x0061
	TypeDirectoryNode Type = 0x0064
	TypeGeneratorMap  Type = 0x0067
	TypeNickname      Type = 0x006e
	TypeOffer         Type = 0x006f
	TypeRippleState   Type = 0x0072
)

// Types lists every entry type in discriminant order.
var Types = []Type{
	TypeAccountRoot,
	TypeDirectoryNode,
	TypeGeneratorMap,
	TypeNickname,
	TypeOffer,
	TypeRippleState,
}

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypeDirectoryNode:
		return "DirectoryNode"
	case TypeGeneratorMap:
		return "GeneratorMap"
	case TypeNickname:
		return "Nickname"
	case TypeOffer:
		return "Offer"
	case TypeRippleState:
		return "RippleState"
	default:
		return fmt.Sprintf("Unknown(%#x)", uint16(t))
	}
}

// Entry is implemented by exactly the types in this package. The unexported
// marker keeps the set closed so type switches over it can be exhaustive.
type Entry interface {
	Type() Type
	Validate() error
	// Clone returns a deep copy that shares no mutable state with the receiver.
	Clone() Entry
	isEntry()
}

// New returns an empty entry of the given type.
func New(t Type) (Entry, error) {
	switch t {
	case TypeAccountRoot:
		return &AccountRoot{}, nil
	case TypeDirectoryNode:
		return &DirectoryNode{}, nil
	case TypeGeneratorMap:
		return &GeneratorMap{}, nil
	case TypeNickname:
		return &Nickname{}, nil
	case TypeOffer:
		return &Offer{}, nil
	case TypeRippleState:
		return &RippleState{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
}
