package entry

import (
	"errors"
)

// AccountRoot flags
const (
	AccountRootPasswordSpent uint32 = 0x00010000
)

// RippleState flags. The reserve flag marks the side that created the line.
const (
	RippleStateLowReserve  uint32 = 0x00010000
	RippleStateHighReserve uint32 = 0x00020000
)

// Offer flags
const (
	OfferPassive uint32 = 0x00010000
)

// Errors returned by entry operations
var (
	ErrInvalidEntry = errors.New("invalid entry")
	ErrUnknownType  = errors.New("unknown entry type")
	ErrCorrupt      = errors.New("corrupt entry encoding")
)
