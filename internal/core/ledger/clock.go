package ledger

import "time"

// epochOffset is the Unix time of 2000-01-01T00:00:00Z, the zero of network
// time.
const epochOffset = 946684800

// Clock reports network time in seconds, the unit of offer expirations.
type Clock interface {
	Now() uint32
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint32 {
	return ToNetworkTime(time.Now())
}

// FixedClock always reports the same time.
type FixedClock uint32

func (c FixedClock) Now() uint32 { return uint32(c) }

// ToNetworkTime converts t to network seconds, clamping times before the
// epoch to zero.
func ToNetworkTime(t time.Time) uint32 {
	s := t.Unix() - epochOffset
	if s < 0 {
		return 0
	}
	return uint32(s)
}
