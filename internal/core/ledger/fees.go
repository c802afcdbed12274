package ledger

// Fees is the fee and reserve schedule, in native base units.
type Fees struct {
	Base             uint64
	AccountCreate    uint64
	NicknameCreate   uint64
	ReserveBase      uint64
	ReserveIncrement uint64
}

// DefaultFees matches the schedule of the early network.
func DefaultFees() Fees {
	return Fees{
		Base:             10,
		AccountCreate:    1000,
		NicknameCreate:   1000,
		ReserveBase:      200 * 1000000,
		ReserveIncrement: 50 * 1000000,
	}
}

// AccountReserve is the balance an account owning ownerCount entries must
// keep.
func (f Fees) AccountReserve(ownerCount uint32) uint64 {
	return f.ReserveBase + f.ReserveIncrement*uint64(ownerCount)
}
