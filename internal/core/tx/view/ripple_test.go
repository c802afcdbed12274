package view

import (
	"testing"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	usd   = types.MustCurrency("USD")
	alice = types.AccountID{0x10}
	bob   = types.AccountID{0x20}
	gw    = types.AccountID{0x30}
)

func fundedSet(t *testing.T, accounts ...types.AccountID) (*EntrySet, *mapBase) {
	t.Helper()
	b := newMapBase()
	for _, a := range accounts {
		b.put(accountKey(a), rootAt(a, 1000*amount.SystemCurrencyParts))
	}
	return newSet(b), b
}

func iou(text string, issuer types.AccountID) amount.Amount {
	return amount.MustParse(text, usd, issuer)
}

// trust gives holder a line to issuer with limit.
func trust(t *testing.T, s *EntrySet, holder, issuer types.AccountID, limit string) {
	t.Helper()
	res := s.TrustCreate(TrustLine{
		SrcHigh: issuer.Less(holder),
		Src:     holder,
		Dst:     issuer,
		Key:     lineKey(holder, issuer, usd),
		Balance: amount.Zero(usd, types.AccountOne),
		Limit:   iou(limit, holder),
	})
	require.Equal(t, ter.TesSUCCESS, res)
}

func TestRippleCreditCreatesLine(t *testing.T) {
	s, _ := fundedSet(t, alice, bob)

	require.Equal(t, ter.TesSUCCESS, s.RippleCredit(alice, bob, iou("10", alice)))

	assert.True(t, s.RippleHolds(bob, usd, alice).Equal(iou("10", alice)))
	assert.True(t, s.RippleHolds(alice, usd, bob).Equal(iou("-10", bob)))
	assert.True(t, s.RippleOwed(alice, bob, usd).Equal(iou("10", alice)))
	assert.Equal(t, uint32(1), s.AccountRoot(alice).OwnerCount)
	assert.Equal(t, uint32(0), s.AccountRoot(bob).OwnerCount)

	for _, owner := range []types.AccountID{alice, bob} {
		count, res := s.DirCount(keylet.OwnerDir(owner).Key)
		require.Equal(t, ter.TesSUCCESS, res)
		assert.Equal(t, uint32(1), count)
	}

	line := s.RippleState(alice, bob, usd)
	require.NotNil(t, line)
	assert.Equal(t, entry.RippleStateLowReserve, line.Flags)
	require.NoError(t, line.Validate())

	// Paying back reduces the balance on the existing line.
	require.Equal(t, ter.TesSUCCESS, s.RippleCredit(bob, alice, iou("4", alice)))
	assert.True(t, s.RippleHolds(bob, usd, alice).Equal(iou("6", alice)))
}

func TestRippleCreditFromHighSide(t *testing.T) {
	s, _ := fundedSet(t, alice, bob)

	require.Equal(t, ter.TesSUCCESS, s.RippleCredit(bob, alice, iou("3", bob)))
	assert.True(t, s.RippleHolds(alice, usd, bob).Equal(iou("3", bob)))
	assert.Equal(t, entry.RippleStateHighReserve, s.RippleState(alice, bob, usd).Flags)
	assert.Equal(t, uint32(1), s.AccountRoot(bob).OwnerCount)
}

func TestRippleLimitAndQuality(t *testing.T) {
	s, _ := fundedSet(t, alice, gw)
	trust(t, s, alice, gw, "100")

	assert.True(t, s.RippleLimit(alice, gw, usd).Equal(iou("100", alice)))
	assert.True(t, s.RippleLimit(gw, alice, usd).IsZero())

	assert.Equal(t, amount.QualityOne, s.RippleQualityIn(alice, gw, usd))
	line := s.RippleState(alice, gw, usd)
	line.LowQualityIn = 1100000000
	line.HighQualityOut = 900000000
	s.EntryModify(lineKey(alice, gw, usd), line)

	assert.Equal(t, uint32(1100000000), s.RippleQualityIn(alice, gw, usd))
	assert.Equal(t, amount.QualityOne, s.RippleQualityOut(alice, gw, usd))
	assert.Equal(t, uint32(900000000), s.RippleQualityOut(gw, alice, usd))
	assert.Equal(t, amount.QualityOne, s.RippleQualityIn(alice, alice, usd))
	assert.Equal(t, amount.QualityOne, s.RippleQualityIn(alice, bob, usd))
}

func TestTransferRate(t *testing.T) {
	s, _ := fundedSet(t, alice, bob, gw)
	assert.Equal(t, amount.QualityOne, s.RippleTransferRate(gw))

	root := s.AccountRoot(gw)
	root.TransferRate = 1002000000
	s.EntryModify(accountKey(gw), root)

	assert.Equal(t, uint32(1002000000), s.RippleTransferRate(gw))
	assert.Equal(t, uint32(1002000000), s.RippleTransferRateBetween(alice, bob, gw))
	assert.Equal(t, amount.QualityOne, s.RippleTransferRateBetween(gw, bob, gw))
	assert.Equal(t, amount.QualityOne, s.RippleTransferRateBetween(alice, gw, gw))

	fee, err := s.RippleTransferFee(alice, bob, gw, iou("10", gw))
	require.NoError(t, err)
	assert.True(t, fee.Equal(iou("0.02", gw)), fee.String())

	fee, err = s.RippleTransferFee(gw, bob, gw, iou("10", gw))
	require.NoError(t, err)
	assert.True(t, fee.IsZero())
}

func TestRippleSendThroughIssuer(t *testing.T) {
	s, _ := fundedSet(t, alice, bob, gw)
	trust(t, s, alice, gw, "1000")
	trust(t, s, bob, gw, "1000")
	require.Equal(t, ter.TesSUCCESS, s.RippleCredit(gw, alice, iou("100", gw)))

	root := s.AccountRoot(gw)
	root.TransferRate = 1002000000
	s.EntryModify(accountKey(gw), root)

	actual, res := s.RippleSend(alice, bob, iou("10", gw))
	require.Equal(t, ter.TesSUCCESS, res)
	assert.True(t, actual.Equal(iou("10.02", gw)), actual.String())
	assert.True(t, s.RippleHolds(bob, usd, gw).Equal(iou("10", gw)))
	assert.True(t, s.RippleHolds(alice, usd, gw).Equal(iou("89.98", gw)))

	// The issuer itself pays no fee.
	actual, res = s.RippleSend(gw, bob, iou("5", gw))
	require.Equal(t, ter.TesSUCCESS, res)
	assert.True(t, actual.Equal(iou("5", gw)))
}

func TestAccountHoldsNative(t *testing.T) {
	fees := newSet(newMapBase()).Fees()

	tests := []struct {
		name       string
		balance    int64
		ownerCount uint32
		want       int64
	}{
		{"above reserve", 300 * amount.SystemCurrencyParts, 1, 300*amount.SystemCurrencyParts - int64(fees.AccountReserve(1))},
		{"at reserve", int64(fees.AccountReserve(0)), 0, 0},
		{"below reserve", 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newMapBase()
			r := rootAt(alice, tt.balance)
			r.OwnerCount = tt.ownerCount
			b.put(accountKey(alice), r)
			s := newSet(b)
			got := s.AccountHolds(alice, types.CurrencyXRP, types.AccountXRP)
			assert.Equal(t, tt.want, got.Drops())
		})
	}

	s := newSet(newMapBase())
	assert.True(t, s.AccountHolds(bob, types.CurrencyXRP, types.AccountXRP).IsZero())
}

func TestAccountFunds(t *testing.T) {
	s, _ := fundedSet(t, alice, gw)
	trust(t, s, alice, gw, "50")
	require.Equal(t, ter.TesSUCCESS, s.RippleCredit(gw, alice, iou("7", gw)))

	self := iou("1000", gw)
	assert.True(t, s.AccountFunds(gw, self).Equal(self))
	assert.True(t, s.AccountFunds(alice, iou("1", gw)).Equal(iou("7", gw)))
	assert.True(t, s.AccountFunds(bob, iou("1", gw)).IsZero())
}

func TestAccountSendNative(t *testing.T) {
	s, _ := fundedSet(t, alice, bob)
	start := s.AccountRoot(alice).Balance.Drops()

	require.Equal(t, ter.TesSUCCESS, s.AccountSend(alice, bob, amount.NewNative(250)))
	assert.Equal(t, start-250, s.AccountRoot(alice).Balance.Drops())
	assert.Equal(t, start+250, s.AccountRoot(bob).Balance.Drops())

	// The native pseudo-account is neither debited nor credited.
	require.Equal(t, ter.TesSUCCESS, s.AccountSend(alice, types.AccountXRP, amount.NewNative(50)))
	assert.Equal(t, start-300, s.AccountRoot(alice).Balance.Drops())

	require.Equal(t, ter.TesSUCCESS, s.AccountSend(alice, bob, amount.NewNative(0)))
	assert.Panics(t, func() { s.AccountSend(alice, bob, amount.NewNative(-1)) })
}

func TestOfferDelete(t *testing.T) {
	s, _ := fundedSet(t, alice)
	key := keylet.Offer(alice, 5).Key
	book := keylet.QualityIndex(keylet.BookBase(usd, gw, types.CurrencyXRP, types.AccountXRP).Key, 42)

	ownerNode, res := s.DirAdd(keylet.OwnerDir(alice).Key, key, OwnerDirDescriber(alice))
	require.Equal(t, ter.TesSUCCESS, res)
	bookNode, res := s.DirAdd(book, key, nil)
	require.Equal(t, ter.TesSUCCESS, res)
	s.OwnerCountAdjust(alice, 1, nil)
	s.EntryCreate(key, &entry.Offer{
		Account:       alice,
		Sequence:      5,
		TakerPays:     iou("1", gw),
		TakerGets:     amount.NewNative(10),
		BookDirectory: book,
		BookNode:      bookNode,
		OwnerNode:     ownerNode,
	})

	require.Equal(t, ter.TesSUCCESS, s.OfferDelete(key))
	assert.Equal(t, uint32(0), s.AccountRoot(alice).OwnerCount)
	assert.Nil(t, s.Offer(key))
	assert.Nil(t, s.DirNode(book))
	assert.Nil(t, s.DirNode(keylet.OwnerDir(alice).Key))

	assert.Equal(t, ter.TefBAD_LEDGER, s.OfferDelete(key))
}

func TestOwnerCountNeverNegative(t *testing.T) {
	s, _ := fundedSet(t, alice)
	s.OwnerCountAdjust(alice, -1, nil)
	assert.Equal(t, uint32(0), s.AccountRoot(alice).OwnerCount)
	s.OwnerCountAdjust(alice, 2, nil)
	s.OwnerCountAdjust(alice, -1, nil)
	assert.Equal(t, uint32(1), s.AccountRoot(alice).OwnerCount)
}
