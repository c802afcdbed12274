package tx

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/crypto"
	"github.com/LeJamon/goRippled/internal/metrics"
	"github.com/LeJamon/goRippled/internal/types"
)

// book is a ledger where mm sells 10 USD at 2 XRP each with offer sequence
// 2, and alice can hold USD.
type book struct {
	*env
	alice, bob, mm, gw wallet
	mmOffer            types.Hash256
}

func newBook(t *testing.T) *book {
	b := &book{
		alice: newWallet(t, 1),
		bob:   newWallet(t, 2),
		mm:    newWallet(t, 4),
		gw:    newWallet(t, 9),
	}
	b.env = newEnv(t, b.alice, b.bob, b.mm, b.gw)
	b.trust(b.alice, b.gw.id, "1000")
	b.trust(b.mm, b.gw.id, "1000")
	b.mustApply(b.gw, b.payment(b.gw, b.mm.id, iou("100", b.gw.id)))
	b.mustApply(b.mm, b.offer(b.mm, drops(20*xrp), iou("10", b.gw.id), 0))
	b.mmOffer = keylet.Offer(b.mm.id, 2).Key
	return b
}

func bookDir(pays, gets amount.Amount) types.Hash256 {
	base := keylet.BookBase(pays.Currency(), pays.Issuer(), gets.Currency(), gets.Issuer()).Key
	return keylet.QualityIndex(base, amount.GetRate(gets, pays))
}

func TestOfferPlaced(t *testing.T) {
	b := newBook(t)
	v := b.view()

	offer := v.Offer(b.mmOffer)
	require.NotNil(t, offer)
	assert.Equal(t, b.mm.id, offer.Account)
	assert.Equal(t, uint32(2), offer.Sequence)
	assert.Equal(t, int64(20*xrp), offer.TakerPays.Drops())
	assert.True(t, offer.TakerGets.Equal(iou("10", b.gw.id)))
	assert.False(t, offer.Passive())

	dir := bookDir(drops(20*xrp), iou("10", b.gw.id))
	assert.Equal(t, dir, offer.BookDirectory)
	_, first, ok := v.DirFirst(dir)
	require.True(t, ok)
	assert.Equal(t, b.mmOffer, first)

	count, res := v.DirCount(keylet.OwnerDir(b.mm.id).Key)
	require.Equal(t, ter.TesSUCCESS, res)
	assert.Equal(t, uint32(2), count)
	assert.Equal(t, uint32(2), b.root(b.mm.id).OwnerCount)
}

func TestOfferCrossesFully(t *testing.T) {
	b := newBook(t)
	reg := prometheus.NewRegistry()
	b.engine = NewEngine(crypto.SignatureVerifier{}, metrics.MustNew(reg))

	aliceStart, mmStart := b.balance(b.alice.id), b.balance(b.mm.id)
	tx := b.offer(b.alice, iou("10", b.gw.id), drops(20*xrp), 0)
	b.mustApply(b.alice, tx)

	v := b.view()
	assert.True(t, v.RippleHolds(b.alice.id, usd, b.gw.id).Equal(iou("10", b.gw.id)))
	assert.True(t, v.RippleHolds(b.mm.id, usd, b.gw.id).Equal(iou("90", b.gw.id)))
	assert.Equal(t, aliceStart-20*xrp-10, b.balance(b.alice.id))
	assert.Equal(t, mmStart+20*xrp, b.balance(b.mm.id))

	assert.Nil(t, v.Offer(b.mmOffer))
	assert.Nil(t, v.Offer(keylet.Offer(b.alice.id, tx.Sequence).Key))
	assert.Nil(t, v.DirNode(bookDir(drops(20*xrp), iou("10", b.gw.id))))
	assert.Equal(t, uint32(1), b.root(b.mm.id).OwnerCount)
	assert.Equal(t, uint32(1), b.root(b.alice.id).OwnerCount)

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP rippled_offers_taken_total Resting offers crossed while applying transactions.
# TYPE rippled_offers_taken_total counter
rippled_offers_taken_total 1
`), "rippled_offers_taken_total"))
}

func TestOfferCrossesPartially(t *testing.T) {
	b := newBook(t)

	tx := b.offer(b.alice, iou("20", b.gw.id), drops(40*xrp), 0)
	b.mustApply(b.alice, tx)

	v := b.view()
	assert.True(t, v.RippleHolds(b.alice.id, usd, b.gw.id).Equal(iou("10", b.gw.id)))
	assert.Nil(t, v.Offer(b.mmOffer))

	rest := v.Offer(keylet.Offer(b.alice.id, tx.Sequence).Key)
	require.NotNil(t, rest)
	assert.True(t, rest.TakerPays.Equal(iou("10", b.gw.id)), rest.TakerPays.FullText())
	assert.Equal(t, int64(20*xrp), rest.TakerGets.Drops())
	assert.Equal(t, bookDir(iou("20", b.gw.id), drops(40*xrp)), rest.BookDirectory)
	assert.Equal(t, uint32(2), b.root(b.alice.id).OwnerCount)
}

func TestOfferDoesNotCross(t *testing.T) {
	tests := []struct {
		name  string
		pays  string
		gets  int64
		flags uint32
	}{
		{"passive at equal quality", "10", 20 * xrp, TfPassive},
		{"worse quality", "10", 10 * xrp, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBook(t)
			tx := b.offer(b.alice, iou(tt.pays, b.gw.id), drops(tt.gets), tt.flags)
			b.mustApply(b.alice, tx)

			v := b.view()
			require.NotNil(t, v.Offer(b.mmOffer))
			assert.True(t, v.Offer(b.mmOffer).TakerGets.Equal(iou("10", b.gw.id)))

			placed := v.Offer(keylet.Offer(b.alice.id, tx.Sequence).Key)
			require.NotNil(t, placed)
			assert.Equal(t, tt.flags == TfPassive, placed.Passive())
			assert.True(t, v.RippleHolds(b.alice.id, usd, b.gw.id).IsZero())
		})
	}
}

func TestOfferRemovesUnfundedOffers(t *testing.T) {
	b := newBook(t)
	mm2 := newWallet(t, 5)
	require.NoError(t, b.ledger.Write(keylet.Account(mm2.id).Key, &entry.AccountRoot{
		Account:  mm2.id,
		Balance:  drops(startBal),
		Sequence: 1,
	}))
	b.trust(mm2, b.gw.id, "1000")
	b.mustApply(b.gw, b.payment(b.gw, mm2.id, iou("10", b.gw.id)))
	// A better offer that mm2 then stops funding.
	stale := b.offer(mm2, drops(10*xrp), iou("10", b.gw.id), 0)
	b.mustApply(mm2, stale)
	b.mustApply(mm2, b.payment(mm2, b.gw.id, iou("10", b.gw.id)))
	staleKey := keylet.Offer(mm2.id, stale.Sequence).Key
	require.NotNil(t, b.view().Offer(staleKey))

	b.mustApply(b.alice, b.offer(b.alice, iou("10", b.gw.id), drops(20*xrp), 0))

	v := b.view()
	assert.Nil(t, v.Offer(staleKey))
	assert.Nil(t, v.Offer(b.mmOffer))
	assert.Equal(t, uint32(1), b.root(mm2.id).OwnerCount)
	assert.True(t, v.RippleHolds(b.alice.id, usd, b.gw.id).Equal(iou("10", b.gw.id)))
}

func TestOfferChecks(t *testing.T) {
	zeroExpiration := uint32(0)
	tests := []struct {
		name   string
		pays   func(b *book) amount.Amount
		gets   func(b *book) amount.Amount
		expire *uint32
		want   ter.Result
	}{
		{
			name: "native for native",
			pays: func(*book) amount.Amount { return drops(xrp) },
			gets: func(*book) amount.Amount { return drops(2 * xrp) },
			want: ter.TemBAD_OFFER,
		},
		{
			name: "zero amount",
			pays: func(b *book) amount.Amount { return iou("0", b.gw.id) },
			gets: func(*book) amount.Amount { return drops(xrp) },
			want: ter.TemBAD_OFFER,
		},
		{
			name: "same asset",
			pays: func(b *book) amount.Amount { return iou("10", b.gw.id) },
			gets: func(b *book) amount.Amount { return iou("5", b.gw.id) },
			want: ter.TemREDUNDANT,
		},
		{
			name: "IOU without issuer",
			pays: func(*book) amount.Amount { return iou("10", types.AccountID{}) },
			gets: func(*book) amount.Amount { return drops(xrp) },
			want: ter.TemBAD_ISSUER,
		},
		{
			name:   "zero expiration",
			pays:   func(b *book) amount.Amount { return iou("10", b.gw.id) },
			gets:   func(*book) amount.Amount { return drops(xrp) },
			expire: &zeroExpiration,
			want:   ter.TemBAD_EXPIRATION,
		},
		{
			name: "unfunded",
			pays: func(*book) amount.Amount { return drops(xrp) },
			gets: func(b *book) amount.Amount { return iou("5", b.gw.id) },
			want: ter.TerUNFUNDED,
		},
		{
			name: "missing issuer",
			pays: func(*book) amount.Amount { return iou("10", types.AccountID{0x66}) },
			gets: func(*book) amount.Amount { return drops(xrp) },
			want: ter.TerNO_ACCOUNT,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBook(t)
			tx := b.offer(b.alice, tt.pays(b), tt.gets(b), 0)
			tx.Expiration = tt.expire
			res := b.submit(b.alice, tx)
			assert.Equal(t, tt.want, res.Result)
			assert.Nil(t, b.view().Offer(keylet.Offer(b.alice.id, tx.Sequence).Key))
		})
	}
}

func TestOfferCancel(t *testing.T) {
	b := newBook(t)

	cancel := func(seq uint32) ApplyResult {
		tx := New(TypeOfferCancel, b.mm.id, b.seq(b.mm), 10)
		tx.OfferSequence = &seq
		return b.submit(b.mm, tx)
	}

	assert.Equal(t, ter.TemBAD_SEQUENCE, cancel(0).Result)

	assert.Equal(t, ter.TesSUCCESS, cancel(2).Result)
	v := b.view()
	assert.Nil(t, v.Offer(b.mmOffer))
	assert.Nil(t, v.DirNode(bookDir(drops(20*xrp), iou("10", b.gw.id))))
	assert.Equal(t, uint32(1), b.root(b.mm.id).OwnerCount)

	// Already gone.
	assert.Equal(t, ter.TesSUCCESS, cancel(2).Result)
}
