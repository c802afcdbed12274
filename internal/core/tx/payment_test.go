package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/paths"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/types"
)

func TestPaymentCreateAccount(t *testing.T) {
	alice, carol := newWallet(t, 1), newWallet(t, 3)
	e := newEnv(t, alice)

	create := func() *Transaction {
		tx := e.payment(alice, carol.id, drops(300*xrp))
		tx.Flags = TfCreateAccount
		tx.Fee = drops(int64(e.lc.Fees.AccountCreate))
		return tx
	}

	plain := e.payment(alice, carol.id, drops(300*xrp))
	res := e.submit(alice, plain)
	assert.Equal(t, ter.TerNO_DST, res.Result)
	assert.True(t, res.FeeClaimed)

	e.mustApply(alice, create())
	root := e.root(carol.id)
	require.NotNil(t, root)
	assert.Equal(t, uint32(1), root.Sequence)
	assert.Equal(t, int64(300*xrp), root.Balance.Drops())

	assert.Equal(t, ter.TerCREATED, e.submit(alice, create()).Result)

	// The new account can spend.
	e.mustApply(carol, e.payment(carol, alice.id, drops(xrp)))
}

func TestPaymentChecks(t *testing.T) {
	alice, bob, gw := newWallet(t, 1), newWallet(t, 2), newWallet(t, 9)

	tests := []struct {
		name string
		tx   func(e *env) *Transaction
		want ter.Result
	}{
		{
			name: "zero amount",
			tx:   func(e *env) *Transaction { return e.payment(alice, bob.id, drops(0)) },
			want: ter.TemBAD_AMOUNT,
		},
		{
			name: "to self",
			tx:   func(e *env) *Transaction { return e.payment(alice, alice.id, drops(xrp)) },
			want: ter.TemREDUNDANT,
		},
		{
			name: "zero destination",
			tx:   func(e *env) *Transaction { return e.payment(alice, types.AccountID{}, drops(xrp)) },
			want: ter.TemDST_NEEDED,
		},
		{
			name: "native SendMax on native payment",
			tx: func(e *env) *Transaction {
				tx := e.payment(alice, bob.id, drops(xrp))
				sm := drops(2 * xrp)
				tx.SendMax = &sm
				return tx
			},
			want: ter.TemINVALID,
		},
		{
			name: "SendMax equal to amount",
			tx: func(e *env) *Transaction {
				tx := e.payment(alice, bob.id, iou("5", gw.id))
				sm := iou("5", gw.id)
				tx.SendMax = &sm
				return tx
			},
			want: ter.TemINVALID,
		},
		{
			name: "create with IOU",
			tx: func(e *env) *Transaction {
				tx := e.payment(alice, types.AccountID{0x77}, iou("5", gw.id))
				tx.Flags = TfCreateAccount
				tx.Fee = drops(int64(e.lc.Fees.AccountCreate))
				return tx
			},
			want: ter.TemBAD_AMOUNT,
		},
		{
			name: "too many paths",
			tx: func(e *env) *Transaction {
				tx := e.payment(alice, bob.id, iou("5", gw.id))
				hop := paths.Path{{Type: paths.TypeAccount, Account: gw.id}}
				tx.Paths = paths.PathSet{hop, hop, hop, hop}
				return tx
			},
			want: ter.TelBAD_PATH_COUNT,
		},
		{
			name: "unfunded",
			tx:   func(e *env) *Transaction { return e.payment(alice, bob.id, drops(2*startBal)) },
			want: ter.TerUNFUNDED,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, alice, bob, gw)
			res := e.submit(alice, tt.tx(e))
			assert.Equal(t, tt.want, res.Result)
			assert.Equal(t, int64(startBal), e.balance(bob.id))
			assert.Nil(t, res.Delivered)
		})
	}
}

func TestPaymentThroughIssuer(t *testing.T) {
	alice, bob, gw := newWallet(t, 1), newWallet(t, 2), newWallet(t, 9)
	e := newEnv(t, alice, bob, gw)
	e.trust(alice, gw.id, "100")
	e.trust(bob, gw.id, "100")

	e.mustApply(gw, e.payment(gw, alice.id, iou("50", gw.id)))
	assert.True(t, e.view().RippleHolds(alice.id, usd, gw.id).Equal(iou("50", gw.id)))

	res := e.mustApply(alice, e.payment(alice, bob.id, iou("20", gw.id)))
	require.NotNil(t, res.Delivered)
	assert.True(t, res.Delivered.Equal(iou("20", gw.id)), res.Delivered.FullText())

	v := e.view()
	assert.True(t, v.RippleHolds(alice.id, usd, gw.id).Equal(iou("30", gw.id)))
	assert.True(t, v.RippleHolds(bob.id, usd, gw.id).Equal(iou("20", gw.id)))
}

func TestPaymentBeyondLimit(t *testing.T) {
	alice, bob, gw := newWallet(t, 1), newWallet(t, 2), newWallet(t, 9)
	e := newEnv(t, alice, bob, gw)
	e.trust(alice, gw.id, "100")
	e.trust(bob, gw.id, "10")
	e.mustApply(gw, e.payment(gw, alice.id, iou("50", gw.id)))

	// A partial result is applied but moves nothing.
	res := e.submit(alice, e.payment(alice, bob.id, iou("20", gw.id)))
	assert.Equal(t, ter.TepPATH_PARTIAL, res.Result)
	assert.True(t, res.Applied)
	assert.Nil(t, res.Delivered)
	assert.Equal(t, int64(startBal-20), e.balance(alice.id))
	v := e.view()
	assert.True(t, v.RippleHolds(alice.id, usd, gw.id).Equal(iou("50", gw.id)))
	assert.True(t, v.RippleHolds(bob.id, usd, gw.id).IsZero())
}

func TestPaymentThroughBook(t *testing.T) {
	alice, bob, mm, gw := newWallet(t, 1), newWallet(t, 2), newWallet(t, 4), newWallet(t, 9)
	e := newEnv(t, alice, bob, mm, gw)
	e.trust(bob, gw.id, "1000")
	e.trust(mm, gw.id, "1000")
	e.mustApply(gw, e.payment(gw, mm.id, iou("100", gw.id)))
	// mm sells 10 USD at 2 XRP each.
	e.mustApply(mm, e.offer(mm, drops(20*xrp), iou("10", gw.id), 0))

	aliceStart := e.balance(alice.id)
	tx := e.payment(alice, bob.id, iou("5", gw.id))
	sendMax := drops(100 * xrp)
	tx.SendMax = &sendMax
	res := e.mustApply(alice, tx)
	assert.True(t, res.Delivered.Equal(iou("5", gw.id)))

	v := e.view()
	assert.True(t, v.RippleHolds(bob.id, usd, gw.id).Equal(iou("5", gw.id)))
	assert.True(t, v.RippleHolds(mm.id, usd, gw.id).Equal(iou("95", gw.id)))
	assert.Equal(t, aliceStart-10*xrp-10, e.balance(alice.id))

	offer := v.Offer(keylet.Offer(mm.id, 2).Key)
	require.NotNil(t, offer)
	assert.True(t, offer.TakerGets.Equal(iou("5", gw.id)), offer.TakerGets.FullText())
	assert.Equal(t, int64(10*xrp), offer.TakerPays.Drops())
}

func TestPaymentPartial(t *testing.T) {
	alice, bob, gw := newWallet(t, 1), newWallet(t, 2), newWallet(t, 9)
	e := newEnv(t, alice, bob, gw)
	e.trust(alice, gw.id, "100")
	e.trust(bob, gw.id, "100")
	e.mustApply(gw, e.payment(gw, alice.id, iou("30", gw.id)))

	tx := e.payment(alice, bob.id, iou("50", gw.id))
	tx.Flags = TfPartialPayment
	res := e.mustApply(alice, tx)
	require.NotNil(t, res.Delivered)
	assert.True(t, res.Delivered.Equal(iou("30", gw.id)), res.Delivered.FullText())
	assert.True(t, amount.Zero(usd, gw.id).Equal(e.view().RippleHolds(alice.id, usd, gw.id)))
}
