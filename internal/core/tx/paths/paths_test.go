package paths

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/ledger"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/core/ledger/keylet"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/core/tx/view"
	"github.com/LeJamon/goRippled/internal/metrics"
	"github.com/LeJamon/goRippled/internal/storage/nodestore"
	"github.com/LeJamon/goRippled/internal/types"
)

var (
	usd   = types.MustCurrency("USD")
	alice = types.AccountID{0x10}
	bob   = types.AccountID{0x20}
	gw    = types.AccountID{0x30}
	mm    = types.AccountID{0x40}
	mm2   = types.AccountID{0x50}
)

const xrp = amount.SystemCurrencyParts

func iou(text string, issuer types.AccountID) amount.Amount {
	return amount.MustParse(text, usd, issuer)
}

func drops(n int64) amount.Amount { return amount.NewNative(n) }

// fixture is a ledger with funded accounts and a set to stage more state.
type fixture struct {
	t      *testing.T
	ledger *ledger.Ledger
	set    *view.EntrySet
}

func newFixture(t *testing.T, accounts ...types.AccountID) *fixture {
	t.Helper()
	db, err := nodestore.New(context.Background(), nodestore.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l, err := ledger.New(ledger.NodeStore(db), 64, ledger.WithOpen(true))
	require.NoError(t, err)
	for _, a := range accounts {
		require.NoError(t, l.Write(keylet.Account(a).Key, &entry.AccountRoot{
			Account:  a,
			Balance:  drops(1000 * xrp),
			Sequence: 1,
		}))
	}
	return &fixture{t: t, ledger: l, set: view.New(l, ledger.DefaultFees())}
}

// trust gives holder a line to gw with limit.
func (f *fixture) trust(holder types.AccountID, limit string) {
	f.t.Helper()
	f.trustIssuer(holder, gw, limit)
}

// trustIssuer gives holder a line to issuer with limit.
func (f *fixture) trustIssuer(holder, issuer types.AccountID, limit string) {
	f.t.Helper()
	res := f.set.TrustCreate(view.TrustLine{
		SrcHigh: issuer.Less(holder),
		Src:     holder,
		Dst:     issuer,
		Key:     keylet.Line(holder, issuer, usd).Key,
		Balance: amount.Zero(usd, types.AccountOne),
		Limit:   iou(limit, holder),
	})
	require.Equal(f.t, ter.TesSUCCESS, res)
}

func (f *fixture) issue(holder types.AccountID, value string) {
	f.t.Helper()
	f.issueFrom(gw, holder, value)
}

func (f *fixture) issueFrom(issuer, holder types.AccountID, value string) {
	f.t.Helper()
	require.Equal(f.t, ter.TesSUCCESS, f.set.RippleCredit(issuer, holder, iou(value, issuer)))
}

func (f *fixture) transferRate(issuer types.AccountID, rate uint32) {
	f.t.Helper()
	root := f.set.AccountRoot(issuer)
	require.NotNil(f.t, root)
	root.TransferRate = rate
	f.set.EntryModify(keylet.Account(issuer).Key, root)
}

// offer places an offer by owner taking pays and giving gets.
func (f *fixture) offer(owner types.AccountID, seq uint32, pays, gets amount.Amount, expiration uint32) types.Hash256 {
	f.t.Helper()
	key := keylet.Offer(owner, seq).Key
	base := keylet.BookBase(pays.Currency(), pays.Issuer(), gets.Currency(), gets.Issuer()).Key
	dir := keylet.QualityIndex(base, amount.GetRate(gets, pays))

	ownerNode, res := f.set.DirAdd(keylet.OwnerDir(owner).Key, key, view.OwnerDirDescriber(owner))
	require.Equal(f.t, ter.TesSUCCESS, res)
	bookNode, res := f.set.DirAdd(dir, key, view.BookDirDescriber(pays.Currency(), pays.Issuer(), gets.Currency(), gets.Issuer()))
	require.Equal(f.t, ter.TesSUCCESS, res)
	f.set.OwnerCountAdjust(owner, 1, nil)
	f.set.EntryCreate(key, &entry.Offer{
		Account:       owner,
		Sequence:      seq,
		TakerPays:     pays,
		TakerGets:     gets,
		BookDirectory: dir,
		BookNode:      bookNode,
		OwnerNode:     ownerNode,
		Expiration:    expiration,
	})
	return key
}

// active commits the staged state and returns a fresh set over it.
func (f *fixture) active() *view.EntrySet {
	f.t.Helper()
	require.NoError(f.t, f.set.Commit(f.ledger))
	f.set = view.New(f.ledger, ledger.DefaultFees())
	return f.set
}

func nodeAccounts(st *State) []types.AccountID {
	out := make([]types.AccountID, len(st.Nodes))
	for i, n := range st.Nodes {
		out[i] = n.Account
	}
	return out
}

func TestNewStateImpliedNodes(t *testing.T) {
	f := newFixture(t, alice, bob, gw)
	f.trust(alice, "100")
	f.trust(bob, "100")
	f.issue(alice, "50")
	s := f.active()

	t.Run("through issuer", func(t *testing.T) {
		st := NewState(0, s, nil, bob, alice, iou("10", gw), iou("10", alice))
		require.Equal(t, ter.TesSUCCESS, st.Status)
		assert.Equal(t, []types.AccountID{alice, gw, bob}, nodeAccounts(st))
		for _, n := range st.Nodes {
			assert.True(t, n.IsAccount())
		}
	})

	t.Run("native into book", func(t *testing.T) {
		st := NewState(0, s, nil, bob, alice, iou("10", gw), drops(100*xrp))
		require.Equal(t, ter.TesSUCCESS, st.Status)
		assert.Equal(t, []types.AccountID{alice, types.AccountXRP, gw, bob}, nodeAccounts(st))
		book := st.Nodes[1]
		assert.False(t, book.IsAccount())
		assert.Equal(t, usd, book.Currency)
		assert.Equal(t, gw, book.Issuer)
		assert.True(t, st.Nodes[0].Currency.IsNative())
	})

	t.Run("third party send max", func(t *testing.T) {
		st := NewState(0, s, nil, bob, alice, iou("10", gw), iou("10", gw))
		require.Equal(t, ter.TesSUCCESS, st.Status)
		assert.Equal(t, []types.AccountID{alice, gw, bob}, nodeAccounts(st))
	})
}

func TestNewStateRejects(t *testing.T) {
	f := newFixture(t, alice, bob, gw)
	f.trust(alice, "100")
	f.trust(bob, "100")
	f.issue(alice, "50")
	s := f.active()

	tests := []struct {
		name    string
		path    Path
		send    amount.Amount
		sendMax amount.Amount
		want    ter.Result
	}{
		{
			name:    "unknown element bits",
			path:    Path{{Type: 0x40, Account: gw}},
			send:    iou("10", gw),
			sendMax: iou("10", alice),
			want:    ter.TemBAD_PATH,
		},
		{
			name:    "native with issuer",
			path:    Path{{Type: TypeCurrency | TypeIssuer, Currency: types.CurrencyXRP, Issuer: gw}},
			send:    iou("10", gw),
			sendMax: drops(xrp),
			want:    ter.TemBAD_PATH,
		},
		{
			name:    "book crossed twice",
			path:    Path{BookElement(usd, gw), BookElement(types.CurrencyXRP, types.AccountXRP), BookElement(usd, gw)},
			send:    iou("10", gw),
			sendMax: drops(xrp),
			want:    ter.TemBAD_PATH_LOOP,
		},
		{
			name:    "too long",
			path:    make(Path, MaxPathLength+1),
			send:    iou("10", gw),
			sendMax: iou("10", alice),
			want:    ter.TemBAD_PATH,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewState(0, s, tt.path, bob, alice, tt.send, tt.sendMax)
			assert.Equal(t, tt.want, st.Status)
		})
	}
}

func TestNewStateLineChecks(t *testing.T) {
	t.Run("no line", func(t *testing.T) {
		f := newFixture(t, alice, bob, gw)
		f.trust(alice, "100")
		s := f.active()
		st := NewState(0, s, nil, bob, alice, iou("10", gw), iou("10", alice))
		assert.Equal(t, ter.TerNO_LINE, st.Status)
	})

	t.Run("no room", func(t *testing.T) {
		f := newFixture(t, alice, bob, gw)
		f.trust(alice, "100")
		f.trust(bob, "0")
		s := f.active()
		st := NewState(0, s, nil, bob, alice, iou("10", gw), iou("10", alice))
		assert.Equal(t, ter.TepPATH_DRY, st.Status)
	})

	t.Run("native needs no line", func(t *testing.T) {
		f := newFixture(t, alice, bob)
		s := f.active()
		st := NewState(0, s, nil, bob, alice, drops(10*xrp), drops(10*xrp))
		require.Equal(t, ter.TesSUCCESS, st.Status)
		assert.Equal(t, []types.AccountID{alice, bob}, nodeAccounts(st))
	})
}

func TestLessPriority(t *testing.T) {
	state := func(index int, quality uint64, out string) *State {
		return &State{index: index, Quality: quality, OutPass: iou(out, gw)}
	}
	tests := []struct {
		name string
		a, b *State
		want bool
	}{
		{"worse quality", state(0, 20, "5"), state(1, 10, "5"), true},
		{"better quality", state(1, 10, "1"), state(0, 20, "5"), false},
		{"less delivered", state(0, 10, "1"), state(1, 10, "5"), true},
		{"later path", state(2, 10, "5"), state(1, 10, "5"), true},
		{"earlier path", state(1, 10, "5"), state(2, 10, "5"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lessPriority(tt.a, tt.b))
		})
	}
}

func TestRippleCalcEmpty(t *testing.T) {
	f := newFixture(t, alice, bob)
	_, _, res := RippleCalc(f.active(), Params{
		MaxAmountReq:   iou("1", alice),
		DstAmountReq:   iou("1", bob),
		Src:            alice,
		Dst:            bob,
		NoRippleDirect: true,
	})
	assert.Equal(t, ter.TemRIPPLE_EMPTY, res)
}

func TestRippleCalcNoLine(t *testing.T) {
	f := newFixture(t, alice, bob, gw)
	f.trust(alice, "100")
	_, _, res := RippleCalc(f.active(), Params{
		MaxAmountReq: iou("10", alice),
		DstAmountReq: iou("10", gw),
		Src:          alice,
		Dst:          bob,
	})
	assert.Equal(t, ter.TerNO_LINE, res)
}

func TestRippleCalcThroughIssuer(t *testing.T) {
	tests := []struct {
		name      string
		rate      uint32
		send      string
		wantSpent string
		wantAlice string
	}{
		{"no fee", 0, "10", "10", "40"},
		{"transfer fee", 1002000000, "10", "10.02", "39.98"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, alice, bob, gw)
			f.trust(alice, "100")
			f.trust(bob, "100")
			f.issue(alice, "50")
			if tt.rate != 0 {
				f.transferRate(gw, tt.rate)
			}
			active := f.active()

			maxAct, dstAct, res := RippleCalc(active, Params{
				MaxAmountReq: iou("20", alice),
				DstAmountReq: iou(tt.send, gw),
				Src:          alice,
				Dst:          bob,
			})
			require.Equal(t, ter.TesSUCCESS, res)
			assert.True(t, dstAct.Equal(iou(tt.send, gw)), dstAct.FullText())
			assert.True(t, maxAct.Equal(iou(tt.wantSpent, alice)), maxAct.FullText())
			assert.Equal(t, alice, maxAct.Issuer())
			assert.Equal(t, gw, dstAct.Issuer())
			assert.True(t, active.RippleHolds(bob, usd, gw).Equal(iou(tt.send, gw)))
			assert.True(t, active.RippleHolds(alice, usd, gw).Equal(iou(tt.wantAlice, gw)))
		})
	}
}

func TestRippleCalcQualityIn(t *testing.T) {
	tests := []struct {
		name      string
		quality   uint32
		wantSpent string
		wantBob   string
		wantAlice string
	}{
		{"par", 0, "10", "10", "40"},
		{"valued at half", 500000000, "20", "20", "30"},
		{"above par ignored", 1100000000, "10", "10", "40"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, alice, bob, gw)
			f.trust(alice, "100")
			f.trust(bob, "100")
			f.issue(alice, "50")
			if tt.quality != 0 {
				line := f.set.RippleState(bob, gw, usd)
				require.NotNil(t, line)
				line.LowQualityIn = tt.quality
				f.set.EntryModify(keylet.Line(bob, gw, usd).Key, line)
			}
			active := f.active()
			if tt.quality != 0 {
				require.Equal(t, tt.quality, active.RippleQualityIn(bob, gw, usd))
			}

			maxAct, dstAct, res := RippleCalc(active, Params{
				MaxAmountReq: iou("40", alice),
				DstAmountReq: iou("10", gw),
				Src:          alice,
				Dst:          bob,
			})
			require.Equal(t, ter.TesSUCCESS, res)
			assert.True(t, dstAct.Equal(iou("10", gw)), dstAct.FullText())
			assert.True(t, maxAct.Equal(iou(tt.wantSpent, alice)), maxAct.FullText())
			assert.Equal(t, alice, maxAct.Issuer())
			assert.True(t, active.RippleHolds(bob, usd, gw).Equal(iou(tt.wantBob, gw)))
			assert.True(t, active.RippleHolds(alice, usd, gw).Equal(iou(tt.wantAlice, gw)))
		})
	}
}

func TestRippleCalcQualityOut(t *testing.T) {
	tests := []struct {
		name      string
		quality   uint32
		wantSpent string
		wantAlice string
	}{
		{"par", 0, "10", "40"},
		{"charged on the way out", 1100000000, "11", "39"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// alice holds mm's IOUs and mm holds bob's, so mm ripples by
			// redeeming on both lines.
			f := newFixture(t, alice, bob, mm)
			f.trustIssuer(alice, mm, "100")
			f.issueFrom(mm, alice, "50")
			f.trustIssuer(mm, bob, "100")
			f.issueFrom(bob, mm, "50")
			if tt.quality != 0 {
				line := f.set.RippleState(mm, bob, usd)
				require.NotNil(t, line)
				line.HighQualityOut = tt.quality
				f.set.EntryModify(keylet.Line(mm, bob, usd).Key, line)
			}
			active := f.active()

			maxAct, dstAct, res := RippleCalc(active, Params{
				MaxAmountReq:   iou("20", alice),
				DstAmountReq:   iou("10", bob),
				Src:            alice,
				Dst:            bob,
				Paths:          PathSet{{AccountElement(mm)}},
				NoRippleDirect: true,
			})
			require.Equal(t, ter.TesSUCCESS, res)
			assert.True(t, dstAct.Equal(iou("10", bob)), dstAct.FullText())
			assert.True(t, maxAct.Equal(iou(tt.wantSpent, alice)), maxAct.FullText())
			assert.True(t, active.RippleHolds(alice, usd, mm).Equal(iou(tt.wantAlice, mm)))
			assert.True(t, active.RippleHolds(mm, usd, bob).Equal(iou("40", bob)))
		})
	}
}

func TestRippleCalcBestPathFirst(t *testing.T) {
	gw2 := types.AccountID{0x60}
	f := newFixture(t, alice, bob, gw, gw2)
	f.trustIssuer(alice, gw, "100")
	f.trustIssuer(alice, gw2, "100")
	f.trustIssuer(bob, gw, "100")
	f.trustIssuer(bob, gw2, "100")
	f.issueFrom(gw, alice, "5")
	f.issueFrom(gw2, alice, "50")
	f.transferRate(gw2, 1002000000)
	active := f.active()

	reg := prometheus.NewRegistry()
	m := metrics.MustNew(reg)

	// The fee-free path is listed last so index order cannot pick it.
	maxAct, dstAct, res := RippleCalc(active, Params{
		MaxAmountReq:   iou("20", alice),
		DstAmountReq:   iou("10", bob),
		Src:            alice,
		Dst:            bob,
		Paths:          PathSet{{AccountElement(gw2)}, {AccountElement(gw)}},
		NoRippleDirect: true,
		Metrics:        m,
	})
	require.Equal(t, ter.TesSUCCESS, res)
	assert.True(t, dstAct.Equal(iou("10", bob)), dstAct.FullText())
	assert.Equal(t, bob, dstAct.Issuer())
	assert.True(t, maxAct.Equal(iou("10.01", alice)), maxAct.FullText())
	assert.Equal(t, alice, maxAct.Issuer())

	// gw's 5 went first at par, gw2 covered the rest plus its fee.
	assert.True(t, active.RippleHolds(alice, usd, gw).IsZero())
	assert.True(t, active.RippleHolds(alice, usd, gw2).Equal(iou("44.99", gw2)))
	assert.True(t, active.RippleHolds(bob, usd, gw).Equal(iou("5", gw)))
	assert.True(t, active.RippleHolds(bob, usd, gw2).Equal(iou("5", gw2)))

	// Both paths are tried in each of the two passes.
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP rippled_payment_path_passes_total Increments computed by the payment router.
# TYPE rippled_payment_path_passes_total counter
rippled_payment_path_passes_total 4
`), "rippled_payment_path_passes_total"))
}

func TestRippleCalcRedeemsToIssuer(t *testing.T) {
	f := newFixture(t, alice, gw)
	f.trust(alice, "100")
	f.issue(alice, "30")
	active := f.active()

	_, dstAct, res := RippleCalc(active, Params{
		MaxAmountReq: iou("12", alice),
		DstAmountReq: iou("12", gw),
		Src:          alice,
		Dst:          gw,
	})
	require.Equal(t, ter.TesSUCCESS, res)
	assert.True(t, dstAct.Equal(iou("12", gw)))
	assert.True(t, active.RippleHolds(alice, usd, gw).Equal(iou("18", gw)))
}

func TestRippleCalcPartial(t *testing.T) {
	tests := []struct {
		name    string
		partial bool
		want    ter.Result
		wantBob string
	}{
		{"partial refused", false, ter.TepPATH_PARTIAL, "0"},
		{"partial accepted", true, ter.TesSUCCESS, "50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, alice, bob, gw)
			f.trust(alice, "100")
			f.trust(bob, "100")
			f.issue(alice, "50")
			active := f.active()

			_, _, res := RippleCalc(active, Params{
				MaxAmountReq: iou("80", alice),
				DstAmountReq: iou("80", gw),
				Src:          alice,
				Dst:          bob,
				Partial:      tt.partial,
			})
			assert.Equal(t, tt.want, res)
			assert.True(t, active.RippleHolds(bob, usd, gw).Equal(iou(tt.wantBob, gw)))
		})
	}
}

// bookFixture has mm selling 10 USD at 2 XRP each.
func bookFixture(t *testing.T) (*fixture, types.Hash256) {
	f := newFixture(t, alice, bob, gw, mm, mm2)
	f.trust(bob, "1000")
	f.trust(mm, "1000")
	f.issue(mm, "100")
	key := f.offer(mm, 1, drops(20*xrp), iou("10", gw), 0)
	return f, key
}

func TestRippleCalcThroughBook(t *testing.T) {
	f, key := bookFixture(t)
	active := f.active()
	aliceStart := active.AccountRoot(alice).Balance.Drops()
	mmStart := active.AccountRoot(mm).Balance.Drops()

	reg := prometheus.NewRegistry()
	m := metrics.MustNew(reg)

	maxAct, dstAct, res := RippleCalc(active, Params{
		MaxAmountReq: drops(100 * xrp),
		DstAmountReq: iou("5", gw),
		Src:          alice,
		Dst:          bob,
		Metrics:      m,
	})
	require.Equal(t, ter.TesSUCCESS, res)
	assert.True(t, dstAct.Equal(iou("5", gw)), dstAct.FullText())
	assert.Equal(t, 10*xrp, maxAct.Drops())

	assert.True(t, active.RippleHolds(bob, usd, gw).Equal(iou("5", gw)))
	assert.True(t, active.RippleHolds(mm, usd, gw).Equal(iou("95", gw)))
	assert.Equal(t, aliceStart-10*xrp, active.AccountRoot(alice).Balance.Drops())
	assert.Equal(t, mmStart+10*xrp, active.AccountRoot(mm).Balance.Drops())

	offer := active.Offer(key)
	require.NotNil(t, offer)
	assert.True(t, offer.TakerGets.Equal(iou("5", gw)))
	assert.Equal(t, 10*xrp, offer.TakerPays.Drops())

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP rippled_offers_taken_total Resting offers crossed while applying transactions.
# TYPE rippled_offers_taken_total counter
rippled_offers_taken_total 1
`), "rippled_offers_taken_total"))
}

func TestRippleCalcConsumesBook(t *testing.T) {
	tests := []struct {
		name      string
		partial   bool
		want      ter.Result
		wantBob   string
		wantOffer bool
	}{
		{"partial refused", false, ter.TepPATH_PARTIAL, "0", true},
		{"partial accepted", true, ter.TesSUCCESS, "10", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, key := bookFixture(t)
			active := f.active()

			_, dstAct, res := RippleCalc(active, Params{
				MaxAmountReq: drops(100 * xrp),
				DstAmountReq: iou("15", gw),
				Src:          alice,
				Dst:          bob,
				Partial:      tt.partial,
			})
			assert.Equal(t, tt.want, res)
			if tt.partial {
				assert.True(t, dstAct.Equal(iou("10", gw)), dstAct.FullText())
			}
			assert.True(t, active.RippleHolds(bob, usd, gw).Equal(iou(tt.wantBob, gw)))
			// A fully consumed offer is removed only when the payment applies.
			assert.Equal(t, tt.wantOffer, active.Offer(key) != nil)
		})
	}
}

func TestRippleCalcRemovesUnfundedOffers(t *testing.T) {
	tests := []struct {
		name string
		// unfunded offer setup: expiration, or zero for an owner without funds
		expiration uint32
		fund       bool
	}{
		{"owner without funds", 0, false},
		{"expired", 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, key := bookFixture(t)
			f.trust(mm2, "1000")
			if tt.fund {
				f.issue(mm2, "100")
			}
			// A better price, so the book reaches it first.
			stale := f.offer(mm2, 1, drops(10*xrp), iou("10", gw), tt.expiration)
			active := f.active()

			_, dstAct, res := RippleCalc(active, Params{
				MaxAmountReq: drops(100 * xrp),
				DstAmountReq: iou("5", gw),
				Src:          alice,
				Dst:          bob,
				Now:          200,
			})
			require.Equal(t, ter.TesSUCCESS, res)
			assert.True(t, dstAct.Equal(iou("5", gw)))
			assert.Nil(t, active.Offer(stale))
			assert.NotNil(t, active.Offer(key))
			assert.Equal(t, uint32(1), active.AccountRoot(mm2).OwnerCount)
		})
	}
}

func TestRippleCalcStandaloneKeepsUnfunded(t *testing.T) {
	f, _ := bookFixture(t)
	f.trust(mm2, "1000")
	stale := f.offer(mm2, 1, drops(10*xrp), iou("10", gw), 0)
	active := f.active()

	_, _, res := RippleCalc(active, Params{
		MaxAmountReq: drops(100 * xrp),
		DstAmountReq: iou("5", gw),
		Src:          alice,
		Dst:          bob,
		Standalone:   true,
	})
	require.Equal(t, ter.TesSUCCESS, res)
	assert.NotNil(t, active.Offer(stale))
}

func TestRippleCalcLimitQuality(t *testing.T) {
	f, _ := bookFixture(t)
	active := f.active()

	// Asking for better than 2 XRP per USD finds nothing acceptable.
	_, _, res := RippleCalc(active, Params{
		MaxAmountReq: drops(5 * xrp),
		DstAmountReq: iou("5", gw),
		Src:          alice,
		Dst:          bob,
		LimitQuality: true,
		Partial:      true,
	})
	assert.Equal(t, ter.TepPATH_DRY, res)
	assert.True(t, active.RippleHolds(bob, usd, gw).IsZero())
}
