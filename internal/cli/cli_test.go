package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/core/tx"
	"github.com/LeJamon/goRippled/internal/crypto"
	"github.com/LeJamon/goRippled/internal/storage/txindex"
	"github.com/LeJamon/goRippled/internal/types"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile, stateFile, txsFile, envFile, jsonOutput = "", "", "", "", false
	signKey, signTxFile, signEd25519 = "", "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeJSON(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

type testKey struct {
	hex    string
	signer crypto.Signer
	id     types.AccountID
}

func newTestKey(t *testing.T, seed byte) testKey {
	t.Helper()
	raw := bytes.Repeat([]byte{seed}, 32)
	s, err := crypto.NewSecp256k1Signer(raw)
	require.NoError(t, err)
	return testKey{hex: hex.EncodeToString(raw), signer: s, id: crypto.CalcAccountID(s.PublicKey())}
}

func payment(t *testing.T, from testKey, to types.AccountID, seq uint32, drops int64) *tx.Transaction {
	t.Helper()
	p := tx.New(tx.TypePayment, from.id, seq, 10)
	amt := amount.NewNative(drops)
	p.Destination, p.Amount = &to, &amt
	require.NoError(t, p.Sign(from.signer))
	return p
}

// applyFixture writes a two account ledger and txs to dir.
func applyFixture(t *testing.T, dir string, txs ...*tx.Transaction) (state, txsPath string) {
	t.Helper()
	alice, bob := newTestKey(t, 1), newTestKey(t, 2)
	state = writeJSON(t, dir, "state.json", StateFixture{
		LedgerIndex: 7,
		Accounts: []AccountFixture{
			{Account: alice.id, Balance: amount.NewNative(1000 * amount.SystemCurrencyParts)},
			{Account: bob.id, Balance: amount.NewNative(1000 * amount.SystemCurrencyParts)},
		},
	})
	raw := make([]json.RawMessage, 0, len(txs))
	for _, tr := range txs {
		data, err := json.Marshal(tr)
		require.NoError(t, err)
		raw = append(raw, data)
	}
	txsPath = writeJSON(t, dir, "txs.json", TxsFixture{Transactions: raw})
	return state, txsPath
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	alice, bob := newTestKey(t, 1), newTestKey(t, 2)

	good := payment(t, alice, bob.id, 1, 5*amount.SystemCurrencyParts)
	forged := payment(t, alice, bob.id, 2, amount.SystemCurrencyParts)
	forged.TxnSignature[len(forged.TxnSignature)-1] ^= 1
	late := payment(t, alice, bob.id, 9, amount.SystemCurrencyParts)

	state, txs := applyFixture(t, dir, good, forged, late)
	dbPath := filepath.Join(dir, "tx.db")
	t.Setenv("RIPPLED_TX_INDEX_ENABLED", "true")
	t.Setenv("RIPPLED_TX_INDEX_DSN", dbPath)

	out, err := execute(t, "apply", "--state", state, "--txs", txs, "--json")
	require.NoError(t, err)

	var results []TxResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)

	assert.Equal(t, "tesSUCCESS", results[0].Result)
	assert.True(t, results[0].Applied)
	assert.True(t, results[0].SignatureOK)
	assert.Equal(t, good.ID().String(), results[0].Hash)
	assert.Equal(t, "5000000/XRP", results[0].Delivered)

	assert.Equal(t, "temBAD_SIGNATURE", results[1].Result)
	assert.False(t, results[1].SignatureOK)
	assert.False(t, results[1].Applied)

	assert.Equal(t, "terPRE_SEQ", results[2].Result)
	assert.True(t, results[2].SignatureOK)

	idx, err := txindex.Open(context.Background(), txindex.NewConfig(txindex.DriverSQLite, dbPath))
	require.NoError(t, err)
	defer idx.Close()
	count, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	rec, err := idx.Get(context.Background(), good.ID())
	require.NoError(t, err)
	assert.Equal(t, uint32(7), rec.LedgerSeq)
	assert.Equal(t, "Payment", rec.Type)
	byBob, err := idx.AccountTransactions(context.Background(), bob.id, 10)
	require.NoError(t, err)
	assert.Len(t, byBob, 1)
}

func TestApplyEnvFees(t *testing.T) {
	dir := t.TempDir()
	alice, bob := newTestKey(t, 1), newTestKey(t, 2)
	state, txs := applyFixture(t, dir, payment(t, alice, bob.id, 1, 100))
	env := writeJSON(t, dir, "env.json", EnvFixture{
		CloseTime: 500,
		Fees:      &FeesFixture{BaseFee: 20, AccountCreate: 1000, NicknameCreate: 1000},
	})

	out, err := execute(t, "apply", "--state", state, "--txs", txs, "--env", env)
	require.NoError(t, err)
	// The fee paid is below the fixture's base fee.
	assert.Contains(t, out, "telINSUF_FEE_P")
	assert.Contains(t, out, "0 applied, 0 fee claimed, 1 rejected")
}

func TestApplyMalformedFixtures(t *testing.T) {
	dir := t.TempDir()
	state, _ := applyFixture(t, dir)

	tests := []struct {
		name    string
		txs     string
		wantErr string
	}{
		{"unknown type", `{"transactions":[{"TransactionType":"Teleport"}]}`, "transaction 0"},
		{"not json", `{"transactions":`, "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "txs.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.txs), 0o644))
			_, err := execute(t, "apply", "--state", state, "--txs", path)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	_, err := execute(t, "apply", "--state", filepath.Join(dir, "missing.json"), "--txs", state)
	assert.ErrorContains(t, err, "failed to read")
}

func TestSign(t *testing.T) {
	alice, bob := newTestKey(t, 1), newTestKey(t, 2)
	unsigned := tx.New(tx.TypePayment, alice.id, 3, 10)
	amt := amount.NewNative(42)
	unsigned.Destination, unsigned.Amount = &bob.id, &amt
	path := writeJSON(t, t.TempDir(), "tx.json", unsigned)

	out, err := execute(t, "sign", "--key", alice.hex, "--tx", path)
	require.NoError(t, err)

	var signed struct {
		TxJSON json.RawMessage `json:"tx_json"`
		Hash   string          `json:"hash"`
		Signer string          `json:"signer"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &signed))
	got, err := tx.FromJSON(signed.TxJSON)
	require.NoError(t, err)
	assert.NoError(t, got.CheckSign(crypto.SignatureVerifier{}))
	assert.Equal(t, got.ID().String(), signed.Hash)
	assert.Equal(t, alice.id.String(), signed.Signer)

	_, err = execute(t, "sign", "--key", "zz", "--tx", path)
	assert.ErrorContains(t, err, "invalid key hex")
}

func TestAmountCommands(t *testing.T) {
	issuer := newTestKey(t, 9).id.String()

	out, err := execute(t, "amount", "parse", "1^5")
	require.NoError(t, err)
	assert.Contains(t, out, "text:     1500000/XRP")

	out, err = execute(t, "amount", "encode", "12.5", "USD", issuer)
	require.NoError(t, err)
	encoded := strings.TrimSpace(out)

	out, err = execute(t, "amount", "decode", encoded)
	require.NoError(t, err)
	assert.Equal(t, "12.5/USD/"+issuer, strings.TrimSpace(out))

	_, err = execute(t, "amount", "parse", "5", "USD")
	assert.ErrorContains(t, err, "need an issuer")

	_, err = execute(t, "amount", "decode", encoded+"00")
	assert.ErrorContains(t, err, "trailing bytes")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rippled.toml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	out, err = execute(t, "--conf", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# source: "+path)

	_, err = execute(t, "config", "init", path)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "goRippled version "+rootCmd.Version)
}
