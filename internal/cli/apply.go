package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goRippled/internal/core/ledger"
	"github.com/LeJamon/goRippled/internal/core/tx"
	"github.com/LeJamon/goRippled/internal/core/tx/ter"
	"github.com/LeJamon/goRippled/internal/crypto"
	"github.com/LeJamon/goRippled/internal/log"
	"github.com/LeJamon/goRippled/internal/metrics"
	"github.com/LeJamon/goRippled/internal/storage/nodestore"
	"github.com/LeJamon/goRippled/internal/storage/txindex"
	"github.com/LeJamon/goRippled/internal/types"
)

var (
	stateFile  string
	txsFile    string
	envFile    string
	jsonOutput bool
)

// TxResult is the outcome of one fixture transaction
type TxResult struct {
	Index      int    `json:"index"`
	Hash       string `json:"hash"`
	TxType     string `json:"type"`
	Account    string `json:"account"`
	Result     string `json:"result"`
	Message    string `json:"message"`
	Applied    bool   `json:"applied"`
	FeeClaimed bool   `json:"fee_claimed"`
	Fee        uint64 `json:"fee"`
	Delivered  string `json:"delivered,omitempty"`
	// SignatureOK is the outcome of the concurrent pre-check.
	SignatureOK bool `json:"signature_ok"`
}

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply fixture transactions to a seeded ledger",
	Long: `Apply seeds a ledger from state.json, applies every transaction of
txs.json in order and prints each result.

env.json optionally sets the close time used for offer expiration, a fee
schedule overriding the configuration, and standalone mode.

When [tx_index] is enabled, every transaction is recorded to the index.

Example:
    rippled apply --state state.json --txs txs.json
    rippled apply --state state.json --txs txs.json --env env.json --json`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVar(&stateFile, "state", "", "ledger state fixture (JSON)")
	applyCmd.Flags().StringVar(&txsFile, "txs", "", "transactions fixture (JSON)")
	applyCmd.Flags().StringVar(&envFile, "env", "", "execution environment fixture (JSON)")
	applyCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	applyCmd.MarkFlagRequired("state")
	applyCmd.MarkFlagRequired("txs")
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		state StateFixture
		txsFx TxsFixture
		env   EnvFixture
	)
	if err := readJSON(stateFile, &state); err != nil {
		return err
	}
	if err := readJSON(txsFile, &txsFx); err != nil {
		return err
	}
	if envFile != "" {
		if err := readJSON(envFile, &env); err != nil {
			return err
		}
	}
	txs, err := decodeTransactions(&txsFx)
	if err != nil {
		return err
	}

	db, err := nodestore.New(ctx, cfg.NodeStore())
	if err != nil {
		return err
	}
	defer db.Close()

	l, err := ledger.New(ledger.NodeStore(db), cfg.Ledger.CacheSize,
		ledger.WithSequence(state.LedgerIndex), ledger.WithOpen(true))
	if err != nil {
		return err
	}
	if err := seedLedger(l, &state); err != nil {
		return fmt.Errorf("invalid state fixture: %w", err)
	}
	log.Info("apply: ledger seeded", "ledger", state.LedgerIndex, "store", db.Name(),
		"accounts", len(state.Accounts), "entries", len(state.Entries))

	lc := tx.NewLedgerContext(l)
	lc.Fees = cfg.LedgerFees()
	lc.Config = cfg.Processor()
	env.apply(lc)

	m := metrics.MustNew(prometheus.NewRegistry())
	var verifier crypto.Verifier = crypto.SignatureVerifier{}
	if cfg.Verify.CacheTTL > 0 {
		cv := crypto.NewCachingVerifier(verifier, cfg.Verify.CacheTTL)
		cv.Metrics = m
		verifier = cv
	}

	sigOK, err := verifySignatures(ctx, verifier, txs)
	if err != nil {
		return err
	}

	var idx *txindex.Index
	if cfg.TxIndex.Enabled {
		if idx, err = openTxIndex(ctx); err != nil {
			return err
		}
		defer idx.Close()
	}

	engine := tx.NewEngine(verifier, m)
	results := make([]TxResult, 0, len(txs))
	for i, t := range txs {
		res := engine.Apply(lc, t)
		r := TxResult{
			Index:       i,
			Hash:        res.ID.String(),
			TxType:      t.TransactionType.String(),
			Account:     t.Account.String(),
			Result:      res.Result.String(),
			Message:     res.Message,
			Applied:     res.Applied,
			FeeClaimed:  res.FeeClaimed,
			Fee:         res.Fee,
			SignatureOK: sigOK[i],
		}
		if res.Delivered != nil {
			r.Delivered = res.Delivered.FullText()
		}
		results = append(results, r)

		if idx != nil && (res.Applied || res.FeeClaimed) {
			if err := idx.Record(ctx, indexRecord(l, i, t, res)); err != nil {
				return err
			}
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	printResults(out, results)
	return nil
}

// verifySignatures checks every signature concurrently. The engine checks
// them again; with a caching verifier that second check is a lookup.
func verifySignatures(ctx context.Context, v crypto.Verifier, txs []*tx.Transaction) ([]bool, error) {
	ok := make([]bool, len(txs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, t := range txs {
		i, t := i, t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := t.CheckSign(v); err != nil {
				log.Debug("apply: signature check failed", "index", i, "err", err)
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ok, nil
}

func openTxIndex(ctx context.Context) (*txindex.Index, error) {
	dsn := cfg.TxIndex.DSN
	if dsn == "" {
		dsn = filepath.Join(cfg.Ledger.DataDir, "transactions.db")
	}
	return txindex.Open(ctx, txindex.NewConfig(cfg.TxIndex.Driver, dsn))
}

func indexRecord(l *ledger.Ledger, i int, t *tx.Transaction, res tx.ApplyResult) txindex.Record {
	rec := txindex.Record{
		ID:        res.ID,
		LedgerSeq: l.Sequence(),
		TxnSeq:    uint32(i),
		Account:   t.Account,
		Sequence:  t.Sequence,
		Type:      t.TransactionType.String(),
		Result:    res.Result.String(),
		Raw:       t.Blob(),
	}
	if t.Destination != nil {
		rec.Accounts = []types.AccountID{*t.Destination}
	}
	return rec
}

func resultColor(r string) *color.Color {
	res, _ := ter.FromToken(r)
	switch {
	case res.IsSuccess():
		return color.New(color.FgGreen)
	case res.IsTep(), res.IsTec():
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func printResults(w io.Writer, results []TxResult) {
	var applied, claimed, rejected int
	for _, r := range results {
		switch {
		case r.Applied:
			applied++
		case r.FeeClaimed:
			claimed++
		default:
			rejected++
		}

		fmt.Fprintf(w, "%4d  %-13s %-35s ", r.Index, r.TxType, r.Account)
		resultColor(r.Result).Fprintf(w, "%-22s", r.Result)
		fmt.Fprintf(w, " %s", r.Message)
		if r.Delivered != "" {
			fmt.Fprintf(w, " (delivered %s)", r.Delivered)
		}
		if !r.SignatureOK {
			color.New(color.FgRed).Fprint(w, " [bad signature]")
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\n%d applied, %d fee claimed, %d rejected\n", applied, claimed, rejected)
}
