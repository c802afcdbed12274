package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goRippled/internal/core/tx"
	"github.com/LeJamon/goRippled/internal/crypto"
	"github.com/LeJamon/goRippled/internal/log"
)

var (
	signKey     string
	signTxFile  string
	signEd25519 bool
)

// SignedTx is the output of the sign command
type SignedTx struct {
	TxJSON *tx.Transaction `json:"tx_json"`
	Hash   string          `json:"hash"`
	// Address is the account the signing key controls.
	Address string `json:"signer"`
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a transaction",
	Long: `Sign reads a transaction in JSON form, checks it against the format of
its type, signs it and prints the signed transaction with its hash.

The key is a hex private key: a secp256k1 scalar by default, or an Ed25519
seed with --ed25519.

Example:
    rippled sign --key 1F2E...9A --tx payment.json`,
	Args: cobra.NoArgs,
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().StringVar(&signKey, "key", "", "hex private key")
	signCmd.Flags().StringVar(&signTxFile, "tx", "", "transaction JSON file, - for stdin")
	signCmd.Flags().BoolVar(&signEd25519, "ed25519", false, "the key is an Ed25519 seed")
	signCmd.MarkFlagRequired("key")
	signCmd.MarkFlagRequired("tx")
}

func newSigner(keyHex string, ed bool) (crypto.Signer, error) {
	key, err := hex.DecodeString(strings.TrimSpace(keyHex))
	if err != nil {
		return nil, fmt.Errorf("invalid key hex: %w", err)
	}
	if ed {
		return crypto.NewEd25519Signer(key)
	}
	return crypto.NewSecp256k1Signer(key)
}

func runSign(cmd *cobra.Command, args []string) error {
	signer, err := newSigner(signKey, signEd25519)
	if err != nil {
		return err
	}

	var data []byte
	if signTxFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(signTxFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read transaction: %w", err)
	}

	t, err := tx.FromJSON(data)
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if owner := crypto.CalcAccountID(signer.PublicKey()); owner != t.Account {
		log.Warn("sign: key does not belong to the account; an authorized key must be set",
			"account", t.Account, "signer", owner)
	}
	if err := t.Sign(signer); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(SignedTx{
		TxJSON:  t,
		Hash:    t.ID().String(),
		Address: t.Signer().String(),
	})
}
