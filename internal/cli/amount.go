package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goRippled/internal/core/amount"
	"github.com/LeJamon/goRippled/internal/types"
)

var amountCmd = &cobra.Command{
	Use:   "amount",
	Short: "Parse, encode and decode amounts",
}

var amountParseCmd = &cobra.Command{
	Use:   "parse <value> [currency] [issuer]",
	Short: "Show an amount's canonical form",
	Long: `Parse reads a value in the given currency (XRP when omitted) and prints
its canonical text, mantissa and exponent, wire encoding and JSON form.

Native values are base units, or whole units with '^' before the fraction.

Example:
    rippled amount parse 1^5
    rippled amount parse 12.5 USD rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := parseAmountArgs(args)
		if err != nil {
			return err
		}
		js, err := json.Marshal(a)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "text:     %s\n", a.FullText())
		fmt.Fprintf(out, "mantissa: %d\n", a.Mantissa())
		fmt.Fprintf(out, "exponent: %d\n", a.Exponent())
		fmt.Fprintf(out, "encoded:  %s\n", strings.ToUpper(hex.EncodeToString(a.Bytes())))
		fmt.Fprintf(out, "json:     %s\n", js)
		return nil
	},
}

var amountEncodeCmd = &cobra.Command{
	Use:   "encode <value> [currency] [issuer]",
	Short: "Print an amount's wire encoding as hex",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := parseAmountArgs(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.ToUpper(hex.EncodeToString(a.Bytes())))
		return nil
	},
}

var amountDecodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode an amount from its wire encoding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid hex: %w", err)
		}
		a, n, err := amount.Decode(data)
		if err != nil {
			return err
		}
		if n != len(data) {
			return fmt.Errorf("%d trailing bytes after amount", len(data)-n)
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.FullText())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(amountCmd)
	amountCmd.AddCommand(amountParseCmd, amountEncodeCmd, amountDecodeCmd)
}

func parseAmountArgs(args []string) (amount.Amount, error) {
	currency := types.CurrencyXRP
	var issuer types.AccountID
	if len(args) > 1 {
		c, err := types.ParseCurrency(args[1])
		if err != nil {
			return amount.Amount{}, err
		}
		currency = c
	}
	if len(args) > 2 {
		id, err := types.ParseAccountID(args[2])
		if err != nil {
			return amount.Amount{}, err
		}
		issuer = id
	}
	if !currency.IsNative() && issuer.IsZero() {
		return amount.Amount{}, fmt.Errorf("%s amounts need an issuer", currency)
	}
	return amount.FromDecimalString(args[0], currency, issuer)
}
