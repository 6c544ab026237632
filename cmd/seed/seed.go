// Package seed handles the demo-data generation command
package seed

import (
	"time"

	"github.com/spf13/cobra"

	"fjacquet/recurpay/cmd/common"
	"fjacquet/recurpay/cmd/root"
	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/seed"
	"fjacquet/recurpay/internal/store"
)

// Cmd represents the seed command
var Cmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a demo transaction history for the user",
	Long: `Seed generates a synthetic transaction history with known subscriptions
plus one-off noise, so detection can be tried without importing real bank
data. The history lands in the configured transaction store, or in a
standalone CSV file when --out is set.`,
	Run: seedFunc,
}

var (
	accountID     string
	outFile       string
	months        int
	noisePerMonth int
	jitterDays    int
	randomSeed    int64
)

func init() {
	// Seed command flags
	Cmd.Flags().StringVarP(&accountID, "account", "a", "acc-demo", "Account the generated transactions belong to")
	Cmd.Flags().StringVar(&outFile, "out", "", "Write the history to this CSV file instead of the store")
	Cmd.Flags().IntVar(&months, "months", 12, "Months of history to generate")
	Cmd.Flags().IntVar(&noisePerMonth, "noise", 6, "One-off transactions per month")
	Cmd.Flags().IntVar(&jitterDays, "jitter", 1, "Maximum day shift for periodic charges")
	Cmd.Flags().Int64Var(&randomSeed, "seed", 1, "Random seed for reproducible histories")
}

func seedFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Seed command called")
	userID := common.RequireUser(root.SharedFlags.User, root.Log)

	opts := seed.DefaultOptions(accountID, time.Now())
	opts.Months = months
	opts.NoisePerMonth = noisePerMonth
	opts.JitterDays = jitterDays
	opts.Seed = randomSeed

	txs := seed.Generate(opts)

	if outFile != "" {
		if err := store.WriteTransactionsCSV(outFile, txs); err != nil {
			root.Log.WithError(err).Fatal("Failed to write transaction CSV")
		}
	} else {
		c := root.GetContainer()
		if err := c.GetTransactionStore().SaveTransactions(cmd.Context(), userID, txs); err != nil {
			root.Log.WithError(err).Fatal("Failed to save generated transactions")
		}
	}

	root.Log.WithFields(
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: logging.FieldAccount, Value: accountID},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
	).Info("Transaction history generated successfully!")
}
