// Package detect handles the recurring-payment detection command
package detect

import (
	"time"

	"github.com/spf13/cobra"

	"fjacquet/recurpay/cmd/common"
	"fjacquet/recurpay/cmd/root"
	"fjacquet/recurpay/internal/logging"
)

// Cmd represents the detect command
var Cmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect recurring payment candidates in transaction history",
	Long: `Detect clusters the user's transaction history into recurring payment
candidates and scores each one. Candidates are printed, not tracked; use
the confirm command (or --auto) to start tracking them.`,
	Run: detectFunc,
}

var (
	autoConfirm bool
	atDate      string
)

func init() {
	// Detect command flags
	Cmd.Flags().BoolVar(&autoConfirm, "auto", false, "Auto-confirm candidates above the configured thresholds")
	Cmd.Flags().StringVar(&atDate, "at", "", "Reference date for projections (YYYY-MM-DD, default today)")
}

func detectFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Detect command called")
	userID := common.RequireUser(root.SharedFlags.User, root.Log)

	ctx := cmd.Context()
	c := root.GetContainer()
	now := common.ParseAt(atDate, time.Now(), root.Log)

	candidates, err := c.GetDetector().DetectForUser(ctx, userID, now)
	if err != nil {
		root.Log.WithError(err).Fatal("Detection failed")
	}

	data, err := c.GetReportGenerator().RenderCandidates(candidates, root.SharedFlags.Format)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to render candidates")
	}
	if err := common.WriteOutput(data, root.SharedFlags.Output, root.Log); err != nil {
		root.Log.WithError(err).Fatal("Failed to write output")
	}

	if autoConfirm {
		result := c.GetDetector().AutoConfirm(ctx, userID, candidates, now)
		for _, f := range result.Failed {
			root.Log.WithError(f.Err).WithField(logging.FieldMerchant, f.MerchantPattern).
				Error("Confirmation failed")
		}
		root.Log.WithFields(
			logging.Field{Key: "confirmed", Value: len(result.Confirmed)},
			logging.Field{Key: "skipped", Value: len(result.Skipped)},
			logging.Field{Key: "failed", Value: len(result.Failed)},
		).Info("Auto-confirm completed")
	}

	root.Log.WithField(logging.FieldCount, len(candidates)).Info("Detection completed successfully!")
}
