// Package cancel handles the payment cancellation command
package cancel

import (
	"github.com/spf13/cobra"

	"fjacquet/recurpay/cmd/common"
	"fjacquet/recurpay/cmd/root"
	"fjacquet/recurpay/internal/logging"
)

// Cmd represents the cancel command
var Cmd = &cobra.Command{
	Use:   "cancel",
	Short: "Stop tracking a recurring payment",
	Long: `Cancel deactivates a tracked recurring payment. The record is kept for
history but no further alerts are raised for it.`,
	Run: cancelFunc,
}

var paymentID string

func init() {
	// Cancel command flags
	Cmd.Flags().StringVarP(&paymentID, "payment", "p", "", "ID of the payment to cancel")
	Cmd.MarkFlagRequired("payment")
}

func cancelFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Cancel command called")
	userID := common.RequireUser(root.SharedFlags.User, root.Log)

	c := root.GetContainer()
	if err := c.GetDetector().Cancel(cmd.Context(), userID, paymentID); err != nil {
		root.Log.WithError(err).Fatal("Failed to cancel payment")
	}

	root.Log.WithField(logging.FieldPayment, paymentID).Info("Payment cancelled successfully!")
}
