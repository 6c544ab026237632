// Package paid handles the mark-paid command
package paid

import (
	"time"

	"github.com/spf13/cobra"

	"fjacquet/recurpay/cmd/common"
	"fjacquet/recurpay/cmd/root"
	"fjacquet/recurpay/internal/logging"
)

// Cmd represents the paid command
var Cmd = &cobra.Command{
	Use:   "paid",
	Short: "Mark a recurring payment as paid for the current cycle",
	Long: `Paid records that the current cycle of a tracked payment was settled and
advances its next due date by at least one full cycle.`,
	Run: paidFunc,
}

var (
	paymentID string
	paidDate  string
)

func init() {
	// Paid command flags
	Cmd.Flags().StringVarP(&paymentID, "payment", "p", "", "ID of the payment to mark as paid")
	Cmd.Flags().StringVarP(&paidDate, "date", "t", "", "Payment date as YYYY-MM-DD (defaults to today)")
	Cmd.MarkFlagRequired("payment")
}

func paidFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Paid command called")
	userID := common.RequireUser(root.SharedFlags.User, root.Log)

	paidAt := time.Now()
	if paidDate != "" {
		parsed, err := time.Parse("2006-01-02", paidDate)
		if err != nil {
			root.Log.WithError(err).Fatal("Invalid --date, expected YYYY-MM-DD")
		}
		paidAt = parsed
	}

	c := root.GetContainer()
	payment, err := c.GetDetector().MarkPaid(cmd.Context(), userID, paymentID, paidAt)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to mark payment as paid")
	}

	root.Log.WithFields(
		logging.Field{Key: logging.FieldPayment, Value: payment.ID},
		logging.Field{Key: "next_due", Value: payment.NextDueDate.Format("2006-01-02")},
	).Info("Payment marked as paid successfully!")
}
