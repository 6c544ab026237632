// Package list handles the tracked-payment listing command
package list

import (
	"time"

	"github.com/spf13/cobra"

	"fjacquet/recurpay/cmd/common"
	"fjacquet/recurpay/cmd/root"
	"fjacquet/recurpay/internal/models"
	"fjacquet/recurpay/internal/report"
)

// Cmd represents the list command
var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked recurring payments with upcoming due dates",
	Long: `List shows the user's active recurring payments sorted by next due date,
with totals for the charges expected inside the horizon and the estimated
monthly outflow. With --all, cancelled payments appear as well but stay
out of the totals.`,
	Run: listFunc,
}

var (
	horizonDays int
	includeAll  bool
)

func init() {
	// List command flags
	Cmd.Flags().IntVar(&horizonDays, "horizon", 30, "Days ahead to total upcoming charges over")
	Cmd.Flags().BoolVar(&includeAll, "all", false, "Include cancelled payments in the listing")
}

func listFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("List command called")
	userID := common.RequireUser(root.SharedFlags.User, root.Log)

	c := root.GetContainer()
	payStore := c.GetPaymentStore()
	var payments []models.RecurringPayment
	var err error
	if includeAll {
		payments, err = payStore.ByUser(cmd.Context(), userID)
	} else {
		payments, err = payStore.ActiveByUser(cmd.Context(), userID)
	}
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to load payments")
	}

	summary := report.BuildSummary(payments, userID, horizonDays, time.Now())
	data, err := c.GetReportGenerator().Render(summary, root.SharedFlags.Format)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to render report")
	}
	if err := common.WriteOutput(data, root.SharedFlags.Output, root.Log); err != nil {
		root.Log.WithError(err).Fatal("Failed to write output")
	}
}
