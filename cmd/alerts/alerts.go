// Package alerts handles the pending-alert listing command
package alerts

import (
	"time"

	"github.com/spf13/cobra"

	"fjacquet/recurpay/cmd/common"
	"fjacquet/recurpay/cmd/root"
)

// Cmd represents the alerts command
var Cmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show the alerts the user's payments warrant right now",
	Long: `Alerts lists due-soon and overdue alerts for the user's active payments
without dispatching them or touching stored statuses. Use the notify
command to actually deliver alerts.`,
	Run: alertsFunc,
}

var atDate string

func init() {
	// Alerts command flags
	Cmd.Flags().StringVar(&atDate, "at", "", "Reference date for due calculations (YYYY-MM-DD, default today)")
}

func alertsFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Alerts command called")
	userID := common.RequireUser(root.SharedFlags.User, root.Log)

	now := common.ParseAt(atDate, time.Now(), root.Log)
	c := root.GetContainer()
	pending, err := c.GetMonitor().GetPendingAlerts(cmd.Context(), userID, now)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to collect alerts")
	}

	data, err := c.GetReportGenerator().RenderAlerts(pending, root.SharedFlags.Format)
	if err != nil {
		root.Log.WithError(err).Fatal("Failed to render alerts")
	}
	if err := common.WriteOutput(data, root.SharedFlags.Output, root.Log); err != nil {
		root.Log.WithError(err).Fatal("Failed to write output")
	}
}
