// Package notify handles the notification pass command
package notify

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/recurpay/cmd/common"
	"fjacquet/recurpay/cmd/root"
	"fjacquet/recurpay/internal/logging"
)

// Cmd represents the notify command
var Cmd = &cobra.Command{
	Use:   "notify",
	Short: "Run one notification pass for the user",
	Long: `Notify moves payment statuses in step with the calendar, rebuilds the
pending alerts and dispatches them. Send failures are counted but never
abort the pass.`,
	Run: notifyFunc,
}

func notifyFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Notify command called")
	userID := common.RequireUser(root.SharedFlags.User, root.Log)

	c := root.GetContainer()
	summary, err := c.GetMonitor().ProcessUserNotifications(cmd.Context(), userID, time.Now())
	if err != nil {
		root.Log.WithError(err).Fatal("Notification pass failed")
	}

	if root.SharedFlags.Format == "json" {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			root.Log.WithError(err).Fatal("Failed to render pass summary")
		}
		if err := common.WriteOutput(data, root.SharedFlags.Output, root.Log); err != nil {
			root.Log.WithError(err).Fatal("Failed to write output")
		}
		return
	}

	root.Log.WithFields(
		logging.Field{Key: logging.FieldCount, Value: summary.AlertsTotal},
		logging.Field{Key: "sent", Value: summary.Sent},
		logging.Field{Key: "failed", Value: summary.Failed},
	).Info("Notification pass completed successfully!")
}
