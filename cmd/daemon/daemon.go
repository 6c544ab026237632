// Package daemon runs the payment monitor on a schedule
package daemon

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"fjacquet/recurpay/cmd/root"
	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/monitor"
)

// Cmd represents the daemon command
var Cmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the payment monitor on a cron schedule",
	Long: `Daemon keeps the process alive and runs a notification pass on the given
cron schedule, until SIGINT or SIGTERM stops it. Without --user the pass
sweeps every user with active payments. One pass runs immediately on
startup so restarts never skip the day's alerts.`,
	Run: daemonFunc,
}

var every string

func init() {
	// Daemon command flags
	Cmd.Flags().StringVarP(&every, "every", "e", "0 8 * * *", "Cron schedule for the notification pass")
}

func daemonFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Daemon command called")
	userID := root.SharedFlags.User

	ctx := cmd.Context()
	c := root.GetContainer()
	mon := c.GetMonitor()

	pass := func() {
		var summary monitor.Summary
		var err error
		if userID == "" {
			summary, err = mon.ProcessAllUsers(ctx, time.Now())
		} else {
			summary, err = mon.ProcessUserNotifications(ctx, userID, time.Now())
		}
		if err != nil {
			root.Log.WithError(err).Error("Notification pass failed")
			return
		}
		root.Log.WithFields(
			logging.Field{Key: logging.FieldCount, Value: summary.AlertsTotal},
			logging.Field{Key: "failed", Value: summary.Failed},
		).Info("Scheduled notification pass completed")
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(every, pass); err != nil {
		root.Log.WithError(err).Fatal("Invalid cron schedule")
	}
	scheduler.Start()
	root.Log.WithFields(
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: "schedule", Value: every},
	).Info("Monitor daemon started")

	pass()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop

	// Wait for an in-flight pass to finish before shutting down.
	<-scheduler.Stop().Done()
	root.Log.Info("Monitor daemon stopped")
}
