// Package main provides the entry point for the recurpay CLI application.
package main

import (
	"fjacquet/recurpay/cmd/alerts"
	"fjacquet/recurpay/cmd/cancel"
	"fjacquet/recurpay/cmd/categorize"
	"fjacquet/recurpay/cmd/confirm"
	"fjacquet/recurpay/cmd/daemon"
	"fjacquet/recurpay/cmd/detect"
	"fjacquet/recurpay/cmd/list"
	"fjacquet/recurpay/cmd/notify"
	"fjacquet/recurpay/cmd/paid"
	"fjacquet/recurpay/cmd/root"
	"fjacquet/recurpay/cmd/seed"
)

func main() {
	root.Init()

	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(confirm.Cmd)
	root.Cmd.AddCommand(list.Cmd)
	root.Cmd.AddCommand(paid.Cmd)
	root.Cmd.AddCommand(cancel.Cmd)
	root.Cmd.AddCommand(alerts.Cmd)
	root.Cmd.AddCommand(notify.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(daemon.Cmd)
	root.Cmd.AddCommand(seed.Cmd)

	if err := root.Cmd.Execute(); err != nil {
		root.Log.WithError(err).Fatal("Command failed")
	}
}
