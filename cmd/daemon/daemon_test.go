package daemon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fjacquet/recurpay/cmd/daemon"
)

func TestDaemonCommand_Metadata(t *testing.T) {
	assert.Equal(t, "daemon", daemon.Cmd.Use)
	assert.Contains(t, daemon.Cmd.Short, "cron schedule")
	assert.NotNil(t, daemon.Cmd.Run)
}

func TestDaemonCommand_Flags(t *testing.T) {
	everyFlag := daemon.Cmd.Flags().Lookup("every")
	assert.NotNil(t, everyFlag)
	assert.Equal(t, "e", everyFlag.Shorthand)
	assert.Equal(t, "0 8 * * *", everyFlag.DefValue)
}
