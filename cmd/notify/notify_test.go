package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fjacquet/recurpay/cmd/notify"
)

func TestNotifyCommand_Metadata(t *testing.T) {
	assert.Equal(t, "notify", notify.Cmd.Use)
	assert.Contains(t, notify.Cmd.Short, "notification pass")
	assert.Contains(t, notify.Cmd.Long, "dispatches them")
	assert.NotNil(t, notify.Cmd.Run)
}
