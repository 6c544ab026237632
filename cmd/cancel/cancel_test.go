package cancel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fjacquet/recurpay/cmd/cancel"
)

func TestCancelCommand_Metadata(t *testing.T) {
	assert.Equal(t, "cancel", cancel.Cmd.Use)
	assert.Contains(t, cancel.Cmd.Short, "Stop tracking")
	assert.NotNil(t, cancel.Cmd.Run)
}

func TestCancelCommand_Flags(t *testing.T) {
	paymentFlag := cancel.Cmd.Flags().Lookup("payment")
	assert.NotNil(t, paymentFlag)
	assert.Equal(t, "p", paymentFlag.Shorthand)
}
