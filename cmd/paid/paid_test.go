package paid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fjacquet/recurpay/cmd/paid"
)

func TestPaidCommand_Metadata(t *testing.T) {
	assert.Equal(t, "paid", paid.Cmd.Use)
	assert.Contains(t, paid.Cmd.Short, "Mark a recurring payment as paid")
	assert.NotNil(t, paid.Cmd.Run)
}

func TestPaidCommand_Flags(t *testing.T) {
	paymentFlag := paid.Cmd.Flags().Lookup("payment")
	assert.NotNil(t, paymentFlag)
	assert.Equal(t, "p", paymentFlag.Shorthand)

	dateFlag := paid.Cmd.Flags().Lookup("date")
	assert.NotNil(t, dateFlag)
	assert.Equal(t, "t", dateFlag.Shorthand)
	assert.Equal(t, "", dateFlag.DefValue)
}
