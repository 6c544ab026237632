package confirm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fjacquet/recurpay/cmd/confirm"
)

func TestConfirmCommand_Metadata(t *testing.T) {
	assert.Equal(t, "confirm", confirm.Cmd.Use)
	assert.Contains(t, confirm.Cmd.Short, "tracked recurring payment")
	assert.NotNil(t, confirm.Cmd.Run)
}

func TestConfirmCommand_Flags(t *testing.T) {
	merchantFlag := confirm.Cmd.Flags().Lookup("merchant")
	assert.NotNil(t, merchantFlag)
	assert.Equal(t, "m", merchantFlag.Shorthand)

	indexFlag := confirm.Cmd.Flags().Lookup("index")
	assert.NotNil(t, indexFlag)
	assert.Equal(t, "i", indexFlag.Shorthand)
	assert.Equal(t, "0", indexFlag.DefValue)

	autoFlag := confirm.Cmd.Flags().Lookup("auto")
	assert.NotNil(t, autoFlag)
	assert.Equal(t, "false", autoFlag.DefValue)

	assert.NotNil(t, confirm.Cmd.Flags().Lookup("name"))
	assert.NotNil(t, confirm.Cmd.Flags().Lookup("category"))
	assert.NotNil(t, confirm.Cmd.Flags().Lookup("reminders"))
}
