package categorize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fjacquet/recurpay/cmd/categorize"
)

func TestCategorizeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "categorize", categorize.Cmd.Use)
	assert.Contains(t, categorize.Cmd.Short, "Categorize a merchant")
	assert.NotNil(t, categorize.Cmd.Run)
}

func TestCategorizeCommand_Flags(t *testing.T) {
	merchantFlag := categorize.Cmd.Flags().Lookup("merchant")
	assert.NotNil(t, merchantFlag)
	assert.Equal(t, "m", merchantFlag.Shorthand)

	setFlag := categorize.Cmd.Flags().Lookup("set")
	assert.NotNil(t, setFlag)
	assert.Equal(t, "", setFlag.DefValue)
}
