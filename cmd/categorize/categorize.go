// Package categorize handles the merchant categorization command
package categorize

import (
	"github.com/spf13/cobra"

	"fjacquet/recurpay/cmd/root"
	"fjacquet/recurpay/internal/logging"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a merchant pattern",
	Long: `Categorize resolves the category for a merchant pattern using learned
mappings, keyword matching and the Gemini model when enabled. With --set
the given category is stored for the merchant instead.`,
	Run: categorizeFunc,
}

var (
	merchantPattern string
	setCategory     string
)

func init() {
	// Categorize command flags
	Cmd.Flags().StringVarP(&merchantPattern, "merchant", "m", "", "Merchant pattern to categorize")
	Cmd.Flags().StringVar(&setCategory, "set", "", "Store this category for the merchant instead of looking one up")
	Cmd.MarkFlagRequired("merchant")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Categorize command called")

	c := root.GetContainer()
	cat := c.GetCategorizer()

	if setCategory != "" {
		cat.SetMerchantCategory(merchantPattern, setCategory)
		root.Log.WithFields(
			logging.Field{Key: logging.FieldMerchant, Value: merchantPattern},
			logging.Field{Key: logging.FieldCategory, Value: setCategory},
		).Info("Merchant mapping stored successfully!")
		return
	}

	category, err := cat.CategorizeMerchant(cmd.Context(), merchantPattern)
	if err != nil {
		root.Log.WithError(err).Fatal("Categorization failed")
	}
	root.Log.WithFields(
		logging.Field{Key: logging.FieldMerchant, Value: merchantPattern},
		logging.Field{Key: logging.FieldCategory, Value: category.Name},
	).Info("Merchant categorized successfully!")
}
