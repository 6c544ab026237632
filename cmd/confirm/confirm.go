// Package confirm handles the candidate confirmation command
package confirm

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/recurpay/cmd/common"
	"fjacquet/recurpay/cmd/root"
	"fjacquet/recurpay/internal/detector"
	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
)

// Cmd represents the confirm command
var Cmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm a detected candidate as a tracked recurring payment",
	Long: `Confirm re-runs detection for the user and turns one candidate into a
tracked recurring payment, picked by --merchant or by its --index in the
detect listing. With --auto every candidate above the configured
confidence threshold is confirmed instead.`,
	Run: confirmFunc,
}

var (
	merchantPattern string
	index           int
	auto            bool
	displayName     string
	categoryID      string
	reminderDays    []int
)

func init() {
	// Confirm command flags
	Cmd.Flags().StringVarP(&merchantPattern, "merchant", "m", "", "Merchant pattern of the candidate to confirm")
	Cmd.Flags().IntVarP(&index, "index", "i", 0, "Position of the candidate in the detect listing (1-based)")
	Cmd.Flags().BoolVar(&auto, "auto", false, "Confirm every candidate above the configured thresholds")
	Cmd.Flags().StringVar(&displayName, "name", "", "Display name for the tracked payment (defaults to the merchant pattern)")
	Cmd.Flags().StringVar(&categoryID, "category", "", "Category to assign (defaults to the detected one)")
	Cmd.Flags().IntSliceVar(&reminderDays, "reminders", nil, "Days before the due date to remind on (defaults to configuration)")
}

func confirmFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Confirm command called")
	userID := common.RequireUser(root.SharedFlags.User, root.Log)
	if merchantPattern == "" && index <= 0 && !auto {
		root.Log.Fatal("One of --merchant, --index or --auto is required")
	}

	ctx := cmd.Context()
	c := root.GetContainer()
	svc := c.GetDetector()
	now := time.Now()

	candidates, err := svc.DetectForUser(ctx, userID, now)
	if err != nil {
		root.Log.WithError(err).Fatal("Detection failed")
	}

	if auto {
		result := svc.AutoConfirm(ctx, userID, candidates, now)
		for _, p := range result.Confirmed {
			root.Log.WithFields(
				logging.Field{Key: logging.FieldPayment, Value: p.ID},
				logging.Field{Key: logging.FieldMerchant, Value: p.MerchantPattern},
			).Info("Payment confirmed")
		}
		for _, s := range result.Skipped {
			root.Log.WithFields(
				logging.Field{Key: logging.FieldMerchant, Value: s.MerchantPattern},
				logging.Field{Key: logging.FieldReason, Value: s.Reason},
			).Debug("Candidate skipped")
		}
		for _, f := range result.Failed {
			root.Log.WithError(f.Err).WithField(logging.FieldMerchant, f.MerchantPattern).
				Error("Confirmation failed")
		}
		root.Log.WithField(logging.FieldCount, len(result.Confirmed)).
			Info("Auto-confirm completed successfully!")
		return
	}

	if index > 0 {
		if index > len(candidates) {
			root.Log.WithField(logging.FieldCount, len(candidates)).
				Fatal("Index is beyond the candidate list")
		}
		confirmOne(ctx, svc, userID, candidates[index-1], now)
		return
	}

	for _, candidate := range candidates {
		if candidate.MerchantPattern != merchantPattern {
			continue
		}
		confirmOne(ctx, svc, userID, candidate, now)
		return
	}

	root.Log.WithField(logging.FieldMerchant, merchantPattern).
		Fatal("No candidate matches the merchant pattern")
}

func confirmOne(ctx context.Context, svc *detector.Service, userID string, candidate models.TransactionPattern, now time.Time) {
	opts := detector.ConfirmOptions{
		DisplayName:  displayName,
		CategoryID:   categoryID,
		ReminderDays: reminderDays,
	}
	payment, err := svc.ConfirmCandidate(ctx, userID, candidate, opts, now)
	if err != nil {
		root.Log.WithError(err).Fatal("Confirmation failed")
	}
	root.Log.WithFields(
		logging.Field{Key: logging.FieldPayment, Value: payment.ID},
		logging.Field{Key: logging.FieldMerchant, Value: payment.MerchantPattern},
		logging.Field{Key: "next_due", Value: payment.NextDueDate.Format("2006-01-02")},
	).Info("Payment confirmed successfully!")
}
