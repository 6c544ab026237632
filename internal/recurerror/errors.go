package recurerror

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a recurring payment lookup matches nothing.
var ErrNotFound = errors.New("recurring payment not found")

// ErrDuplicatePayment is returned when confirming a candidate that already
// exists as an active recurring payment on the same account.
var ErrDuplicatePayment = errors.New("recurring payment already exists")

// DetectionError represents a failure while loading or clustering
// transactions for a user.
type DetectionError struct {
	UserID string
	Stage  string
	Err    error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("detection failed for user %s during %s: %v",
		e.UserID, e.Stage, e.Err)
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}

// ConfirmError represents a failure to persist a user-confirmed recurring
// payment. Callers treat it as distinct from detection failures so the UI
// can tell the user their confirmation was lost.
type ConfirmError struct {
	UserID          string
	MerchantPattern string
	Err             error
}

func (e *ConfirmError) Error() string {
	return fmt.Sprintf("failed to confirm recurring payment '%s' for user %s: %v",
		e.MerchantPattern, e.UserID, e.Err)
}

func (e *ConfirmError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid configuration or input values.
type ValidationError struct {
	Subject string
	Reason  string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Subject, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotifyError represents a failure to deliver a single alert. Notification
// runs log and count these without aborting the batch.
type NotifyError struct {
	PaymentID string
	AlertType string
	Err       error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notification failed for payment %s (%s): %v",
		e.PaymentID, e.AlertType, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}
