package logging

// Standardized field names for structured logging. Using the same keys
// everywhere keeps log output filterable across detection and monitoring.
const (
	FieldUser      = "user_id"
	FieldAccount   = "account_id"
	FieldMerchant  = "merchant_pattern"
	FieldPayment   = "payment_id"
	FieldFrequency = "frequency"
	FieldCategory  = "category"
	FieldAlertType = "alert_type"
	FieldPriority  = "priority"
	FieldStatus    = "status"
	FieldDriver    = "driver"
	FieldOperation = "operation"
	FieldReason    = "reason"
	FieldError     = "error"
	FieldCount     = "count"
	FieldDuration  = "duration_ms"
	FieldFile      = "file_path"
)
