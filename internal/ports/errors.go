package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown        = errors.New("unknown error occurred")
	ErrInvalidRequest = errors.New("invalid request parameters or format")
	ErrNotFound       = errors.New("resource not found")
	ErrTimeout        = errors.New("operation timed out")

	// Quote Provider Errors
	ErrProviderUnavailable = errors.New("market-data provider is unavailable")
	ErrQuoteNotFound       = errors.New("no quote available for symbol")

	// Database Specific Errors
	ErrDuplicateEntry = errors.New("database record already exists")
	ErrDBConnection   = errors.New("database connection error")
	ErrQueryFailed    = errors.New("database query failed")
	ErrUpdateFailed   = errors.New("database update failed")
	ErrDeleteFailed   = errors.New("database delete failed")

	// Liquidation Errors
	// ErrReconcileRequired signals that a realized trade was recorded but the
	// source lot could not be reduced or removed afterwards. The caller must
	// surface this so the phantom lot can be reconciled manually; the service
	// does not attempt automatic rollback.
	ErrReconcileRequired = errors.New("trade recorded but lot update failed, manual reconciliation required")
)
