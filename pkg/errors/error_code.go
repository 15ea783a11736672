package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidBar           ErrorCode = 102
	ErrCodeInvalidWeights       ErrorCode = 103

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202

	// Strategy errors (400-499)
	ErrCodeStrategyNotLoaded    ErrorCode = 400
	ErrCodeStrategyConfigError  ErrorCode = 401
	ErrCodeStrategyRuntimeError ErrorCode = 402
	ErrCodeUnsupportedStrategy  ErrorCode = 403

	// Backtest errors (600-649)
	ErrCodeBacktestCancelled    ErrorCode = 600
	ErrCodeBacktestNoStrategies ErrorCode = 604

	// Allocation errors (650-699)
	ErrCodeAllocationFailed ErrorCode = 650
	ErrCodeReleaseFailed    ErrorCode = 651

	// Persistence errors (700-799)
	ErrCodeResultWriteFailed ErrorCode = 700
	ErrCodeResultReadFailed  ErrorCode = 701
	ErrCodeVersionMismatch   ErrorCode = 702

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800
)
