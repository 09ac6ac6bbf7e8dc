package apperrors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrAuthFailed       ErrorType = "AUTH_FAILED"
	ErrDecryptionFailed ErrorType = "DECRYPTION_FAILED"
	ErrUnsupportedChain ErrorType = "UNSUPPORTED_CHAIN"
	ErrInsufficientGas  ErrorType = "INSUFFICIENT_GAS"
	ErrReceiptParse     ErrorType = "RECEIPT_PARSE_FAILED"
	ErrRateLimited      ErrorType = "RATE_LIMITED"
	ErrTradingDisabled  ErrorType = "TRADING_DISABLED"
	ErrLeverageExceeded ErrorType = "LEVERAGE_EXCEEDED"
	ErrUnknownMarket    ErrorType = "UNKNOWN_MARKET"
	ErrExecutionFailed  ErrorType = "EXECUTION_FAILED"
	ErrInvalidRequest   ErrorType = "INVALID_REQUEST"
	ErrNotFound         ErrorType = "NOT_FOUND"
	ErrInternal         ErrorType = "INTERNAL_ERROR"
)

// AppError is the standard error struct for the application.
// Every failure surfaced to a caller carries a machine-readable code plus a
// human-readable message, never a raw stack trace.
type AppError struct {
	Type       ErrorType `json:"code"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

func NewInvalidRequest(msg string) *AppError {
	return New(ErrInvalidRequest, msg, nil)
}

func NewRateLimited(msg string) *AppError {
	return New(ErrRateLimited, msg, nil)
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrInvalidRequest, ErrLeverageExceeded, ErrUnknownMarket, ErrUnsupportedChain:
		return http.StatusBadRequest
	case ErrAuthFailed, ErrDecryptionFailed:
		return http.StatusUnauthorized
	case ErrInsufficientGas:
		return http.StatusPaymentRequired
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrTradingDisabled:
		return http.StatusServiceUnavailable
	case ErrNotFound:
		return http.StatusNotFound
	case ErrExecutionFailed, ErrReceiptParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrDecryptionFailed:
		return "Check the wallet password."
	case ErrInsufficientGas:
		return "Fund the wallet with the required gas amount and retry."
	case ErrRateLimited:
		return "Wait for the trade window to elapse before retrying."
	case ErrTradingDisabled:
		return "Trading is temporarily disabled by the operator."
	case ErrLeverageExceeded:
		return "Reduce the requested leverage."
	case ErrReceiptParse:
		return "Contact support with the transaction hash for reconciliation."
	case ErrAuthFailed:
		return "Check API credentials."
	default:
		return ""
	}
}
