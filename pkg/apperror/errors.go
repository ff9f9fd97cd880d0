package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an AppError independently of its message
type Kind string

const (
	KindValidation             Kind = "validation"
	KindInsufficientStock      Kind = "insufficient_stock"
	KindMissingClientForCredit Kind = "missing_client_for_credit"
	KindNotFound               Kind = "not_found"
	KindMalformedImport        Kind = "malformed_import"
	KindStockConflict          Kind = "stock_conflict"
	KindConflict               Kind = "conflict"
	KindBadRequest             Kind = "bad_request"
	KindUnavailable            Kind = "unavailable"
	KindInternal               Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code      int             `json:"code"`
	Kind      Kind            `json:"kind"`
	Message   string          `json:"message"`
	Errors    []FieldError    `json:"errors,omitempty"`
	Shortages []StockShortage `json:"shortages,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StockShortage describes one cart line that cannot be served from current stock
type StockShortage struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// Shortfall is the number of units missing to serve the line
func (s StockShortage) Shortfall() int {
	return s.Requested - s.Available
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches two AppErrors by kind, so errors.Is(err, ErrNotFound) holds for
// any not-found error regardless of its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind != "" && e.Kind == t.Kind
}

// Common errors
var (
	ErrNotFound               = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrBadRequest             = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer         = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrConflict               = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrValidation             = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "Validation failed"}
	ErrInsufficientStock      = &AppError{Code: http.StatusConflict, Kind: KindInsufficientStock, Message: "Insufficient stock"}
	ErrMissingClientForCredit = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindMissingClientForCredit, Message: "A client must be selected for credit-term sales"}
	ErrMalformedImport        = &AppError{Code: http.StatusBadRequest, Kind: KindMalformedImport, Message: "Malformed import file"}
	ErrStockConflict          = &AppError{Code: http.StatusConflict, Kind: KindStockConflict, Message: "Stock has diverged from the recorded movement"}
	ErrPrinterUnavailable     = &AppError{Code: http.StatusServiceUnavailable, Kind: KindUnavailable, Message: "No printer configured"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForStatus(code),
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is a validation error for a single field
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewInsufficientStockError reports every line that exceeds available stock
func NewInsufficientStockError(shortages []StockShortage) *AppError {
	names := make([]string, 0, len(shortages))
	for _, s := range shortages {
		label := s.ProductName
		if label == "" {
			label = s.ProductID
		}
		names = append(names, fmt.Sprintf("%s (requested %d, available %d)", label, s.Requested, s.Available))
	}
	return &AppError{
		Code:      http.StatusConflict,
		Kind:      KindInsufficientStock,
		Message:   "Insufficient stock for: " + strings.Join(names, ", "),
		Shortages: shortages,
	}
}

// NewStockConflictError reports a reversal that would leave negative stock
func NewStockConflictError(shortages []StockShortage) *AppError {
	err := NewInsufficientStockError(shortages)
	err.Kind = KindStockConflict
	err.Message = "Cannot reverse stock movement, current stock is lower than recorded: " +
		strings.TrimPrefix(err.Message, "Insufficient stock for: ")
	return err
}

// NewMalformedImportError wraps a decode failure of a backup document
func NewMalformedImportError(cause error) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindMalformedImport,
		Message: "Malformed import file: " + cause.Error(),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusServiceUnavailable:
		return KindUnavailable
	default:
		return KindInternal
	}
}
