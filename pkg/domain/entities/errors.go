package entities

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError
type ErrorKind int

const (
	// KindInsufficientStock is raised when a reservation or issue asks for more than the pool holds
	KindInsufficientStock ErrorKind = iota
	// KindInvalidOperation is raised for business-rule violations
	KindInvalidOperation
	// KindInvalidArgument is raised for constructor-level contract violations
	KindInvalidArgument
)

// String method for ErrorKind enum
func (k ErrorKind) String() string {
	switch k {
	case KindInsufficientStock:
		return "InsufficientStock"
	case KindInvalidOperation:
		return "InvalidOperation"
	case KindInvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Sentinels matched by every DomainError of the corresponding kind
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrInvalidArgument   = errors.New("invalid argument")
)

// DomainError is a typed, recoverable failure reported by the ledger and the work order service
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is lets errors.Is match a DomainError against its kind's sentinel
func (e *DomainError) Is(target error) bool {
	switch target {
	case ErrInsufficientStock:
		return e.Kind == KindInsufficientStock
	case ErrInvalidOperation:
		return e.Kind == KindInvalidOperation
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	}
	return false
}

// NewInsufficientStockError creates an InsufficientStock error
func NewInsufficientStockError(code, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindInsufficientStock, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidOperationError creates an InvalidOperation error
func NewInvalidOperationError(code, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindInvalidOperation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidArgumentError creates an InvalidArgument error
func NewInvalidArgumentError(code, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindInvalidArgument, Code: code, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of the first DomainError in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
