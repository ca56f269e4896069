package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so the HTTP boundary can pick a status code
// without string matching.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindUnauthorized
	KindState
	KindGateway
	KindInternal
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches by Code, so a sentinel annotated via WithMessage or Wrap still
// satisfies errors.Is against the bare sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrEmptyOrder        = &Error{Kind: KindValidation, Code: "EMPTY_ORDER", Message: "no items to order"}
	ErrInvalidQuantity   = &Error{Kind: KindValidation, Code: "INVALID_QUANTITY", Message: "quantity must be at least 1"}
	ErrProductNotFound   = &Error{Kind: KindConflict, Code: "PRODUCT_NOT_FOUND", Message: "product does not exist"}
	ErrVariantNotFound   = &Error{Kind: KindConflict, Code: "VARIANT_NOT_FOUND", Message: "product variant does not exist"}
	ErrVariantMismatch   = &Error{Kind: KindConflict, Code: "VARIANT_MISMATCH", Message: "variant does not belong to the stated product"}
	ErrInsufficientStock = &Error{Kind: KindConflict, Code: "INSUFFICIENT_STOCK", Message: "insufficient stock"}
	ErrOrderNotFound     = &Error{Kind: KindNotFound, Code: "ORDER_NOT_FOUND", Message: "order not found"}
	ErrNotFound          = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "resource not found"}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: "not allowed to access this resource"}
	ErrInvalidTransition = &Error{Kind: KindState, Code: "INVALID_TRANSITION", Message: "order state does not allow this operation"}
	ErrGatewayRejected   = &Error{Kind: KindGateway, Code: "GATEWAY_REJECTED", Message: "payment gateway rejected the request"}
	ErrGatewayTimeout    = &Error{Kind: KindGateway, Code: "GATEWAY_TIMEOUT", Message: "payment gateway did not respond in time"}

	// Refund went through at the gateway but the local cancellation failed;
	// the order needs manual reconciliation.
	ErrRefundedNotCancelled = &Error{Kind: KindState, Code: "REFUNDED_NOT_CANCELLED", Message: "payment refunded but order cancellation failed"}
)

// WithMessage clones a sentinel with a more specific message, keeping its
// Kind and Code so errors.Is still matches.
func WithMessage(base *Error, format string, args ...interface{}) *Error {
	return &Error{Kind: base.Kind, Code: base.Code, Message: fmt.Sprintf(format, args...)}
}

// Wrap clones a sentinel with an underlying cause attached.
func Wrap(base *Error, err error) *Error {
	return &Error{Kind: base.Kind, Code: base.Code, Message: base.Message, Err: err}
}

// HTTPStatus maps an error to the status code the boundary layer should
// return. Unknown errors are treated as internal.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusForbidden
	case KindState:
		return http.StatusUnprocessableEntity
	case KindGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
