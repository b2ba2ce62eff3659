package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON             = "INVALID_JSON"
	ErrCodeMissingField            = "MISSING_FIELD"
	ErrCodeInvalidParameter        = "INVALID_PARAMETER"
	ErrCodeEmptyCart               = "EMPTY_CART"
	ErrCodeInsufficientPayment     = "INSUFFICIENT_PAYMENT"
	ErrCodeInvalidPaymentMethod    = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidQuantity         = "INVALID_QUANTITY"
	ErrCodeProductNotFound         = "PRODUCT_NOT_FOUND"
	ErrCodeProductInactive         = "PRODUCT_INACTIVE"
	ErrCodeVariantNotFound         = "VARIANT_NOT_FOUND"
	ErrCodeDuplicateVariant        = "DUPLICATE_VARIANT"
	ErrCodeInvalidProduct          = "INVALID_PRODUCT"
	ErrCodeDuplicateBarcode        = "DUPLICATE_BARCODE"
	ErrCodeCartNotFound            = "CART_NOT_FOUND"
	ErrCodeLineNotFound            = "LINE_NOT_FOUND"
	ErrCodeOrderNotFound           = "ORDER_NOT_FOUND"
	ErrCodeDuplicateOrderNumber    = "DUPLICATE_ORDER_NUMBER"
	ErrCodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	ErrCodeInvalidCashFlow         = "INVALID_CASH_FLOW"
	ErrCodeCashFlowNotFound        = "CASH_FLOW_NOT_FOUND"
	ErrCodeInvalidSettings         = "INVALID_SETTINGS"
	ErrCodeInvalidStaff            = "INVALID_STAFF"
	ErrCodeStaffNotFound           = "STAFF_NOT_FOUND"
	ErrCodeDuplicateStaff          = "DUPLICATE_STAFF"
	ErrCodeStaffSelfChange         = "STAFF_SELF_CHANGE"
	ErrCodePersistence             = "PERSISTENCE_ERROR"
	ErrCodeUnauthorised            = "UNAUTHORIZED"
	ErrCodeForbidden               = "FORBIDDEN"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart               = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInsufficientPayment     = NewDomainError(ErrCodeInsufficientPayment, "Cash tendered is less than the order total")
	ErrInvalidPaymentMethod    = NewDomainError(ErrCodeInvalidPaymentMethod, "Payment method must be cash, card or split")
	ErrInvalidQuantity         = NewDomainError(ErrCodeInvalidQuantity, "Quantity must not be negative")
	ErrProductNotFound         = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrProductInactive         = NewDomainError(ErrCodeProductInactive, "Product is not available for sale")
	ErrVariantNotFound         = NewDomainError(ErrCodeVariantNotFound, "Variant is not offered for this product")
	ErrDuplicateVariant        = NewDomainError(ErrCodeDuplicateVariant, "Each variant can be selected once per line")
	ErrInvalidProduct          = NewDomainError(ErrCodeInvalidProduct, "Product data is invalid")
	ErrDuplicateBarcode        = NewDomainError(ErrCodeDuplicateBarcode, "Barcode is already used by an active product")
	ErrCartNotFound            = NewDomainError(ErrCodeCartNotFound, "Cart not found")
	ErrLineNotFound            = NewDomainError(ErrCodeLineNotFound, "Cart line not found")
	ErrOrderNotFound           = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrDuplicateOrderNumber    = NewDomainError(ErrCodeDuplicateOrderNumber, "Order number already exists")
	ErrInvalidStatusTransition = NewDomainError(ErrCodeInvalidStatusTransition, "Order status cannot change that way")
	ErrInvalidCashFlow         = NewDomainError(ErrCodeInvalidCashFlow, "Cash flow entry needs type in or out, a positive amount in cents and a reason")
	ErrCashFlowNotFound        = NewDomainError(ErrCodeCashFlowNotFound, "Cash flow entry not found")
	ErrInvalidSettings         = NewDomainError(ErrCodeInvalidSettings, "Tax rate must be between 0 and 1 with at most 4 decimal places")
	ErrInvalidStaff            = NewDomainError(ErrCodeInvalidStaff, "Staff data is invalid")
	ErrStaffNotFound           = NewDomainError(ErrCodeStaffNotFound, "Staff member not found")
	ErrDuplicateStaff          = NewDomainError(ErrCodeDuplicateStaff, "Staff id or email is already taken")
	ErrStaffSelfChange         = NewDomainError(ErrCodeStaffSelfChange, "Admins cannot deactivate, delete or demote themselves")
	ErrUnauthorised            = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrForbidden               = NewDomainError(ErrCodeForbidden, "Not allowed for this role")
	ErrCartNotOwned            = NewDomainError(ErrCodeForbidden, "This cart belongs to another cashier")
)

// PersistenceError reports a failed write or read against order storage.
// The cart that triggered it is left untouched so the checkout can be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err as a PersistenceError for the given operation.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
