package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Validation errors.
	ErrTruckNotFound   = errors.New("food truck not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrOwnerNotFound   = errors.New("owner not found")
	ErrOrderNotFound   = errors.New("order not found for this food truck")
	ErrItemNotFound    = errors.New("item not found")
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// * Business errors.
	ErrTruckClosed              = errors.New("food truck is closed")
	ErrItemUnavailable          = errors.New("item is not available right now")
	ErrItemNotInTruck           = errors.New("item does not belong to the selected food truck")
	ErrNoPaymentInstrument      = errors.New("no bank card on file")
	ErrInvalidPaymentInstrument = errors.New("bank card number is not valid")
	ErrInsufficientBalance      = errors.New("balance is not enough")
	ErrSubscriptionActive       = errors.New("current subscription is still active")
	ErrInvalidTransition        = errors.New("order status transition is not allowed")

	// * Consistency errors. A callback that fails one of these leaves no state change.
	ErrChargeNotFound = errors.New("no pending charge for transaction")
	ErrChargeMismatch = errors.New("transaction belongs to another subject")
	ErrStatusMismatch = errors.New("callback status is inconsistent with gateway")
	ErrAmountMismatch = errors.New("gateway amount does not match expected amount")
	ErrPaymentNotPaid = errors.New("payment was not paid")
	ErrAlreadySettled = errors.New("subject is already settled")

	// * External dependency errors.
	ErrGatewayUnavailable = errors.New("payment gateway is unavailable")
	ErrGatewayResponse    = errors.New("payment gateway returned an unexpected response")
)

var consistencyErrors = []error{
	ErrChargeNotFound,
	ErrChargeMismatch,
	ErrStatusMismatch,
	ErrAmountMismatch,
	ErrPaymentNotPaid,
}

// IsConsistency reports whether err means a callback disagreed with the gateway record.
func IsConsistency(err error) bool {
	for _, e := range consistencyErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func IsExternal(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable) || errors.Is(err, ErrGatewayResponse)
}
