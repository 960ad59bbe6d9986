package errors

import (
	"errors"
)

var (
	ErrItemNotFound = errors.New("item not found in cart")
	ErrEmptyCart    = errors.New("cart is empty")

	ErrOrderNotCreated        = errors.New("order has not been created")
	ErrSubscriptionNotCreated = errors.New("subscription has not been created")

	ErrInvalidProvider    = errors.New("unknown mobile money operator")
	ErrInvalidPhoneNumber = errors.New("phone number must contain at least 9 digits")
	ErrInvalidTransition  = errors.New("payment flow does not allow this transition")
	ErrPaymentFinalized   = errors.New("payment already reached a terminal state")
)
