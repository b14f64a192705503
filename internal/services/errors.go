package services

import (
	"errors"
	"fmt"
)

// NotAllowedError is a business-rule violation. The HTTP layer maps it to a
// 400 response with code E_NOT_ALLOWED and the message shown to the end user.
type NotAllowedError struct {
	Message string
}

func (e *NotAllowedError) Error() string {
	return e.Message
}

func notAllowed(msg string) *NotAllowedError {
	return &NotAllowedError{Message: msg}
}

func notAllowedf(format string, args ...interface{}) *NotAllowedError {
	return &NotAllowedError{Message: fmt.Sprintf(format, args...)}
}

// Claim and acquire gates, in the order the workflows check them.
var (
	ErrMustBelongToBusiness         = notAllowed("must belong to a business")
	ErrBenefitNotActive             = notAllowed("perk not active")
	ErrEmployerSubscriptionRequired = notAllowed("employer subscription required")
	ErrSupplierSubscriptionRequired = notAllowed("supplier subscription required")
	ErrBenefitNotAcquired           = notAllowed("perk not acquired by employer")
	ErrUseLimitReached              = notAllowed("perk reached use limit")
	ErrUserLimitReached             = notAllowed("user reached per-user limit")
	ErrBenefitNotAvailable          = notAllowed("perk not available")
	ErrNotAllowedEmail              = notAllowed("email not allowed to join this business")
	ErrClaimAlreadyApproved         = notAllowed("claim already approved")
)

// Lookup and validation failures.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrBusinessNotFound = errors.New("business not found")
	ErrBenefitNotFound  = errors.New("perk not found")
	ErrClaimNotFound    = errors.New("claim not found")
	ErrNotAnEmployee    = errors.New("user is not an employee of this business")
	ErrInvalidRole      = errors.New("role must be one of basic, verifier, admin")
	ErrInvalidMood      = errors.New("mood must be between 1 and 5")
)
