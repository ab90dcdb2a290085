package domain

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidSubscription  = errors.New("invalid subscription")
	ErrNoRecipients         = errors.New("no recipients")
	ErrQueueDisabled        = errors.New("broadcast queue disabled")
)
