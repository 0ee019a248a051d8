package service

import "errors"

var (
	ErrInvalidPlan          = errors.New("invalid plan definition")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrInsufficientPayment  = errors.New("insufficient payment")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
