package entity

import "errors"

var (
	ErrUnknownStatus          = errors.New("unknown flight status code")
	ErrNotEnoughAccounts      = errors.New("not enough accounts for owner, airlines and passengers")
	ErrFlightNotFound         = errors.New("flight not found")
	ErrAirlineNotFound        = errors.New("airline not found")
	ErrInvalidInsuranceAmount = errors.New("insurance amount must be greater than 0 and at most 1 ether")
)
