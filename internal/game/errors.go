package game

import "errors"

var (
	// ErrInvalidBet is returned for a bet at or below zero, under the table
	// minimum or above the bankroll. The round does not start.
	ErrInvalidBet = errors.New("invalid bet")

	// ErrWrongPhase is returned when an operation is called out of order
	ErrWrongPhase = errors.New("wrong phase")

	// ErrIllegalAction is returned for an action the active hand cannot take
	ErrIllegalAction = errors.New("illegal action")
)
