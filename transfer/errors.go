package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds matches any *InsufficientFundsError via errors.Is.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount is returned for negative, NaN or infinite amounts.
	ErrInvalidAmount = errors.New("invalid transfer amount")
)

// InsufficientFundsError reports a sender whose confirmed balance does not
// cover amount plus fee.
type InsufficientFundsError struct {
	Address  string  `json:"address"`
	Balance  float64 `json:"balance"`
	Required float64 `json:"required"`
}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("Address: %s does not have enough funds", e.Address)
}

// Is allows errors.Is(err, ErrInsufficientFunds).
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
