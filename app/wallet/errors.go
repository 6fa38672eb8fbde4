package wallet

import "github.com/pkg/errors"

// ErrInsufficientFunds is returned when the spendable outputs owned by the
// wallet don't cover the requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrZeroAmount is returned when attempting to send nothing.
var ErrZeroAmount = errors.New("amount must be positive")
