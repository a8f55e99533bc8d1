package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidAmount          = errors.New("amount must be a positive value with at most two decimal places")
	ErrInvalidTransactionType = errors.New("transaction type must be deposit or withdrawal")
	ErrDuplicateAccountNumber = errors.New("account number already exists")
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrBalanceImmutable       = errors.New("balance can only change through transactions")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrVersionConflict        = errors.New("optimistic lock conflict")
)
