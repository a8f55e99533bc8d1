package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount          = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be a positive value with at most two decimal places"}
	ErrInvalidTransactionType = &AppError{http.StatusBadRequest, "INVALID_TRANSACTION_TYPE", "Transaction type must be deposit or withdrawal"}
	ErrInsufficientFunds      = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrBalanceImmutable       = &AppError{http.StatusUnprocessableEntity, "BALANCE_IMMUTABLE", "Balance can only change through transactions"}
	ErrDuplicateAccountNumber = &AppError{http.StatusConflict, "DUPLICATE_ACCOUNT_NUMBER", "Could not allocate a unique account number, please retry"}
	ErrVersionConflict        = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Account was modified concurrently, please retry"}
	ErrStorageUnavailable     = &AppError{http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage is temporarily unavailable, please retry"}
)
