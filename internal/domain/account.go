package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a student bank account. Balance is owned by the ledger
// engine: nothing else writes it, and every change is paired with an
// appended Transaction in the same database transaction.
type Account struct {
	ID            uuid.UUID
	AccountNumber string
	Name          string
	Email         *string
	ProfileImage  *string
	Balance       Cents
	Version       int64
	CreatedAt     time.Time
}

// AccountWithTotals is an Account plus per-type transaction sums,
// derived from the account's ledger on read.
type AccountWithTotals struct {
	Account
	TotalDeposits    Cents
	TotalWithdrawals Cents
}
