package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

// Transaction is one immutable ledger entry. BalanceAfter snapshots the
// account balance the instant this entry committed; replaying an
// account's entries oldest to newest from zero reproduces every
// BalanceAfter exactly.
type Transaction struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	Type         TransactionType
	Amount       Cents
	BalanceAfter Cents
	Description  *string
	CreatedAt    time.Time
}
