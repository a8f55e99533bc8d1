// Package ledger is the transaction engine: it applies a single deposit
// or withdrawal as one atomic state transition, pairing the balance
// update with an appended immutable transaction record.
package ledger

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/logging"
)

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance domain.Cents, newVersion int64) error
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

type Service struct {
	accounts     accountRepo
	transactions transactionRepo
	db           *sql.DB
	writeTimeout time.Duration
}

func NewService(accounts accountRepo, transactions transactionRepo, db *sql.DB, writeTimeout time.Duration) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		db:           db,
		writeTimeout: writeTimeout,
	}
}

type ApplyRequest struct {
	AccountID   uuid.UUID
	Type        string
	Amount      string
	Description *string
}

// Apply validates the request and commits it against the account as a
// single database transaction. The FOR UPDATE row lock serializes
// writers per account; writers on different accounts never contend.
// On any failure neither the balance nor the transaction log changes.
func (s *Service) Apply(ctx context.Context, req ApplyRequest) (*domain.Transaction, error) {
	txType, amount, err := parseRequest(req)
	if err != nil {
		return nil, fmt.Errorf("Apply: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	txn, err := s.commit(ctx, req.AccountID, txType, amount, req.Description)
	if err != nil {
		return nil, fmt.Errorf("Apply: %w", classifyStoreError(err))
	}

	logging.FromContext(ctx).Info("transaction applied",
		"transaction_id", txn.ID,
		"account_id", txn.AccountID,
		"type", txn.Type,
		"amount", txn.Amount.String(),
		"balance_after", txn.BalanceAfter.String(),
	)

	return txn, nil
}

func parseRequest(req ApplyRequest) (domain.TransactionType, domain.Cents, error) {
	txType := domain.TransactionType(req.Type)
	if !txType.IsValid() {
		return "", 0, fmt.Errorf("parseRequest: %q: %w", req.Type, domain.ErrInvalidTransactionType)
	}

	amount, err := domain.ParseCents(req.Amount)
	if err != nil {
		return "", 0, fmt.Errorf("parseRequest: %w", err)
	}

	return txType, amount, nil
}

func (s *Service) commit(ctx context.Context, accountID uuid.UUID, txType domain.TransactionType, amount domain.Cents, description *string) (*domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("commit: begin tx: %w", err)
	}
	defer tx.Rollback()

	acct, err := s.accounts.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	var newBalance domain.Cents
	switch txType {
	case domain.TransactionTypeDeposit:
		newBalance = acct.Balance + amount
	case domain.TransactionTypeWithdrawal:
		if amount > acct.Balance {
			return nil, fmt.Errorf("commit: %w", domain.ErrInsufficientFunds)
		}
		newBalance = acct.Balance - amount
	}

	txn := &domain.Transaction{
		ID:           uuid.New(),
		AccountID:    acct.ID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: newBalance,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.transactions.Create(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("commit: create transaction: %w", err)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, acct.ID, newBalance, acct.Version+1); err != nil {
		return nil, fmt.Errorf("commit: update balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return txn, nil
}

// GetAccountTransactions returns the account's ledger newest first.
func (s *Service) GetAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("GetAccountTransactions: %w", err)
	}

	txns, err := s.transactions.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("GetAccountTransactions: %w", err)
	}
	return txns, nil
}

// classifyStoreError keeps caller-fault errors as-is and folds
// timeouts and broken connections into ErrStorageUnavailable so
// presentation layers never see raw driver errors.
func classifyStoreError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrVersionConflict):
		return err
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn):
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	default:
		return err
	}
}
