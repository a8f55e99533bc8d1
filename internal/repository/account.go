package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/domain"
)

const accountColumns = `id, account_number, name, email, profile_image,
	balance, version, created_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, accountNumber,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByNumber: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByNumber: %w", err)
	}
	return a, nil
}

// ListWithTotals returns all accounts newest-created first, each with
// its deposit and withdrawal sums derived from the transaction log.
func (r *AccountRepository) ListWithTotals(ctx context.Context) ([]domain.AccountWithTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.account_number, a.name, a.email, a.profile_image,
			a.balance, a.version, a.created_at,
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'deposit'), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'withdrawal'), 0)
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		GROUP BY a.id
		ORDER BY a.created_at DESC, a.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListWithTotals: %w", err)
	}
	defer rows.Close()

	var accounts []domain.AccountWithTotals
	for rows.Next() {
		var a domain.AccountWithTotals
		err := rows.Scan(
			&a.ID, &a.AccountNumber, &a.Name, &a.Email, &a.ProfileImage,
			&a.Balance, &a.Version, &a.CreatedAt,
			&a.TotalDeposits, &a.TotalWithdrawals,
		)
		if err != nil {
			return nil, fmt.Errorf("ListWithTotals: scan: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListWithTotals: rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (
			id, account_number, name, email, profile_image,
			balance, version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		account.ID, account.AccountNumber, account.Name, account.Email,
		account.ProfileImage, account.Balance, account.Version, account.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err, "accounts_account_number_key") {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateAccountNumber)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// UpdateProfile edits descriptive metadata; nil fields are left
// unchanged. Balance is deliberately not reachable from here.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email *string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE accounts
		SET name = COALESCE($1, name), email = COALESCE($2, email)
		WHERE id = $3
		RETURNING `+accountColumns,
		name, email, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("UpdateProfile: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("UpdateProfile: %w", err)
	}
	return a, nil
}

// Delete removes the account; its transactions go with it via the
// ON DELETE CASCADE foreign key.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// GetForUpdate reads the account inside tx holding a row lock, so the
// balance cannot move under a concurrent writer until tx ends.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance domain.Cents, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, version = $2 WHERE id = $3 AND version = $4`,
		newBalance, newVersion, id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.AccountNumber, &a.Name, &a.Email, &a.ProfileImage,
		&a.Balance, &a.Version, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
