package ledger

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Driver-level failure paths that a live database cannot produce on
// demand. The happy paths run against real Postgres in the
// integration tests.

var accountRows = []string{
	"id", "account_number", "name", "email", "profile_image",
	"balance", "version", "created_at",
}

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db),
		db,
		5*time.Second,
	)
	return svc, mock
}

func lockedAccountRow(id uuid.UUID, balance domain.Cents) *sqlmock.Rows {
	return sqlmock.NewRows(accountRows).
		AddRow(id.String(), "ACC-2026-000001", "Test Student", nil, nil,
			int64(balance), int64(1), time.Now().UTC())
}

func TestApply_InsufficientFundsRollsBack(t *testing.T) {
	svc, mock := newMockService(t)
	accountID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(accountID).
		WillReturnRows(lockedAccountRow(accountID, 10000))
	mock.ExpectRollback()

	_, err := svc.Apply(t.Context(), ApplyRequest{
		AccountID: accountID,
		Type:      "withdrawal",
		Amount:    "150.00",
	})

	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_InsertFailureRollsBackBalance(t *testing.T) {
	svc, mock := newMockService(t)
	accountID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(accountID).
		WillReturnRows(lockedAccountRow(accountID, 10000))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnError(driver.ErrBadConn)
	mock.ExpectRollback()

	_, err := svc.Apply(t.Context(), ApplyRequest{
		AccountID: accountID,
		Type:      "deposit",
		Amount:    "50.00",
	})

	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_UnknownAccount(t *testing.T) {
	svc, mock := newMockService(t)
	accountID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows(accountRows))
	mock.ExpectRollback()

	_, err := svc.Apply(t.Context(), ApplyRequest{
		AccountID: accountID,
		Type:      "deposit",
		Amount:    "50.00",
	})

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_VersionConflictSurfaces(t *testing.T) {
	svc, mock := newMockService(t)
	accountID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(accountID).
		WillReturnRows(lockedAccountRow(accountID, 10000))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE accounts SET balance = \$1, version = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Apply(t.Context(), ApplyRequest{
		AccountID: accountID,
		Type:      "deposit",
		Amount:    "50.00",
	})

	require.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
