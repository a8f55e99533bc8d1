package ledger_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/repository"
	"github.com/norkart1/EduLedger/internal/service/ledger"
	"github.com/norkart1/EduLedger/internal/testutil"
)

func setupLedgerService(t *testing.T, db *sql.DB) *ledger.Service {
	t.Helper()
	return ledger.NewService(
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db),
		db,
		5*time.Second,
	)
}

func TestApply_DepositHappyPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "Ama", 0)

	txn, err := svc.Apply(ctx, ledger.ApplyRequest{
		AccountID: acct.ID,
		Type:      "deposit",
		Amount:    "100.00",
	})

	require.NoError(t, err)
	assert.Equal(t, acct.ID, txn.AccountID)
	assert.Equal(t, domain.TransactionTypeDeposit, txn.Type)
	assert.Equal(t, domain.Cents(10000), txn.Amount)
	assert.Equal(t, domain.Cents(10000), txn.BalanceAfter)

	assert.Equal(t, domain.Cents(10000), testutil.GetBalance(t, db, acct.ID))
	assert.Equal(t, 1, testutil.CountTransactions(t, db, acct.ID))
}

func TestApply_WithdrawalInsufficientFunds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "Kwame", 10000)

	_, err := svc.Apply(ctx, ledger.ApplyRequest{
		AccountID: acct.ID,
		Type:      "withdrawal",
		Amount:    "150.00",
	})

	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, domain.Cents(10000), testutil.GetBalance(t, db, acct.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, acct.ID))
}

func TestApply_WithdrawalOfFullBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "Efua", 10000)

	txn, err := svc.Apply(ctx, ledger.ApplyRequest{
		AccountID: acct.ID,
		Type:      "withdrawal",
		Amount:    "100.00",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Cents(0), txn.BalanceAfter)
	assert.Equal(t, domain.Cents(0), testutil.GetBalance(t, db, acct.ID))
}

func TestApply_InvalidAmountLeavesNoTrace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "Yaw", 5000)

	for _, amount := range []string{"abc", "0.00", "-20", "1.999"} {
		_, err := svc.Apply(ctx, ledger.ApplyRequest{
			AccountID: acct.ID,
			Type:      "deposit",
			Amount:    amount,
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %q", amount)
	}

	assert.Equal(t, domain.Cents(5000), testutil.GetBalance(t, db, acct.ID))
	assert.Equal(t, 0, testutil.CountTransactions(t, db, acct.ID))
}

func TestApply_ConcurrentDeposits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "Adjoa", 0)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Apply(ctx, ledger.ApplyRequest{
				AccountID: acct.ID,
				Type:      "deposit",
				Amount:    "50.00",
			})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	assert.Equal(t, domain.Cents(workers*5000), testutil.GetBalance(t, db, acct.ID))
	assert.Equal(t, workers, testutil.CountTransactions(t, db, acct.ID))

	// Every commit saw a distinct base balance, so the balance_after
	// values must be exactly 50.00, 100.00, ..., N*50.00 in some order.
	txns, err := svc.GetAccountTransactions(ctx, acct.ID)
	require.NoError(t, err)

	seen := make(map[domain.Cents]bool, workers)
	for _, txn := range txns {
		seen[txn.BalanceAfter] = true
	}
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[domain.Cents(i*5000)], "missing balance_after %d", i*5000)
	}
}

func TestApply_ConcurrentOverdraftOnlyOneWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "Kofi", 10000)

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Apply(ctx, ledger.ApplyRequest{
				AccountID: acct.ID,
				Type:      "withdrawal",
				Amount:    "100.00",
			})
		}()
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientFunds)
			insufficient++
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, insufficient)
	assert.Equal(t, domain.Cents(0), testutil.GetBalance(t, db, acct.ID))
	assert.Equal(t, 1, testutil.CountTransactions(t, db, acct.ID))
}

func TestReplayConsistency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "Abena", 0)

	steps := []struct {
		txType string
		amount string
	}{
		{"deposit", "200.00"},
		{"withdrawal", "75.50"},
		{"deposit", "0.01"},
		{"withdrawal", "124.51"},
		{"deposit", "10.00"},
	}
	for _, step := range steps {
		_, err := svc.Apply(ctx, ledger.ApplyRequest{
			AccountID: acct.ID,
			Type:      step.txType,
			Amount:    step.amount,
		})
		require.NoError(t, err)
	}

	txns, err := svc.GetAccountTransactions(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, txns, len(steps))

	// Fold oldest to newest from zero; every snapshot must match.
	var balance domain.Cents
	for i := len(txns) - 1; i >= 0; i-- {
		txn := txns[i]
		if txn.Type == domain.TransactionTypeDeposit {
			balance += txn.Amount
		} else {
			balance -= txn.Amount
		}
		assert.Equal(t, txn.BalanceAfter, balance, "replay diverged at %s", txn.ID)
		assert.GreaterOrEqual(t, balance, domain.Cents(0))
	}
	assert.Equal(t, balance, testutil.GetBalance(t, db, acct.ID))
}

func TestGetAccountTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "Esi", 0)
	for _, amount := range []string{"10.00", "20.00", "30.00"} {
		_, err := svc.Apply(ctx, ledger.ApplyRequest{
			AccountID: acct.ID,
			Type:      "deposit",
			Amount:    amount,
		})
		require.NoError(t, err)
	}

	txns, err := svc.GetAccountTransactions(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	// Newest first; reads are repeatable and side-effect free.
	assert.Equal(t, domain.Cents(3000), txns[0].Amount)
	assert.Equal(t, domain.Cents(1000), txns[2].Amount)

	again, err := svc.GetAccountTransactions(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, txns, again)
}
