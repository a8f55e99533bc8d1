package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var accountSeq int

// SeedAccount inserts an account with the given starting balance.
// Account numbers are sequential here; uniqueness under collision is
// exercised separately through the service's generator.
func SeedAccount(t *testing.T, db *sql.DB, name string, balance domain.Cents) *domain.Account {
	t.Helper()

	accountSeq++
	a := &domain.Account{
		ID:            uuid.New(),
		AccountNumber: fmt.Sprintf("ACC-%d-%06d", time.Now().UTC().Year(), accountSeq),
		Name:          name,
		Balance:       balance,
		Version:       1,
		CreatedAt:     time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, account_number, name, balance, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.AccountNumber, a.Name, a.Balance, a.Version, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s: %v", name, err)
	}
	return a
}

func SeedAdmin(t *testing.T, db *sql.DB, username, password string) *domain.Admin {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	a := &domain.Admin{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO admins (id, username, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
		a.ID, a.Username, a.PasswordHash, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed admin %s: %v", username, err)
	}
	return a
}

func GetBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) domain.Cents {
	t.Helper()

	var balance domain.Cents
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get balance %s: %v", accountID, err)
	}
	return balance
}

func CountTransactions(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for %s: %v", accountID, err)
	}
	return count
}
