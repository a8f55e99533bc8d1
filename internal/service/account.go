package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/logging"
)

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	ListWithTotals(ctx context.Context) ([]domain.AccountWithTotals, error)
	Create(ctx context.Context, account *domain.Account) error
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email *string) (*domain.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AccountService struct {
	accounts accountRepo
}

func NewAccountService(accounts accountRepo) *AccountService {
	return &AccountService{accounts: accounts}
}

// How many fresh account numbers to try before giving up. With a
// million-value suffix space a second collision in a row is already
// vanishingly rare.
const maxNumberAttempts = 5

// Register creates an account with a zero balance and a unique
// ACC-<year>-<6 digits> number. A number collision is retried with a
// new draw; it never overwrites an existing account.
func (s *AccountService) Register(ctx context.Context, name string, email, profileImage *string) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	var lastErr error
	for range maxNumberAttempts {
		number, err := generateAccountNumber(time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("Register: %w", err)
		}

		account := &domain.Account{
			ID:            uuid.New(),
			AccountNumber: number,
			Name:          name,
			Email:         email,
			ProfileImage:  profileImage,
			Balance:       0,
			Version:       1,
			CreatedAt:     time.Now().UTC(),
		}

		err = s.accounts.Create(ctx, account)
		if err == nil {
			log.Info("account registered",
				"account_id", account.ID,
				"account_number", account.AccountNumber,
			)
			return account, nil
		}
		if !errors.Is(err, domain.ErrDuplicateAccountNumber) {
			return nil, fmt.Errorf("Register: %w", err)
		}
		lastErr = err
		log.Warn("account number collision, retrying", "account_number", number)
	}

	return nil, fmt.Errorf("Register: exhausted %d attempts: %w", maxNumberAttempts, lastErr)
}

func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return a, nil
}

func (s *AccountService) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	a, err := s.accounts.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("GetByNumber: %w", err)
	}
	return a, nil
}

// List returns accounts newest-created first, each with deposit and
// withdrawal totals derived from its ledger.
func (s *AccountService) List(ctx context.Context) ([]domain.AccountWithTotals, error) {
	accounts, err := s.accounts.ListWithTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return accounts, nil
}

// UpdateProfile edits descriptive metadata only. The balance is not an
// input here; it moves exclusively through the ledger engine.
func (s *AccountService) UpdateProfile(ctx context.Context, id uuid.UUID, name, email *string) (*domain.Account, error) {
	a, err := s.accounts.UpdateProfile(ctx, id, name, email)
	if err != nil {
		return nil, fmt.Errorf("UpdateProfile: %w", err)
	}
	return a, nil
}

// Delete removes the account and, by cascade, its entire transaction
// history. Irreversible.
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	logging.FromContext(ctx).Info("account deleted", "account_id", id)
	return nil
}

func generateAccountNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generateAccountNumber: %w", err)
	}
	return fmt.Sprintf("ACC-%d-%06d", now.Year(), n.Int64()), nil
}
