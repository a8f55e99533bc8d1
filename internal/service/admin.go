package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

type adminRepo interface {
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) error
}

type AdminService struct {
	admins adminRepo
}

func NewAdminService(admins adminRepo) *AdminService {
	return &AdminService{admins: admins}
}

// EnsureAdmin creates the admin account at startup if it does not
// exist yet. Passwords are stored only as bcrypt hashes.
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.admins.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("EnsureAdmin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("EnsureAdmin: hash password: %w", err)
	}

	admin := &domain.Admin{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return fmt.Errorf("EnsureAdmin: %w", err)
	}

	logging.FromContext(ctx).Info("admin account created", "username", username)
	return nil
}

// Authenticate checks the credentials. Unknown usernames and wrong
// passwords both come back as ErrInvalidCredentials.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*domain.Admin, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("Authenticate: %w", domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("Authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("Authenticate: %w", domain.ErrInvalidCredentials)
	}

	return admin, nil
}
