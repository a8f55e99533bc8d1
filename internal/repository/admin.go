package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/norkart1/EduLedger/internal/domain"
)

const adminColumns = `id, username, password_hash, created_at`

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE username = $1`, username,
	)

	var a domain.Admin
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByUsername: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByUsername: %w", err)
	}
	return &a, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admins (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
