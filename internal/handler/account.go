package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/logging"
)

type accountService interface {
	Register(ctx context.Context, name string, email, profileImage *string) (*domain.Account, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	List(ctx context.Context) ([]domain.AccountWithTotals, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email *string) (*domain.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	Name         string  `json:"name"`
	Email        *string `json:"email"`
	ProfileImage *string `json:"profile_image"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	return errs
}

type accountDTO struct {
	ID            uuid.UUID `json:"id"`
	AccountNumber string    `json:"account_number"`
	Name          string    `json:"name"`
	Email         *string   `json:"email"`
	ProfileImage  *string   `json:"profile_image"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
}

type accountWithTotalsDTO struct {
	accountDTO
	TotalDeposits    string `json:"total_deposits"`
	TotalWithdrawals string `json:"total_withdrawals"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		Email:         a.Email,
		ProfileImage:  a.ProfileImage,
		Balance:       a.Balance.String(),
		CreatedAt:     a.CreatedAt,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.ProfileImage)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to register account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountWithTotalsDTO, len(accounts))
	for i := range accounts {
		dtos[i] = accountWithTotalsDTO{
			accountDTO:       toAccountDTO(&accounts[i].Account),
			TotalDeposits:    accounts[i].TotalDeposits.String(),
			TotalWithdrawals: accounts[i].TotalWithdrawals.String(),
		}
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

type updateAccountRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	// Present only to reject it with a specific error; the ledger is
	// the sole writer of balances.
	Balance *string `json:"balance"`
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if req.Balance != nil {
		RespondAppError(w, ErrBalanceImmutable, nil)
		return
	}
	if req.Name == nil && req.Email == nil {
		RespondValidationError(w, []FieldError{{Field: "name", Message: "at least one of name or email is required"}})
		return
	}
	if req.Name != nil && *req.Name == "" {
		RespondValidationError(w, []FieldError{{Field: "name", Message: "must not be empty"}})
		return
	}

	account, err := h.accounts.UpdateProfile(r.Context(), id, req.Name, req.Email)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		logging.FromContext(r.Context()).Error("failed to delete account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

func idFromPath(r *http.Request) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, ErrResourceNotFound
	}
	return id, nil
}
