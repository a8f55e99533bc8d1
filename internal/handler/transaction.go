package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/logging"
	"github.com/norkart1/EduLedger/internal/service/ledger"
)

type ledgerService interface {
	Apply(ctx context.Context, req ledger.ApplyRequest) (*domain.Transaction, error)
	GetAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	ledger ledgerService
}

func NewTransactionHandler(svc ledgerService) *TransactionHandler {
	return &TransactionHandler{ledger: svc}
}

type applyTransactionRequest struct {
	AccountID   string  `json:"account_id"`
	Type        string  `json:"type"`
	Amount      string  `json:"amount"`
	Description *string `json:"description"`
}

func (r applyTransactionRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountID == "" {
		errs = append(errs, FieldError{Field: "account_id", Message: "required"})
	} else if _, err := uuid.Parse(r.AccountID); err != nil {
		errs = append(errs, FieldError{Field: "account_id", Message: "must be a UUID"})
	}
	if r.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	}
	if r.Amount == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	}
	return errs
}

type transactionDTO struct {
	ID           uuid.UUID `json:"id"`
	AccountID    uuid.UUID `json:"account_id"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"`
	BalanceAfter string    `json:"balance_after"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Type:         string(t.Type),
		Amount:       t.Amount.String(),
		BalanceAfter: t.BalanceAfter.String(),
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
	}
}

func toTransactionDTOs(txns []domain.Transaction) []transactionDTO {
	dtos := make([]transactionDTO, len(txns))
	for i := range txns {
		dtos[i] = toTransactionDTO(&txns[i])
	}
	return dtos
}

func (h *TransactionHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req applyTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	accountID, _ := uuid.Parse(req.AccountID)
	txn, err := h.ledger.Apply(r.Context(), ledger.ApplyRequest{
		AccountID:   accountID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to apply transaction",
			"error", err, "account_id", accountID)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(txn))
}

func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	txns, err := h.ledger.GetAccountTransactions(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTOs(txns))
}
