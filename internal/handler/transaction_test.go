package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLedger struct {
	applyErr error
	txns     []domain.Transaction
	listErr  error
}

func (s *stubLedger) Apply(_ context.Context, req ledger.ApplyRequest) (*domain.Transaction, error) {
	if s.applyErr != nil {
		return nil, s.applyErr
	}
	amount, err := domain.ParseCents(req.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{
		ID:           uuid.New(),
		AccountID:    req.AccountID,
		Type:         domain.TransactionType(req.Type),
		Amount:       amount,
		BalanceAfter: amount,
		Description:  req.Description,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func (s *stubLedger) GetAccountTransactions(context.Context, uuid.UUID) ([]domain.Transaction, error) {
	return s.txns, s.listErr
}

func doApply(t *testing.T, stub *stubLedger, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	h := NewTransactionHandler(stub)
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Apply(rec, req)

	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestApplyHandler_Success(t *testing.T) {
	body := `{"account_id":"` + uuid.NewString() + `","type":"deposit","amount":"100.00"}`
	rec, resp := doApply(t, &stubLedger{}, body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	require.Nil(t, resp.Error)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "100.00", data["amount"])
	assert.Equal(t, "100.00", data["balance_after"])
	assert.Equal(t, "deposit", data["type"])
}

func TestApplyHandler_MissingFields(t *testing.T) {
	rec, resp := doApply(t, &stubLedger{}, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
}

func TestApplyHandler_MalformedBody(t *testing.T) {
	rec, resp := doApply(t, &stubLedger{}, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestApplyHandler_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"invalid type", domain.ErrInvalidTransactionType, http.StatusBadRequest, "INVALID_TRANSACTION_TYPE"},
		{"account missing", domain.ErrNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
		{"storage down", domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"account_id":"` + uuid.NewString() + `","type":"deposit","amount":"100.00"}`
			rec, resp := doApply(t, &stubLedger{applyErr: tc.err}, body)

			assert.Equal(t, tc.wantStatus, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}
