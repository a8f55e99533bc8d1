package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		name       string
		req        ApplyRequest
		wantType   domain.TransactionType
		wantAmount domain.Cents
		wantErr    error
	}{
		{
			name:       "valid deposit",
			req:        ApplyRequest{AccountID: accountID, Type: "deposit", Amount: "100.00"},
			wantType:   domain.TransactionTypeDeposit,
			wantAmount: 10000,
		},
		{
			name:       "valid withdrawal",
			req:        ApplyRequest{AccountID: accountID, Type: "withdrawal", Amount: "0.01"},
			wantType:   domain.TransactionTypeWithdrawal,
			wantAmount: 1,
		},
		{
			name:    "unknown type",
			req:     ApplyRequest{AccountID: accountID, Type: "transfer", Amount: "100.00"},
			wantErr: domain.ErrInvalidTransactionType,
		},
		{
			name:    "empty type",
			req:     ApplyRequest{AccountID: accountID, Type: "", Amount: "100.00"},
			wantErr: domain.ErrInvalidTransactionType,
		},
		{
			name:    "uppercase type is not accepted",
			req:     ApplyRequest{AccountID: accountID, Type: "Deposit", Amount: "100.00"},
			wantErr: domain.ErrInvalidTransactionType,
		},
		{
			name:    "non-numeric amount",
			req:     ApplyRequest{AccountID: accountID, Type: "deposit", Amount: "abc"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "zero amount",
			req:     ApplyRequest{AccountID: accountID, Type: "deposit", Amount: "0.00"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			req:     ApplyRequest{AccountID: accountID, Type: "withdrawal", Amount: "-10.00"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "over-precision amount",
			req:     ApplyRequest{AccountID: accountID, Type: "deposit", Amount: "10.005"},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			txType, amount, err := parseRequest(tc.req)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, txType)
			assert.Equal(t, tc.wantAmount, amount)
		})
	}
}

// Invalid input must fail before the engine ever touches the store; a
// nil database would panic if it did.
func TestApply_InvalidInputNeverTouchesStore(t *testing.T) {
	svc := NewService(nil, nil, nil, 0)

	_, err := svc.Apply(t.Context(), ApplyRequest{
		AccountID: uuid.New(),
		Type:      "deposit",
		Amount:    "abc",
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Apply(t.Context(), ApplyRequest{
		AccountID: uuid.New(),
		Type:      "loan",
		Amount:    "10.00",
	})
	require.ErrorIs(t, err, domain.ErrInvalidTransactionType)
}
