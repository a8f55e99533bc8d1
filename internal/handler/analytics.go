package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/logging"
	"github.com/norkart1/EduLedger/internal/repository"
	"github.com/norkart1/EduLedger/internal/service"
)

type analyticsService interface {
	GetOverview(ctx context.Context) (*service.Overview, error)
	TransactionsInRange(ctx context.Context, start, end time.Time) ([]domain.Transaction, error)
	MonthlySummary(ctx context.Context) (*service.PeriodSummary, error)
	YearlySummary(ctx context.Context) (*service.PeriodSummary, error)
}

type AnalyticsHandler struct {
	analytics analyticsService
}

func NewAnalyticsHandler(analytics analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

type overviewDTO struct {
	TotalBalance        string `json:"total_balance"`
	TotalAccounts       int    `json:"total_accounts"`
	MonthlyTransactions int    `json:"monthly_transactions"`
}

func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.analytics.GetOverview(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to compute analytics", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, overviewDTO{
		TotalBalance:        overview.TotalBalance.String(),
		TotalAccounts:       overview.TotalAccounts,
		MonthlyTransactions: overview.MonthlyTransactions,
	})
}

// TransactionsInRange serves GET /api/analytics/transactions with
// RFC 3339 start and end query parameters, bounds inclusive.
func (h *AnalyticsHandler) TransactionsInRange(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "start", Message: "must be an RFC 3339 timestamp"}})
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		RespondValidationError(w, []FieldError{{Field: "end", Message: "must be an RFC 3339 timestamp"}})
		return
	}
	if end.Before(start) {
		RespondValidationError(w, []FieldError{{Field: "end", Message: "must not be before start"}})
		return
	}

	txns, err := h.analytics.TransactionsInRange(r.Context(), start, end)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to query transactions in range", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toTransactionDTOs(txns))
}

type monthBreakdownDTO struct {
	Month       string `json:"month"`
	Deposits    string `json:"deposits"`
	Withdrawals string `json:"withdrawals"`
	Count       int    `json:"count"`
}

type periodSummaryDTO struct {
	Start            time.Time           `json:"start"`
	End              time.Time           `json:"end"`
	TotalBalance     string              `json:"total_balance"`
	TotalAccounts    int                 `json:"total_accounts"`
	TransactionCount int                 `json:"transaction_count"`
	Transactions     []transactionDTO    `json:"transactions"`
	Months           []monthBreakdownDTO `json:"months"`
}

func toPeriodSummaryDTO(s *service.PeriodSummary) periodSummaryDTO {
	months := make([]monthBreakdownDTO, len(s.Months))
	for i, m := range s.Months {
		months[i] = toMonthBreakdownDTO(m)
	}
	return periodSummaryDTO{
		Start:            s.Start,
		End:              s.End,
		TotalBalance:     s.TotalBalance.String(),
		TotalAccounts:    s.TotalAccounts,
		TransactionCount: s.TransactionCount,
		Transactions:     toTransactionDTOs(s.Transactions),
		Months:           months,
	}
}

func toMonthBreakdownDTO(m repository.MonthBreakdown) monthBreakdownDTO {
	return monthBreakdownDTO{
		Month:       m.Month.Format("2006-01"),
		Deposits:    m.Deposits.String(),
		Withdrawals: m.Withdrawals.String(),
		Count:       m.Count,
	}
}

// MonthlyReport and YearlyReport expose the summaries that the
// document formatter (PDF/spreadsheet, outside this service) consumes.
func (h *AnalyticsHandler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.MonthlySummary(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build monthly report", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPeriodSummaryDTO(summary))
}

func (h *AnalyticsHandler) YearlyReport(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.YearlySummary(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build yearly report", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPeriodSummaryDTO(summary))
}
