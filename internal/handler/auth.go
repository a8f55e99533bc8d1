package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/norkart1/EduLedger/internal/auth"
	"github.com/norkart1/EduLedger/internal/domain"
	"github.com/norkart1/EduLedger/internal/logging"
)

type adminAuthenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Admin, error)
}

type AuthHandler struct {
	admins    adminAuthenticator
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthHandler(admins adminAuthenticator, jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		admins:    admins,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "required"})
	}
	return errs
}

type loginResponse struct {
	Token string   `json:"token"`
	Admin adminDTO `json:"admin"`
}

type adminDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	admin, err := h.admins.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	token, err := auth.GenerateToken(admin.ID, admin.Username, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to issue token", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, loginResponse{
		Token: token,
		Admin: adminDTO{ID: admin.ID, Username: admin.Username},
	})
}
