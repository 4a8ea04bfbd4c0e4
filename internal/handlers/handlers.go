package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/dnovoa/payledger/internal/models"
	"github.com/dnovoa/payledger/internal/services"
)

// Handlers holds the services behind the HTTP surface.
type Handlers struct {
	accounts *services.AccountService
	ledger   *services.LedgerService
	tokens   *services.TokenService
	gate     *services.AccessGate
	validate *validator.Validate
}

func NewHandlers(accounts *services.AccountService, ledger *services.LedgerService, tokens *services.TokenService, gate *services.AccessGate) *Handlers {
	return &Handlers{
		accounts: accounts,
		ledger:   ledger,
		tokens:   tokens,
		gate:     gate,
		validate: validator.New(),
	}
}

// Register mounts all routes on the router.
func (h *Handlers) Register(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/health", h.Health)

	r.Post("/register", h.RegisterUser)
	r.Post("/delete_user", h.DeleteUser)
	r.Put("/update_user", h.UpdateUser)
	r.Get("/users", h.ListUsers)

	r.Post("/process_payment", h.ProcessPayment)
	r.Post("/payments", h.ListPayments)
	r.Post("/payments_by_date", h.PaymentsByDate)

	r.Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAccount)
		r.Get("/protected", h.Protected)
	})
}

type registerRequest struct {
	Name string `json:"name" validate:"required"`
}

type deleteUserRequest struct {
	Name string `json:"name" validate:"required"`
}

type updateUserRequest struct {
	Name    string `json:"name" validate:"required"`
	NewName string `json:"new_name" validate:"required"`
}

type processPaymentRequest struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount"`
}

type listPaymentsRequest struct {
	Name string `json:"name" validate:"required"`
}

type paymentsByDateRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type loginRequest struct {
	Name string `json:"name" validate:"required"`
}

type userResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type paymentResponse struct {
	ID     uuid.UUID `json:"id"`
	Amount float64   `json:"amount"`
	Date   string    `json:"date"`
}

// decode unmarshals the body into dst and checks its required fields.
func (h *Handlers) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("missing required fields")
	}
	return nil
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "welcome to the payments service"})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.accounts.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("user %s registered", account.Name),
	})
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req deleteUserRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.accounts.Delete(r.Context(), req.Name); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("user %s and their payments deleted", req.Name),
	})
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.accounts.Rename(r.Context(), req.Name, req.NewName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("user renamed to %s", account.Name),
	})
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	users := make([]userResponse, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, userResponse{ID: account.ID, Name: account.Name})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *Handlers) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req processPaymentRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := h.ledger.Record(r.Context(), req.Name, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("payment of %.2f recorded", payment.Amount),
	})
}

func (h *Handlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	var req listPaymentsRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, err := h.ledger.ListByAccount(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"payments": toPaymentResponses(payments)})
}

func (h *Handlers) PaymentsByDate(w http.ResponseWriter, r *http.Request) {
	var req paymentsByDateRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, err := h.ledger.ListByRange(r.Context(), req.Name, req.StartDate, req.EndDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"payments": toPaymentResponses(payments)})
}

// Login issues a token to any existing account by name. There is no
// credential check beyond existence.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.accounts.GetByName(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(account.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": expiresAt.UTC(),
	})
}

func (h *Handlers) Protected(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r)
	if account == nil {
		writeError(w, http.StatusUnauthorized, services.ErrMissingToken.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("access granted to %s", account.Name),
	})
}

// Timestamps are serialized the same way they come back from the store.
func toPaymentResponses(payments []*models.Payment) []paymentResponse {
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentResponse{
			ID:     p.ID,
			Amount: p.Amount,
			Date:   p.CreatedAt.UTC().Format(timeFormat),
		})
	}
	return out
}
