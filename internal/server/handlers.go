package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/pkg/money"
)

type userResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createUserRequest struct {
	Name string `json:"name"`
}

type createGroupRequest struct {
	Name    string   `json:"name"`
	UserIDs []string `json:"user_ids"`
}

type groupResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Users         []userResponse `json:"users"`
	TotalExpenses money.Cents    `json:"total_expenses"`
}

type splitInput struct {
	UserID     string   `json:"user_id"`
	Percentage *float64 `json:"percentage,omitempty"`
}

type createExpenseRequest struct {
	Description string       `json:"description"`
	Amount      money.Cents  `json:"amount"`
	PaidBy      string       `json:"paid_by"`
	SplitType   string       `json:"split_type"`
	Splits      []splitInput `json:"splits"`
}

type shareResponse struct {
	UserID      string      `json:"user_id"`
	ShareAmount money.Cents `json:"share_amount"`
	Percentage  *float64    `json:"percentage,omitempty"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	Description string          `json:"description"`
	Amount      money.Cents     `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SplitType   string          `json:"split_type"`
	Splits      []shareResponse `json:"splits"`
}

type balanceResponse struct {
	UserID     string      `json:"user_id"`
	Name       string      `json:"name"`
	NetBalance money.Cents `json:"net_balance"`
}

type settlementResponse struct {
	FromUserID   string      `json:"from_user_id"`
	FromUserName string      `json:"from_user_name"`
	ToUserID     string      `json:"to_user_id"`
	ToUserName   string      `json:"to_user_name"`
	Amount       money.Cents `json:"amount"`
}

type groupBalancesResponse struct {
	GroupID     string               `json:"group_id"`
	Name        string               `json:"name"`
	Balances    []balanceResponse    `json:"balances"`
	Settlements []settlementResponse `json:"settlements"`
}

type groupBalanceResponse struct {
	GroupID    string      `json:"group_id"`
	GroupName  string      `json:"group_name"`
	NetBalance money.Cents `json:"net_balance"`
}

type userBalancesResponse struct {
	UserID   string                 `json:"user_id"`
	Name     string                 `json:"name"`
	Balances []groupBalanceResponse `json:"balances"`
}

type chatRequest struct {
	Query         string `json:"query"`
	CurrentUserID string `json:"current_user_id"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.ledger.CreateUser(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Name: user.Name})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.ledger.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{ID: u.ID, Name: u.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.ledger.CreateGroup(r.Context(), req.Name, req.UserIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := s.query.GroupSummary(r.Context(), group.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(summary))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	summary, err := s.query.GroupSummary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(summary))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	splits := make([]calculator.SplitInput, len(req.Splits))
	for i, sp := range req.Splits {
		splits[i] = calculator.SplitInput{UserID: sp.UserID, Percentage: sp.Percentage}
	}

	expense, err := s.ledger.RecordExpense(r.Context(), r.PathValue("id"), service.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		PaidByID:    req.PaidBy,
		SplitType:   models.SplitType(req.SplitType),
		Splits:      splits,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.ExpensesRecorded.Inc()

	resp := expenseResponse{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		Description: expense.Description,
		Amount:      expense.Amount,
		PaidBy:      expense.PaidByID,
		SplitType:   string(expense.SplitType),
	}
	for _, share := range expense.Shares {
		resp.Splits = append(resp.Splits, shareResponse{
			UserID:      share.UserID,
			ShareAmount: share.ShareAmount,
			Percentage:  share.Percentage,
		})
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGroupBalances(w http.ResponseWriter, r *http.Request) {
	view, err := s.query.GroupBalances(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := groupBalancesResponse{
		GroupID:     view.GroupID,
		Name:        view.Name,
		Balances:    make([]balanceResponse, 0, len(view.Balances)),
		Settlements: make([]settlementResponse, 0, len(view.Settlements)),
	}
	for _, b := range view.Balances {
		resp.Balances = append(resp.Balances, balanceResponse{
			UserID:     b.UserID,
			Name:       b.Name,
			NetBalance: b.NetBalance,
		})
	}
	for _, st := range view.Settlements {
		resp.Settlements = append(resp.Settlements, settlementResponse{
			FromUserID:   st.FromUserID,
			FromUserName: st.FromUserName,
			ToUserID:     st.ToUserID,
			ToUserName:   st.ToUserName,
			Amount:       st.Amount,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUserBalances(w http.ResponseWriter, r *http.Request) {
	view, err := s.query.UserBalances(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := userBalancesResponse{
		UserID:   view.UserID,
		Name:     view.Name,
		Balances: make([]groupBalanceResponse, 0, len(view.Balances)),
	}
	for _, b := range view.Balances {
		resp.Balances = append(resp.Balances, groupBalanceResponse{
			GroupID:    b.GroupID,
			GroupName:  b.GroupName,
			NetBalance: b.NetBalance,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.CurrentUserID == "" {
		writeError(w, errs.Validationf("current_user_id is required"))
		return
	}

	answer, err := s.chat.Answer(r.Context(), req.Query, req.CurrentUserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: answer})
}

func toGroupResponse(summary *models.GroupSummary) groupResponse {
	resp := groupResponse{
		ID:            summary.GroupID,
		Name:          summary.Name,
		Users:         make([]userResponse, 0, len(summary.Users)),
		TotalExpenses: summary.TotalExpenses,
	}
	for _, u := range summary.Users {
		resp.Users = append(resp.Users, userResponse{ID: u.ID, Name: u.Name})
	}
	return resp
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Validationf("invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy to HTTP statuses: validation failures
// are 400, unknown ids 404, everything else (including consistency
// violations) a logged 500 with no internals leaked.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errs.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
	case errs.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error()})
	default:
		var cerr *errs.ConsistencyError
		if errors.As(err, &cerr) {
			slog.Error("Invariant violation", "error", err)
		} else {
			slog.Error("Internal error", "error", err)
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}
