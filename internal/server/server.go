// Package server exposes the ledger over a JSON HTTP boundary.
//
// Routes and field names follow the contract the UI depends on: snake_case
// JSON, two-decimal monetary numbers, and {"detail": ...} error bodies.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitledger/internal/chat"
	"github.com/mmynk/splitledger/internal/service"
)

// Server routes HTTP requests to the ledger services.
type Server struct {
	ledger *service.LedgerService
	query  *service.QueryService
	chat   *chat.Responder
}

// New creates a Server over the given services.
func New(ledger *service.LedgerService, query *service.QueryService, responder *chat.Responder) *Server {
	return &Server{ledger: ledger, query: query, chat: responder}
}

// Routes returns the request multiplexer with all endpoints registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("POST /groups", s.handleCreateGroup)
	mux.HandleFunc("GET /groups/{id}", s.handleGetGroup)
	mux.HandleFunc("POST /groups/{id}/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /groups/{id}/balances", s.handleGroupBalances)
	mux.HandleFunc("GET /users/{id}/balances", s.handleUserBalances)
	mux.HandleFunc("POST /chat", s.handleChat)

	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
