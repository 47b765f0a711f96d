// Package rpc provides a JSON-RPC 2.0 server for the DeFiniX daemon.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/definix-labs/definix/internal/chain"
	"github.com/definix-labs/definix/internal/provider"
	"github.com/definix-labs/definix/internal/web3"
	"github.com/definix-labs/definix/pkg/helpers"
	"github.com/definix-labs/definix/pkg/logging"
)

// Server is a JSON-RPC 2.0 server.
type Server struct {
	web3   *web3.Service
	poller *web3.Poller
	log    *logging.Logger
	wsHub  *WSHub
	unsub  func()

	server   *http.Server
	listener net.Listener

	handlers map[string]Handler
	mu       sync.RWMutex
}

// Handler is a JSON-RPC method handler.
type Handler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error represents a JSON-RPC 2.0 error.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Standard error codes.
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// errInvalidParams marks handler errors caused by the request parameters.
var errInvalidParams = errors.New("invalid params")

func invalidParams(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errInvalidParams, fmt.Sprintf(format, args...))
}

// ErrorData is attached to error responses of operations that recorded a
// human-readable failure.
type ErrorData struct {
	ErrorMessage string `json:"error_message"`
}

// NewServer creates a new JSON-RPC server. poller may be nil.
func NewServer(svc *web3.Service, poller *web3.Poller) *Server {
	s := &Server{
		web3:     svc,
		poller:   poller,
		log:      logging.GetDefault().Component("rpc"),
		wsHub:    NewWSHub(),
		handlers: make(map[string]Handler),
	}

	s.registerHandlers()
	s.forwardEvents()

	return s
}

// registerHandlers registers all JSON-RPC method handlers.
func (s *Server) registerHandlers() {
	// Connection
	s.handlers["state_get"] = s.stateGet
	s.handlers["wallet_connect"] = s.walletConnect
	s.handlers["wallet_disconnect"] = s.walletDisconnect

	// Chains and tokens
	s.handlers["chain_switch"] = s.chainSwitch
	s.handlers["chain_list"] = s.chainList
	s.handlers["tokens_list"] = s.tokensList

	// Virtual wallet reads
	s.handlers["vault_balances"] = s.vaultBalances
	s.handlers["vault_quote"] = s.vaultQuote
	s.handlers["vault_exists"] = s.vaultExists
	s.handlers["vault_totalWallets"] = s.vaultTotalWallets

	// Virtual wallet writes
	s.handlers["vault_create"] = s.vaultCreate
	s.handlers["vault_convertToETH"] = s.vaultConvertToETH
	s.handlers["vault_convertToUSDC"] = s.vaultConvertToUSDC
	s.handlers["vault_depositToETH"] = s.vaultDepositToETH
	s.handlers["vault_depositToUSDC"] = s.vaultDepositToUSDC
	s.handlers["vault_withdrawETH"] = s.vaultWithdrawETH
	s.handlers["vault_withdrawUSDC"] = s.vaultWithdrawUSDC

	// ERC-20
	s.handlers["token_approve"] = s.tokenApprove
	s.handlers["token_allowance"] = s.tokenAllowance

	// Units
	s.handlers["units_format"] = s.unitsFormat
	s.handlers["units_parse"] = s.unitsParse
}

// Handler returns the HTTP handler serving JSON-RPC and WebSocket requests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /", s.handleRPC)
	mux.HandleFunc("POST /{$}", s.handleRPC)
	mux.HandleFunc("OPTIONS /", s.handleCORS)
	mux.HandleFunc("OPTIONS /{$}", s.handleCORS)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /ws/", s.handleWS)
	return corsMiddleware(mux)
}

// Start starts the RPC server.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	go s.wsHub.Run()

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("RPC server error", "error", err)
		}
	}()

	s.log.Info("RPC server started", "addr", listener.Addr().String(), "ws", "ws://"+listener.Addr().String()+"/ws")
	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop stops the RPC server.
func (s *Server) Stop() error {
	if s.unsub != nil {
		s.unsub()
	}
	s.wsHub.Stop()
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// forwardEvents relays state changes and dashboard refreshes to the hub.
func (s *Server) forwardEvents() {
	s.unsub = s.web3.Subscribe(func(st web3.State) {
		s.wsHub.Broadcast(EventStateChanged, s.stateResult(st))
	})
	if s.poller != nil {
		s.poller.OnUpdate(func(d web3.Dashboard) {
			s.wsHub.Broadcast(EventDashboard, dashboardResult(d))
		})
	}
}

// handleRPC handles incoming JSON-RPC requests.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, nil, ParseError, "Parse error", nil)
		return
	}

	if req.JSONRPC != "2.0" {
		s.writeError(w, req.ID, InvalidRequest, "Invalid Request", nil)
		return
	}

	s.mu.RLock()
	handler, ok := s.handlers[req.Method]
	s.mu.RUnlock()

	if !ok {
		s.writeError(w, req.ID, MethodNotFound, "Method not found", req.Method)
		return
	}

	result, err := handler(r.Context(), req.Params)
	if err != nil {
		s.log.Debug("RPC call failed", "method", req.Method, "error", err)
		var data interface{}
		var opErr *web3.OpError
		if errors.As(err, &opErr) {
			if msg := s.web3.State().ErrorMessage; msg != "" {
				data = &ErrorData{ErrorMessage: msg}
			}
		}
		s.writeError(w, req.ID, errorCode(err), err.Error(), data)
		return
	}

	s.writeResult(w, req.ID, result)
}

// errorCode maps a handler error to a JSON-RPC error code. Wallet provider
// codes pass through unchanged.
func errorCode(err error) int {
	if code, ok := provider.ErrorCode(err); ok {
		return code
	}
	switch {
	case errors.Is(err, errInvalidParams),
		errors.Is(err, chain.ErrUnsupportedChain),
		errors.Is(err, web3.ErrInvalidAmount),
		errors.Is(err, helpers.ErrInvalidAmount),
		errors.Is(err, helpers.ErrEmptyAmount):
		return InvalidParams
	case errors.Is(err, web3.ErrNotConnected),
		errors.Is(err, web3.ErrProviderUnavailable):
		return provider.CodeDisconnected
	default:
		return InternalError
	}
}

// writeResult writes a successful response.
func (s *Server) writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	resp := Response{
		JSONRPC: "2.0",
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
		ID: id,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *WSHub {
	return s.wsHub
}

// handleCORS handles CORS preflight requests.
func (s *Server) handleCORS(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// corsMiddleware adds CORS headers to all responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
