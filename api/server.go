package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledgerwallet_go/blockchain"
	"ledgerwallet_go/events"
	"ledgerwallet_go/mempool"
	"ledgerwallet_go/transfer"
	"ledgerwallet_go/utils"
	"ledgerwallet_go/wallet"
)

// Ledger is the balance store the API reads from and funds new wallets with.
type Ledger interface {
	blockchain.LedgerView
	Credit(address string, amount float64) error
}

// Server represents the HTTP API of the wallet node
type Server struct {
	Router       *mux.Router
	Port         int
	Ledger       Ledger
	Mempool      *mempool.Mempool
	Authorizer   *transfer.Authorizer
	Wallets      *wallet.Registry
	Hub          *events.Hub
	FaucetAmount float64

	httpServer *http.Server
}

// NewServer creates a server and registers its routes
func NewServer(port int, ledger Ledger, mp *mempool.Mempool, auth *transfer.Authorizer, hub *events.Hub, faucet float64) *Server {
	s := &Server{
		Router:       mux.NewRouter(),
		Port:         port,
		Ledger:       ledger,
		Mempool:      mp,
		Authorizer:   auth,
		Wallets:      wallet.NewRegistry(),
		Hub:          hub,
		FaucetAmount: faucet,
	}
	s.SetupRoutes()
	return s
}

// SetupRoutes configures the API routes
func (s *Server) SetupRoutes() {
	s.Router.HandleFunc("/ping", s.PingHandler).Methods("GET")

	// Wallet endpoints
	s.Router.HandleFunc("/wallets", s.CreateWalletHandler).Methods("POST")
	s.Router.HandleFunc("/wallets/{id}", s.GetWalletHandler).Methods("GET")
	s.Router.HandleFunc("/balances/{address}", s.BalanceHandler).Methods("GET")

	// Transfer endpoints
	s.Router.HandleFunc("/transfers", s.TransferHandler).Methods("POST")
	s.Router.HandleFunc("/mempool", s.MempoolHandler).Methods("GET")

	// Observability
	s.Router.HandleFunc("/events", s.EventsHandler).Methods("GET")
	s.Router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	utils.LogInfo("Server starting on port %d", s.Port)

	s.httpServer = &http.Server{
		Handler:      s.Router,
		Addr:         fmt.Sprintf(":%d", s.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
