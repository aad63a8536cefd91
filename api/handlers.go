package api

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"ledgerwallet_go/blockchain"
	"ledgerwallet_go/transfer"
	"ledgerwallet_go/utils"
	"ledgerwallet_go/wallet"
)

// CreateWalletRequest is the body of POST /wallets
type CreateWalletRequest struct {
	IsMiner bool     `json:"isMiner"`
	Fund    *float64 `json:"fund,omitempty"` // Overrides the configured faucet amount
}

// WalletResponse describes a locally held identity
type WalletResponse struct {
	ID      string  `json:"id"`
	Address string  `json:"address"`
	IsMiner bool    `json:"isMiner"`
	Balance float64 `json:"balance"`
}

// TransferRequest is the body of POST /transfers
type TransferRequest struct {
	From   string  `json:"from"` // Local wallet ID of the sender
	To     string  `json:"to"`   // Local wallet ID of the receiver
	Amount float64 `json:"amount"`
}

// ErrorResponse is returned on every non-2xx answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Address string `json:"address,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.LogError("Error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// PingHandler answers liveness probes
func (s *Server) PingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateWalletHandler generates a new identity and optionally funds it
func (s *Server) CreateWalletHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.LogError("Error decoding wallet request: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	fund := s.FaucetAmount
	if req.Fund != nil {
		fund = *req.Fund
	}
	if fund < 0 {
		writeError(w, http.StatusBadRequest, "fund must not be negative")
		return
	}

	id := wallet.NewIdentity(req.IsMiner, rand.Reader)
	if fund > 0 {
		if err := s.Ledger.Credit(id.Address(), fund); err != nil {
			utils.LogError("Error funding wallet %s: %v", id.Address(), err)
			writeError(w, http.StatusInternalServerError, "failed to fund wallet")
			return
		}
	}
	key := s.Wallets.Add(id)
	utils.LogInfo("Wallet %s created (address %s, miner=%t)", key, id.Address(), id.IsMiner())

	writeJSON(w, http.StatusCreated, s.walletResponse(key, id))
}

func (s *Server) walletResponse(key string, id *wallet.Identity) WalletResponse {
	return WalletResponse{
		ID:      key,
		Address: id.Address(),
		IsMiner: id.IsMiner(),
		Balance: s.Ledger.BalanceOf(id.Address()),
	}
}

// GetWalletHandler returns a wallet's public details
func (s *Server) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["id"]
	id, ok := s.Wallets.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, "wallet not found")
		return
	}
	writeJSON(w, http.StatusOK, s.walletResponse(key, id))
}

// BalanceHandler returns the confirmed balance of any address
func (s *Server) BalanceHandler(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	if _, err := wallet.ParseAddress(address); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"address": address,
		"balance": s.Ledger.BalanceOf(address),
		"pending": s.Mempool.PendingBySender(address),
	})
}

// TransferHandler authorizes a transfer between two local wallets
func (s *Server) TransferHandler(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogError("Error decoding transfer request: %v", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	sender, ok := s.Wallets.Get(req.From)
	if !ok {
		writeError(w, http.StatusNotFound, "sender wallet not found")
		return
	}
	receiver, ok := s.Wallets.Get(req.To)
	if !ok {
		writeError(w, http.StatusNotFound, "receiver wallet not found")
		return
	}

	tx, err := s.Authorizer.AuthorizeTransfer(sender, receiver, req.Amount)
	if err != nil {
		var insufficient *transfer.InsufficientFundsError
		switch {
		case errors.As(err, &insufficient):
			writeJSON(w, http.StatusPaymentRequired, ErrorResponse{Error: err.Error(), Address: insufficient.Address})
		case errors.Is(err, transfer.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			utils.LogError("Transfer failed: %v", err)
			writeError(w, http.StatusInternalServerError, "transfer failed")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, tx)
}

// MempoolHandler lists pending transactions
func (s *Server) MempoolHandler(w http.ResponseWriter, r *http.Request) {
	items := s.Mempool.GetAllItems()
	writeJSON(w, http.StatusOK, struct {
		Count        int                       `json:"count"`
		Transactions []*blockchain.Transaction `json:"transactions"`
	}{len(items), items})
}
