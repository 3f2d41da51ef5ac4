// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type AccountHandler struct {
	svc *Service
}

func NewAccountHandler(svc *Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Create handles POST /accounts
// Mints an account id and the key that authenticates it. Nothing is stored:
// the key is derived from the id and the server salt.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, accountKey, err := auth.MintAccount(h.svc.Config.AccountKeySalt)
	if err != nil {
		slog.Error("failed to mint account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("account minted", "account_id", accountID)
	middleware.JSONResponse(w, http.StatusCreated, models.CreateAccountResponse{
		AccountID:  accountID,
		AccountKey: accountKey,
	})
}

// Register handles POST /registry/requests
// Queues the caller for approval by the administrator
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || req.ExternalID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name and external_id are required")
		return
	}

	if err := h.svc.Registry.Register(id, req.Name, req.ExternalID); err != nil {
		writeEngineError(w, r, err)
		return
	}
	if !persisted(w, r, h.svc.saveAccounts) {
		return
	}

	slog.Info("registration requested", "account_id", id)
	middleware.JSONResponse(w, http.StatusAccepted, models.MessageResponse{
		Message: "registration pending approval",
	})
}

// Pending handles GET /registry/requests
func (h *AccountHandler) Pending(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	users, err := h.svc.Registry.Pending(id)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AccountsFromUsers(users))
}

// Approve handles POST /registry/requests/{account}/approve
func (h *AccountHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	account := election.Identity(r.PathValue("account"))

	if err := h.svc.Registry.Approve(id, account); err != nil {
		if errors.Is(err, election.ErrUserNotFound) {
			middleware.CodedErrorResponse(w, http.StatusNotFound, ErrorCode(err), err.Error())
			return
		}
		writeEngineError(w, r, err)
		return
	}
	if !persisted(w, r, h.svc.saveAccounts) {
		return
	}

	slog.Info("registration approved", "account_id", account, "by", id)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "account approved",
	})
}

// DelegateAdmin handles POST /registry/admin
// Hands the administrator role to another account. The previous
// administrator stays an approved user.
func (h *AccountHandler) DelegateAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.DelegateAdminRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.AccountID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "account_id is required")
		return
	}

	account := election.Identity(req.AccountID)
	if err := h.svc.Registry.DelegateAdmin(id, account, req.Name, req.ExternalID); err != nil {
		writeEngineError(w, r, err)
		return
	}
	if !persisted(w, r, h.svc.saveAccounts) {
		return
	}

	slog.Info("administrator delegated", "from", id, "to", account)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "administrator changed",
	})
}
