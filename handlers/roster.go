// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// RosterHandler serves per-election registration and voting
type RosterHandler struct {
	svc *Service
}

func NewRosterHandler(svc *Service) *RosterHandler {
	return &RosterHandler{svc: svc}
}

// RequestRole handles POST /elections/{id}/requests
func (h *RosterHandler) RequestRole(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	electionID, ok := pathElectionID(w, r)
	if !ok {
		return
	}

	var req models.RoleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	role, err := election.ParseRole(req.Role)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be one of: voter, candidate")
		return
	}

	if err := h.svc.Engine.RequestRole(id, electionID, role, h.svc.nowMillis()); err != nil {
		writeEngineError(w, r, err)
		return
	}
	if !persisted(w, r, h.svc.saveElections) {
		return
	}

	slog.Info("role requested", "election_id", electionID, "account_id", id, "role", role)
	middleware.JSONResponse(w, http.StatusAccepted, models.MessageResponse{
		Message: string(role) + " request pending approval",
	})
}

// PendingCandidates handles GET /elections/{id}/candidates/pending
func (h *RosterHandler) PendingCandidates(w http.ResponseWriter, r *http.Request) {
	h.pending(w, r, h.svc.Engine.PendingCandidates)
}

// PendingVoters handles GET /elections/{id}/voters/pending
func (h *RosterHandler) PendingVoters(w http.ResponseWriter, r *http.Request) {
	h.pending(w, r, h.svc.Engine.PendingVoters)
}

func (h *RosterHandler) pending(w http.ResponseWriter, r *http.Request,
	list func(election.Identity, uint64, uint64) ([]election.User, error)) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	electionID, ok := pathElectionID(w, r)
	if !ok {
		return
	}

	users, err := list(id, electionID, h.svc.nowMillis())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AccountsFromUsers(users))
}

// ApproveCandidate handles POST /elections/{id}/candidates/{external_id}/approve
func (h *RosterHandler) ApproveCandidate(w http.ResponseWriter, r *http.Request) {
	h.approve(w, r, election.RoleCandidate, h.svc.Engine.ApproveCandidate)
}

// ApproveVoter handles POST /elections/{id}/voters/{external_id}/approve
func (h *RosterHandler) ApproveVoter(w http.ResponseWriter, r *http.Request) {
	h.approve(w, r, election.RoleVoter, h.svc.Engine.ApproveVoter)
}

func (h *RosterHandler) approve(w http.ResponseWriter, r *http.Request, role election.Role,
	approve func(election.Identity, uint64, string, uint64) error) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	electionID, ok := pathElectionID(w, r)
	if !ok {
		return
	}
	externalID := r.PathValue("external_id")

	if err := approve(id, electionID, externalID, h.svc.nowMillis()); err != nil {
		writeEngineError(w, r, err)
		return
	}
	if !persisted(w, r, h.svc.saveElections) {
		return
	}

	slog.Info("role approved", "election_id", electionID, "external_id", externalID, "role", role)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: string(role) + " approved",
	})
}

// CastVote handles POST /elections/{id}/ballots
// The candidate is named by external id
func (h *RosterHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	electionID, ok := pathElectionID(w, r)
	if !ok {
		return
	}

	var req models.BallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Candidate == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate is required")
		return
	}

	if err := h.svc.Engine.CastVote(id, electionID, req.Candidate, h.svc.nowMillis()); err != nil {
		writeEngineError(w, r, err)
		return
	}
	if !persisted(w, r, h.svc.saveElections) {
		return
	}

	// The choice is not logged
	slog.Info("ballot cast", "election_id", electionID, "account_id", id)
	middleware.JSONResponse(w, http.StatusCreated, models.MessageResponse{
		Message: "ballot recorded",
	})
}
