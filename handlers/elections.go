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

type ElectionHandler struct {
	svc *Service
}

func NewElectionHandler(svc *Service) *ElectionHandler {
	return &ElectionHandler{svc: svc}
}

// Create handles POST /elections
func (h *ElectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Office == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "office is required")
		return
	}

	electionID, err := h.svc.Engine.CreateElection(id, req.Office, req.Start, req.End, h.svc.nowMillis())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if !persisted(w, r, h.svc.saveElections) {
		return
	}

	slog.Info("election created",
		"election_id", electionID,
		"office", req.Office,
		"start", req.Start,
		"end", req.End,
	)
	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: electionID,
	})
}

// ListCurrent handles GET /elections
// Returns every live election in creation order
func (h *ElectionHandler) ListCurrent(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	now := h.svc.now()
	views, err := h.svc.Engine.ListCurrent(id, h.svc.nowMillis())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ElectionsFromViews(views, now))
}

// ListHistory handles GET /elections/history
// Finalized elections come first, each with its ranked results, followed
// by the live ones.
func (h *ElectionHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	now := h.svc.now()
	views, err := h.svc.Engine.ListHistory(id, h.svc.nowMillis())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ElectionsFromViews(views, now))
}

// Results handles GET /elections/{id}/results
func (h *ElectionHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	electionID, ok := pathElectionID(w, r)
	if !ok {
		return
	}

	tally, err := h.svc.Engine.Results(id, electionID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		ElectionID: electionID,
		Results:    models.RankedResults(tally),
	})
}

// Finalize handles POST /elections/{id}/finalize
// Moves a closed election to history and reports its winner
func (h *ElectionHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}
	electionID, ok := pathElectionID(w, r)
	if !ok {
		return
	}

	winner, err := h.svc.Engine.Finalize(id, electionID, h.svc.nowMillis())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if !persisted(w, r, h.svc.saveElections) {
		return
	}

	empty := winner == election.EmptyResult
	slog.Info("election finalized",
		"election_id", electionID,
		"winner", winner.Identifier,
		"votes", winner.Votes,
		"empty", empty,
	)
	middleware.JSONResponse(w, http.StatusOK, models.FinalizeResponse{
		ElectionID: electionID,
		Winner:     models.Result(winner, 1),
		Empty:      empty,
	})
}
