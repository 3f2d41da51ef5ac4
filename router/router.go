// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-elect/handlers"
	"github.com/danielhkuo/quickly-elect/middleware"
)

func NewRouter(svc *handlers.Service) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(svc)
	electionHandler := handlers.NewElectionHandler(svc)
	rosterHandler := handlers.NewRosterHandler(svc)

	salt := svc.Config.AccountKeySalt
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAccount(salt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts and the user registry
	mux.HandleFunc("POST /accounts", middleware.WithLogging(accountHandler.Create))
	mux.HandleFunc("POST /registry/requests", authed(accountHandler.Register))
	mux.HandleFunc("GET /registry/requests", authed(accountHandler.Pending))
	mux.HandleFunc("POST /registry/requests/{account}/approve", authed(accountHandler.Approve))
	mux.HandleFunc("POST /registry/admin", authed(accountHandler.DelegateAdmin))

	// Election lifecycle
	mux.HandleFunc("POST /elections", authed(electionHandler.Create))
	mux.HandleFunc("GET /elections", authed(electionHandler.ListCurrent))
	mux.HandleFunc("GET /elections/history", authed(electionHandler.ListHistory))
	mux.HandleFunc("GET /elections/{id}/results", authed(electionHandler.Results))
	mux.HandleFunc("POST /elections/{id}/finalize", authed(electionHandler.Finalize))

	// Rosters and ballots
	mux.HandleFunc("POST /elections/{id}/requests", authed(rosterHandler.RequestRole))
	mux.HandleFunc("GET /elections/{id}/candidates/pending", authed(rosterHandler.PendingCandidates))
	mux.HandleFunc("GET /elections/{id}/voters/pending", authed(rosterHandler.PendingVoters))
	mux.HandleFunc("POST /elections/{id}/candidates/{external_id}/approve", authed(rosterHandler.ApproveCandidate))
	mux.HandleFunc("POST /elections/{id}/voters/{external_id}/approve", authed(rosterHandler.ApproveVoter))
	mux.HandleFunc("POST /elections/{id}/ballots", authed(rosterHandler.CastVote))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-elect API v1"))
	})

	return mux
}
