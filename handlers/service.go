// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/registry"
)

// Service is the state shared by every handler
type Service struct {
	Engine   *election.Engine
	Registry *registry.Registry
	Store    *db.Store
	Config   cliparse.Config
	// Now is the clock; time.Now when nil
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// nowMillis is the engine clock: epoch milliseconds, never negative
func (s *Service) nowMillis() uint64 {
	ms := s.now().UnixMilli()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}

func (s *Service) saveElections(ctx context.Context) error {
	snap := s.Engine.Snapshot()
	written, err := s.Store.SaveElections(ctx, snap)
	if err != nil {
		return err
	}
	if !written {
		slog.Debug("elections snapshot superseded", "version", snap.Version)
	}
	return nil
}

func (s *Service) saveAccounts(ctx context.Context) error {
	snap := s.Registry.Snapshot()
	written, err := s.Store.SaveAccounts(ctx, snap)
	if err != nil {
		return err
	}
	if !written {
		slog.Debug("accounts snapshot superseded", "version", snap.Version)
	}
	return nil
}

// persisted writes the state touched by a successful mutation. It reports
// false after answering 500 when the write failed.
func persisted(w http.ResponseWriter, r *http.Request, save func(context.Context) error) bool {
	if err := save(r.Context()); err != nil {
		slog.Error("failed to persist state",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to persist state")
		return false
	}
	return true
}

// caller returns the authenticated identity, answering 401 when absent
func caller(w http.ResponseWriter, r *http.Request) (election.Identity, bool) {
	id, ok := middleware.Caller(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing account credentials")
	}
	return id, ok
}

// pathElectionID parses the {id} path value, answering 400 when malformed
func pathElectionID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id must be an unsigned integer")
		return 0, false
	}
	return id, true
}

var statusByKind = map[election.Kind]int{
	election.KindPermission:    http.StatusForbidden,
	election.KindIdentityState: http.StatusForbidden,
	election.KindExistence:     http.StatusNotFound,
	election.KindPhase:         http.StatusConflict,
	election.KindRoleConflict:  http.StatusConflict,
	election.KindAlreadyVoted:  http.StatusConflict,
	election.KindNoResults:     http.StatusConflict,
	election.KindDate:          http.StatusBadRequest,
	election.KindSchedule:      http.StatusBadRequest,
	election.KindOverflow:      http.StatusInsufficientStorage,
}

var sentinelCodes = []struct {
	err  error
	code string
}{
	{election.ErrNotAdmin, "not_admin"},
	{election.ErrUsersOnly, "users_only"},
	{election.ErrUserNotFound, "user_not_found"},
	{election.ErrUserNotApproved, "user_not_approved"},
	{election.ErrUserAlreadyRegistered, "user_already_registered"},
	{election.ErrUserAlreadyPending, "user_already_pending"},
	{election.ErrAdminAlreadyRegistered, "admin_already_registered"},
	{election.ErrElectionNotFound, "election_not_found"},
	{election.ErrCandidateNotFound, "candidate_not_found"},
	{election.ErrVoterNotFound, "voter_not_found"},
	{election.ErrCandidateNotApproved, "candidate_not_approved"},
	{election.ErrVoterNotApproved, "voter_not_approved"},
	{election.ErrInvalidStartDate, "invalid_start_date"},
	{election.ErrInvalidEndDate, "invalid_end_date"},
	{election.ErrEndBeforeStart, "end_before_start"},
	{election.ErrStartPassed, "start_passed"},
	{election.ErrEndPassed, "end_passed"},
	{election.ErrIDExhausted, "election_ids_exhausted"},
	{election.ErrVoteCeiling, "vote_ceiling"},
	{election.ErrAlreadyVoted, "already_voted"},
	{election.ErrNoResults, "no_results"},
}

// ErrorCode returns the stable code reported with err
func ErrorCode(err error) string {
	var phaseErr *election.PhaseError
	if errors.As(err, &phaseErr) {
		return "election_" + string(phaseErr.Actual)
	}
	var roleErr *election.RoleConflictError
	if errors.As(err, &roleErr) {
		if roleErr.Approved {
			return string(roleErr.Role) + "_already_approved"
		}
		return string(roleErr.Role) + "_already_pending"
	}
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return sc.code
		}
	}
	return string(election.KindOf(err))
}

// writeEngineError answers with the status and code matching err
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status, ok := statusByKind[election.KindOf(err)]
	if !ok {
		slog.Error("unexpected engine error",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
		return
	}
	middleware.CodedErrorResponse(w, status, ErrorCode(err), err.Error())
}
