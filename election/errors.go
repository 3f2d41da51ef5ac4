// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-elect/calendar"
)

// Permission errors
var (
	ErrNotAdmin  = errors.New("caller is not the administrator")
	ErrUsersOnly = errors.New("action is reserved to users, not the administrator")
)

// Identity state errors. The registry returns these too.
var (
	ErrUserNotFound           = errors.New("user is not registered")
	ErrUserNotApproved        = errors.New("user registration is pending approval")
	ErrUserAlreadyRegistered  = errors.New("user is already registered")
	ErrUserAlreadyPending     = errors.New("user is already waiting for approval")
	ErrAdminAlreadyRegistered = errors.New("administrator is already registered")
)

// Existence errors
var (
	ErrElectionNotFound  = errors.New("election does not exist")
	ErrCandidateNotFound = errors.New("candidate does not exist")
	ErrVoterNotFound     = errors.New("voter does not exist")
)

// Approval errors for ballots naming someone still pending
var (
	ErrCandidateNotApproved = errors.New("candidate is not approved")
	ErrVoterNotApproved     = errors.New("voter is not approved")
)

// Date and schedule errors
var (
	ErrInvalidStartDate = errors.New("invalid start date")
	ErrInvalidEndDate   = errors.New("invalid end date")
	ErrEndBeforeStart   = errors.New("end date is not after start date")
	ErrStartPassed      = errors.New("start date already passed")
	ErrEndPassed        = errors.New("end date already passed")
)

// Overflow errors
var (
	ErrIDExhausted = errors.New("election id counter reached its limit")
	ErrVoteCeiling = errors.New("vote count reached its limit")
)

var (
	ErrAlreadyVoted = errors.New("voter already cast a ballot")
	ErrNoResults    = errors.New("election has no results yet")
)

// PhaseError reports the phase an election was actually in
type PhaseError struct {
	Actual Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("election is in %s phase", e.Actual)
}

// RoleConflictError reports where an identity already sits in an election roster
type RoleConflictError struct {
	Role     Role
	Approved bool
}

func (e *RoleConflictError) Error() string {
	if e.Approved {
		return fmt.Sprintf("%s already approved", e.Role)
	}
	return fmt.Sprintf("%s already pending", e.Role)
}

// Kind groups errors into the families hosts map to responses
type Kind string

const (
	KindNone          Kind = ""
	KindPermission    Kind = "permission"
	KindIdentityState Kind = "identity_state"
	KindPhase         Kind = "phase"
	KindExistence     Kind = "existence"
	KindRoleConflict  Kind = "role_conflict"
	KindDate          Kind = "date"
	KindSchedule      Kind = "schedule"
	KindOverflow      Kind = "overflow"
	KindAlreadyVoted  Kind = "already_voted"
	KindNoResults     Kind = "no_results"
	KindUnknown       Kind = "unknown"
)

// KindOf classifies err. Wrapped errors are unwrapped.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var phaseErr *PhaseError
	var roleErr *RoleConflictError
	var dateErr *calendar.DateError

	switch {
	case errors.As(err, &phaseErr):
		return KindPhase
	case errors.As(err, &roleErr):
		return KindRoleConflict
	case errors.As(err, &dateErr),
		errors.Is(err, ErrInvalidStartDate),
		errors.Is(err, ErrInvalidEndDate):
		return KindDate
	case errors.Is(err, ErrNotAdmin), errors.Is(err, ErrUsersOnly):
		return KindPermission
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrUserNotApproved),
		errors.Is(err, ErrUserAlreadyRegistered),
		errors.Is(err, ErrUserAlreadyPending),
		errors.Is(err, ErrAdminAlreadyRegistered):
		return KindIdentityState
	case errors.Is(err, ErrElectionNotFound),
		errors.Is(err, ErrCandidateNotFound),
		errors.Is(err, ErrVoterNotFound),
		errors.Is(err, ErrCandidateNotApproved),
		errors.Is(err, ErrVoterNotApproved):
		return KindExistence
	case errors.Is(err, ErrEndBeforeStart),
		errors.Is(err, ErrStartPassed),
		errors.Is(err, ErrEndPassed):
		return KindSchedule
	case errors.Is(err, ErrIDExhausted), errors.Is(err, ErrVoteCeiling):
		return KindOverflow
	case errors.Is(err, ErrAlreadyVoted):
		return KindAlreadyVoted
	case errors.Is(err, ErrNoResults):
		return KindNoResults
	default:
		return KindUnknown
	}
}

func startDateError(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidStartDate, err)
}

func endDateError(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidEndDate, err)
}
