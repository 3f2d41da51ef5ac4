// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"fmt"
	"slices"

	"github.com/danielhkuo/quickly-elect/calendar"
)

// Identity is the authenticated caller reference supplied by the host
type Identity string

// Phase constants
const (
	PhaseRegistration Phase = "registration"
	PhaseVoting       Phase = "voting"
	PhaseClosed       Phase = "closed"
	PhaseFinalized    Phase = "finalized"
)

type Phase string

// Role constants
const (
	RoleVoter     Role = "voter"
	RoleCandidate Role = "candidate"
)

type Role string

// ParseRole accepts "voter" or "candidate"
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleVoter, RoleCandidate:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is a roster entry. Each election holds its own copy.
type User struct {
	Identity   Identity `json:"identity"`
	Name       string   `json:"name"`
	ExternalID string   `json:"external_id"`
}

// CandidateVotes is one tally row
type CandidateVotes struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Votes      uint64 `json:"votes"`
}

// EmptyResult is returned by Finalize when no candidate was ever approved
var EmptyResult = CandidateVotes{Name: "empty", Identifier: "empty"}

// Election is the stored record. Tally rows are index-aligned with
// ApprovedCandidates while the election is live.
type Election struct {
	ID                 uint64           `json:"id"`
	Office             string           `json:"office"`
	StartMillis        uint64           `json:"start_ms"`
	EndMillis          uint64           `json:"end_ms"`
	StartDate          calendar.Date    `json:"start_date"`
	EndDate            calendar.Date    `json:"end_date"`
	Tally              []CandidateVotes `json:"tally"`
	ApprovedCandidates []User           `json:"approved_candidates"`
	PendingCandidates  []User           `json:"pending_candidates"`
	ApprovedVoters     []User           `json:"approved_voters"`
	PendingVoters      []User           `json:"pending_voters"`
	VotedVoters        []User           `json:"voted_voters"`
}

// Phase derives the time-based phase of a live election
func (e *Election) Phase(now uint64) Phase {
	switch {
	case now < e.StartMillis:
		return PhaseRegistration
	case now < e.EndMillis:
		return PhaseVoting
	default:
		return PhaseClosed
	}
}

func (e *Election) roster(role Role, approved bool) *[]User {
	switch {
	case role == RoleVoter && approved:
		return &e.ApprovedVoters
	case role == RoleVoter:
		return &e.PendingVoters
	case approved:
		return &e.ApprovedCandidates
	default:
		return &e.PendingCandidates
	}
}

func (e *Election) clone() Election {
	c := *e
	c.Tally = slices.Clone(e.Tally)
	c.ApprovedCandidates = slices.Clone(e.ApprovedCandidates)
	c.PendingCandidates = slices.Clone(e.PendingCandidates)
	c.ApprovedVoters = slices.Clone(e.ApprovedVoters)
	c.PendingVoters = slices.Clone(e.PendingVoters)
	c.VotedVoters = slices.Clone(e.VotedVoters)
	return c
}

// ElectionView is the read-only projection handed to callers
type ElectionView struct {
	ID                 uint64           `json:"id"`
	Office             string           `json:"office"`
	Phase              Phase            `json:"phase"`
	StartDate          calendar.Date    `json:"start_date"`
	EndDate            calendar.Date    `json:"end_date"`
	StartMillis        uint64           `json:"start_ms"`
	EndMillis          uint64           `json:"end_ms"`
	ApprovedCandidates []User           `json:"approved_candidates"`
	Results            []CandidateVotes `json:"results,omitempty"`
}

func (e *Election) view(phase Phase, withResults bool) ElectionView {
	v := ElectionView{
		ID:                 e.ID,
		Office:             e.Office,
		Phase:              phase,
		StartDate:          e.StartDate,
		EndDate:            e.EndDate,
		StartMillis:        e.StartMillis,
		EndMillis:          e.EndMillis,
		ApprovedCandidates: slices.Clone(e.ApprovedCandidates),
	}
	if v.ApprovedCandidates == nil {
		v.ApprovedCandidates = []User{}
	}
	if withResults {
		v.Results = slices.Clone(e.Tally)
		if v.Results == nil {
			v.Results = []CandidateVotes{}
		}
	}
	return v
}

func indexByIdentity(users []User, id Identity) int {
	return slices.IndexFunc(users, func(u User) bool { return u.Identity == id })
}

func indexByExternalID(users []User, externalID string) int {
	return slices.IndexFunc(users, func(u User) bool { return u.ExternalID == externalID })
}
