// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"math/big"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-elect/calendar"
	"github.com/danielhkuo/quickly-elect/election"
)

// Request types

type RegisterRequest struct {
	Name       string `json:"name"`
	ExternalID string `json:"external_id"`
}

type DelegateAdminRequest struct {
	AccountID  string `json:"account_id"`
	Name       string `json:"name"`
	ExternalID string `json:"external_id"`
}

type CreateElectionRequest struct {
	Office string        `json:"office"`
	Start  calendar.Date `json:"start"`
	End    calendar.Date `json:"end"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

type BallotRequest struct {
	Candidate string `json:"candidate"`
}

// Response types

type CreateAccountResponse struct {
	AccountID  string `json:"account_id"`
	AccountKey string `json:"account_key"`
}

type CreateElectionResponse struct {
	ElectionID uint64 `json:"election_id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type FinalizeResponse struct {
	ElectionID uint64          `json:"election_id"`
	Winner     CandidateResult `json:"winner"`
	// Empty is set when the election closed without candidates
	Empty bool `json:"empty"`
}

type ResultsResponse struct {
	ElectionID uint64            `json:"election_id"`
	Results    []CandidateResult `json:"results"`
}

// Projections

type Account struct {
	AccountID  string `json:"account_id"`
	Name       string `json:"name"`
	ExternalID string `json:"external_id"`
}

type CandidateResult struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Votes      uint64 `json:"votes"`
	VotesText  string `json:"votes_text"`
}

type Election struct {
	ID         uint64            `json:"id"`
	Office     string            `json:"office"`
	Phase      string            `json:"phase"`
	Start      calendar.Date     `json:"start"`
	End        calendar.Date     `json:"end"`
	StartMs    uint64            `json:"start_ms"`
	EndMs      uint64            `json:"end_ms"`
	StartsText string            `json:"starts"`
	EndsText   string            `json:"ends"`
	Candidates []Account         `json:"candidates"`
	Results    []CandidateResult `json:"results,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Conversions

func AccountFromUser(u election.User) Account {
	return Account{AccountID: string(u.Identity), Name: u.Name, ExternalID: u.ExternalID}
}

func AccountsFromUsers(users []election.User) []Account {
	out := make([]Account, 0, len(users))
	for _, u := range users {
		out = append(out, AccountFromUser(u))
	}
	return out
}

// RankedResults numbers a tally that is already in ranking order
func RankedResults(tally []election.CandidateVotes) []CandidateResult {
	out := make([]CandidateResult, 0, len(tally))
	for i, row := range tally {
		out = append(out, Result(row, i+1))
	}
	return out
}

func Result(row election.CandidateVotes, rank int) CandidateResult {
	return CandidateResult{
		Rank:       rank,
		Name:       row.Name,
		Identifier: row.Identifier,
		Votes:      row.Votes,
		VotesText:  humanize.BigComma(new(big.Int).SetUint64(row.Votes)),
	}
}

// ElectionFromView projects an engine view, describing the schedule
// relative to now.
func ElectionFromView(v election.ElectionView, now time.Time) Election {
	e := Election{
		ID:         v.ID,
		Office:     v.Office,
		Phase:      string(v.Phase),
		Start:      v.StartDate,
		End:        v.EndDate,
		StartMs:    v.StartMillis,
		EndMs:      v.EndMillis,
		StartsText: relative(v.StartMillis, now),
		EndsText:   relative(v.EndMillis, now),
		Candidates: AccountsFromUsers(v.ApprovedCandidates),
	}
	if v.Results != nil {
		e.Results = RankedResults(v.Results)
	}
	return e
}

func ElectionsFromViews(views []election.ElectionView, now time.Time) []Election {
	out := make([]Election, 0, len(views))
	for _, v := range views {
		out = append(out, ElectionFromView(v, now))
	}
	return out
}

func relative(epochMillis uint64, now time.Time) string {
	const maxMillis = uint64(1<<63 - 1)
	if epochMillis > maxMillis {
		epochMillis = maxMillis
	}
	return humanize.RelTime(time.UnixMilli(int64(epochMillis)), now, "ago", "from now")
}
