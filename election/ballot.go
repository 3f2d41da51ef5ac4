// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"math"
	"slices"
	"sort"
)

// CastVote records one ballot from caller for the approved candidate with
// the given external id.
func (e *Engine) CastVote(caller Identity, id uint64, candidate string, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.requireUser(caller)
	if err != nil {
		return err
	}
	idx, err := e.lookup(id, PhaseVoting, now)
	if err != nil {
		return err
	}

	el := e.live[idx]
	if indexByIdentity(el.VotedVoters, user.Identity) >= 0 {
		return ErrAlreadyVoted
	}

	voterPos := indexByIdentity(el.ApprovedVoters, user.Identity)
	if voterPos < 0 {
		if indexByIdentity(el.PendingVoters, user.Identity) >= 0 {
			return ErrVoterNotApproved
		}
		return ErrVoterNotFound
	}

	candidatePos := indexByExternalID(el.ApprovedCandidates, candidate)
	if candidatePos < 0 {
		if indexByExternalID(el.PendingCandidates, candidate) >= 0 {
			return ErrCandidateNotApproved
		}
		return ErrCandidateNotFound
	}

	// Both effects or neither.
	if el.Tally[candidatePos].Votes == math.MaxUint64 {
		return ErrVoteCeiling
	}
	el.Tally[candidatePos].Votes++
	el.VotedVoters = append(el.VotedVoters, el.ApprovedVoters[voterPos])
	e.version++
	return nil
}

// Finalize closes the books on an election past its end date, moves it to
// the history and returns the winner. An election without candidates
// returns EmptyResult.
func (e *Engine) Finalize(caller Identity, id uint64, now uint64) (CandidateVotes, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return CandidateVotes{}, err
	}
	idx, err := e.lookup(id, PhaseClosed, now)
	if err != nil {
		return CandidateVotes{}, err
	}

	el := e.live[idx]
	e.live = slices.Delete(e.live, idx, idx+1)
	e.finalized = append(e.finalized, el)
	e.version++

	if len(el.Tally) == 0 {
		return EmptyResult, nil
	}

	sort.SliceStable(el.Tally, func(i, j int) bool {
		return el.Tally[i].Votes < el.Tally[j].Votes
	})
	slices.Reverse(el.Tally)
	return el.Tally[0], nil
}
