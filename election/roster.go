// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "slices"

// RequestRole queues the caller for role in a registering election
func (e *Engine) RequestRole(caller Identity, id uint64, role Role, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, err := e.requireUser(caller)
	if err != nil {
		return err
	}
	idx, err := e.lookup(id, PhaseRegistration, now)
	if err != nil {
		return err
	}

	el := e.live[idx]
	if err := rosterConflict(el, user.Identity); err != nil {
		return err
	}

	list := el.roster(role, false)
	*list = append(*list, user)
	e.version++
	return nil
}

// rosterConflict reports the first list holding id, in the order pending
// voters, approved voters, pending candidates, approved candidates.
func rosterConflict(el *Election, id Identity) error {
	for _, slot := range []RoleConflictError{
		{Role: RoleVoter, Approved: false},
		{Role: RoleVoter, Approved: true},
		{Role: RoleCandidate, Approved: false},
		{Role: RoleCandidate, Approved: true},
	} {
		if indexByIdentity(*el.roster(slot.Role, slot.Approved), id) >= 0 {
			return &slot
		}
	}
	return nil
}

// ApproveCandidate moves a pending candidate to the approved list and opens
// its tally entry.
func (e *Engine) ApproveCandidate(caller Identity, id uint64, externalID string, now uint64) error {
	return e.approve(caller, id, RoleCandidate, externalID, now)
}

// ApproveVoter moves a pending voter to the approved list
func (e *Engine) ApproveVoter(caller Identity, id uint64, externalID string, now uint64) error {
	return e.approve(caller, id, RoleVoter, externalID, now)
}

func (e *Engine) approve(caller Identity, id uint64, role Role, externalID string, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	idx, err := e.lookup(id, PhaseRegistration, now)
	if err != nil {
		return err
	}

	el := e.live[idx]
	pending := el.roster(role, false)
	approved := el.roster(role, true)

	pos := indexByExternalID(*pending, externalID)
	if pos < 0 {
		if indexByExternalID(*approved, externalID) >= 0 {
			return &RoleConflictError{Role: role, Approved: true}
		}
		if role == RoleCandidate {
			return ErrCandidateNotFound
		}
		return ErrVoterNotFound
	}

	user := (*pending)[pos]
	*pending = slices.Delete(*pending, pos, pos+1)
	*approved = append(*approved, user)
	if role == RoleCandidate {
		el.Tally = append(el.Tally, CandidateVotes{Name: user.Name, Identifier: user.ExternalID})
	}
	e.version++
	return nil
}

// PendingCandidates lists the candidate requests of a registering election
func (e *Engine) PendingCandidates(caller Identity, id uint64, now uint64) ([]User, error) {
	return e.pending(caller, id, RoleCandidate, now)
}

// PendingVoters lists the voter requests of a registering election
func (e *Engine) PendingVoters(caller Identity, id uint64, now uint64) ([]User, error) {
	return e.pending(caller, id, RoleVoter, now)
}

func (e *Engine) pending(caller Identity, id uint64, role Role, now uint64) ([]User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return nil, err
	}
	idx, err := e.lookup(id, PhaseRegistration, now)
	if err != nil {
		return nil, err
	}

	users := slices.Clone(*e.live[idx].roster(role, false))
	if users == nil {
		users = []User{}
	}
	return users, nil
}
