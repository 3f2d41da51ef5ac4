// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"math"
	"slices"
	"sync"

	"github.com/danielhkuo/quickly-elect/calendar"
)

// Engine owns the live and finalized elections and the id counter
type Engine struct {
	mu        sync.Mutex
	dir       Directory
	live      []*Election
	finalized []*Election
	nextID    uint64
	version   uint64
}

// NewEngine returns an empty engine that checks callers against dir
func NewEngine(dir Directory) *Engine {
	return &Engine{dir: dir}
}

// CreateElection schedules a new election and returns its id.
// now is the current time in epoch milliseconds.
func (e *Engine) CreateElection(caller Identity, office string, start, end calendar.Date, now uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return 0, err
	}
	if err := start.Validate(); err != nil {
		return 0, startDateError(err)
	}
	if err := end.Validate(); err != nil {
		return 0, endDateError(err)
	}

	startMillis := start.ToEpochMillis()
	endMillis := end.ToEpochMillis()
	if endMillis <= startMillis {
		return 0, ErrEndBeforeStart
	}
	if startMillis <= now {
		return 0, ErrStartPassed
	}
	if endMillis <= now {
		return 0, ErrEndPassed
	}
	if e.nextID == math.MaxUint64 {
		return 0, ErrIDExhausted
	}

	id := e.nextID
	e.live = append(e.live, &Election{
		ID:          id,
		Office:      office,
		StartMillis: startMillis,
		EndMillis:   endMillis,
		StartDate:   start,
		EndDate:     end,
	})
	e.nextID++
	e.version++
	return id, nil
}

// ListCurrent returns every live election with its derived phase
func (e *Engine) ListCurrent(caller Identity, now uint64) ([]ElectionView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireMember(caller); err != nil {
		return nil, err
	}
	return e.liveViews(now), nil
}

// ListHistory returns the finalized elections with their ranked tallies,
// followed by the live ones.
func (e *Engine) ListHistory(caller Identity, now uint64) ([]ElectionView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireMember(caller); err != nil {
		return nil, err
	}

	views := make([]ElectionView, 0, len(e.finalized)+len(e.live))
	for _, el := range e.finalized {
		views = append(views, el.view(PhaseFinalized, true))
	}
	return append(views, e.liveViews(now)...), nil
}

// Results returns the ranked tally of a finalized election
func (e *Engine) Results(caller Identity, id uint64) ([]CandidateVotes, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireMember(caller); err != nil {
		return nil, err
	}
	for _, el := range e.finalized {
		if el.ID == id {
			tally := slices.Clone(el.Tally)
			if tally == nil {
				tally = []CandidateVotes{}
			}
			return tally, nil
		}
	}
	if slices.ContainsFunc(e.live, func(el *Election) bool { return el.ID == id }) {
		return nil, ErrNoResults
	}
	return nil, ErrElectionNotFound
}

func (e *Engine) liveViews(now uint64) []ElectionView {
	views := make([]ElectionView, 0, len(e.live))
	for _, el := range e.live {
		views = append(views, el.view(el.Phase(now), false))
	}
	return views
}

// lookup finds a live election and checks it is in the expected phase.
// Ids below the counter that are no longer live were finalized.
func (e *Engine) lookup(id uint64, expected Phase, now uint64) (int, error) {
	if e.nextID == 0 || id > e.nextID-1 {
		return -1, ErrElectionNotFound
	}
	idx := slices.IndexFunc(e.live, func(el *Election) bool { return el.ID == id })
	if idx < 0 {
		return -1, &PhaseError{Actual: PhaseFinalized}
	}
	if actual := e.live[idx].Phase(now); actual != expected {
		return -1, &PhaseError{Actual: actual}
	}
	return idx, nil
}

// Snapshot is a deep copy of the engine state
type Snapshot struct {
	Live      []Election `json:"live"`
	Finalized []Election `json:"finalized"`
	NextID    uint64     `json:"next_id"`
	Version   uint64     `json:"version"`
}

// Snapshot copies the current state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Live:      make([]Election, 0, len(e.live)),
		Finalized: make([]Election, 0, len(e.finalized)),
		NextID:    e.nextID,
		Version:   e.version,
	}
	for _, el := range e.live {
		s.Live = append(s.Live, el.clone())
	}
	for _, el := range e.finalized {
		s.Finalized = append(s.Finalized, el.clone())
	}
	return s
}

// Restore replaces the engine state with s
func (e *Engine) Restore(s Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.live = make([]*Election, 0, len(s.Live))
	for i := range s.Live {
		el := s.Live[i].clone()
		e.live = append(e.live, &el)
	}
	e.finalized = make([]*Election, 0, len(s.Finalized))
	for i := range s.Finalized {
		el := s.Finalized[i].clone()
		e.finalized = append(e.finalized, &el)
	}
	e.nextID = s.NextID
	e.version = s.Version
}
