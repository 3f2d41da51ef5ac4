// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Elect API.

# Handler Types

Each handler is a struct over the shared Service:

  - AccountHandler: account minting and the user registry
  - ElectionHandler: scheduling, listings, results and finalization
  - RosterHandler: role requests, role approval and ballots

The Service holds the election engine, the registry, the store, the
configuration and the clock:

	svc := &handlers.Service{Engine: engine, Registry: reg, Store: store, Config: cfg}
	electionHandler := handlers.NewElectionHandler(svc)

# Election Lifecycle

An election's phase follows from the clock and its schedule:

	registration → voting (at start) → closed (at end) → finalized

	POST /elections                 → Create (admin)
	POST /elections/{id}/requests   → RequestRole (registration only)
	POST /elections/{id}/ballots    → CastVote (voting only)
	POST /elections/{id}/finalize   → Finalize (closed only)

# Persistence

Every successful mutation writes a snapshot of the state it touched through
the Store before answering. A failed write answers 500; the in-memory state
keeps the change and the next successful write carries it.

# Errors

Engine errors map to a status by kind and carry a stable code:

	403 not_admin, users_only, user_not_approved, ...
	404 election_not_found, candidate_not_found, voter_not_approved, ...
	409 election_<phase>, <role>_already_<approved|pending>, already_voted, no_results
	400 invalid_start_date, end_before_start, start_passed, ...
	507 election_ids_exhausted, vote_ceiling
*/
package handlers
