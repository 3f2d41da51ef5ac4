// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the election lifecycle engine.

# Engine

Engine owns every live and finalized election plus the election id counter.
All access goes through its methods, which take the caller identity and the
current time in epoch milliseconds:

	engine := election.NewEngine(directory)
	id, err := engine.CreateElection(admin, "Mayor", start, end, now)

Each method holds the engine lock for its whole duration, so every operation
is one atomic step for other callers. Returned values are copies.

# Phases

The phase of a live election is derived from its schedule on every call:

	now < start          → registration
	start <= now < end   → voting
	now >= end           → closed

Finalize moves a closed election to the historical set, after which it always
reports finalized.

# Roster

Each election keeps four ordered lists: pending and approved voters, pending
and approved candidates. An identity sits in at most one of them. Users ask
for a role with RequestRole during registration; the administrator moves them
to the approved list by external id with ApproveVoter or ApproveCandidate.
Approving a candidate creates its zero tally entry in the same step.

# Ballots

CastVote accepts one vote per approved voter for an approved candidate while
the election is voting. Counts never wrap: a count at its ceiling rejects the
vote and leaves the roster untouched.

# Finalization

Finalize sorts the tally ascending by votes with a stable sort and reverses
it. Ties therefore end up in reverse approval order.

# Permissions

The engine consults a Directory, implemented by the registry package, to
tell the administrator apart from approved users.
*/
package election
