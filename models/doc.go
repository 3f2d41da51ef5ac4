// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and projection types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: name, external_id
  - DelegateAdminRequest: account_id, name, external_id
  - CreateElectionRequest: office, start, end (civil dates)
  - RoleRequest: role ("voter" or "candidate")
  - BallotRequest: candidate (external id)

# Response Types

  - CreateAccountResponse: account_id, account_key
  - CreateElectionResponse: election_id
  - FinalizeResponse: election_id, winner, empty
  - ResultsResponse: election_id, results
  - ErrorResponse: error, message, code

# Projections

Election and CandidateResult wrap the engine's read-only views. Both carry a
human-readable rendering beside the raw numbers:

	models.ElectionFromView(view, time.Now())

gives "starts": "3 days from now" and "votes_text": "1,204".
*/
package models
