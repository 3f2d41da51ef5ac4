// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Elect API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc)

# Endpoints

Open:

	GET  /health   - Liveness
	GET  /         - API banner
	POST /accounts - Mint an account id and key

Registry (X-Account-ID and X-Account-Key required):

	POST /registry/requests                   - Ask to be registered
	GET  /registry/requests                   - Pending registrations (admin)
	POST /registry/requests/{account}/approve - Approve a registration (admin)
	POST /registry/admin                      - Hand over the admin role (admin)

Elections (credentials required):

	POST /elections                                  - Schedule (admin)
	GET  /elections                                  - Live elections
	GET  /elections/history                          - Finalized, then live
	GET  /elections/{id}/results                     - Ranked results (finalized only)
	POST /elections/{id}/finalize                    - Finalize (admin, closed only)
	POST /elections/{id}/requests                    - Request a voter or candidate role
	GET  /elections/{id}/candidates/pending          - Pending candidates (admin)
	GET  /elections/{id}/voters/pending              - Pending voters (admin)
	POST /elections/{id}/candidates/{external_id}/approve - Approve a candidate (admin)
	POST /elections/{id}/voters/{external_id}/approve     - Approve a voter (admin)
	POST /elections/{id}/ballots                     - Cast a ballot

# Middleware

Every route except /health and / is wrapped in middleware.WithLogging.
Authenticated routes additionally pass through middleware.RequireAccount,
which stores the caller identity on the request context.
*/
package router
