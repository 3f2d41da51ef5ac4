// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Elect API server.

Quickly Elect runs scheduled single-choice elections for a permissioned
registry of users. An administrator approves users, schedules elections,
approves each election's candidates and voters, and finalizes elections
once they close.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=elect.db ACCOUNT_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -salt ...

Settings are also read from a .env file (-env-file, default ".env").

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string
  - ACCOUNT_KEY_SALT (-salt): Secret for account key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ADMIN_NAME, ADMIN_EXTERNAL_ID: The administrator's roster record
  - ADMIN_ACCOUNT_ID (-admin-id): Administrator account on first boot.
    When empty one is minted and its key is logged once.

# Architecture

  - election: The lifecycle engine (phases, rosters, ballots, tallies)
  - registry: Administrator, approved users and the approval queue
  - calendar: Calendar dates and epoch milliseconds
  - handlers: HTTP request handlers over a shared Service
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, request ids, account authentication
  - models: Request/response types and projections
  - auth: Account ids and keys
  - db: Drivers, schema and snapshot persistence
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
