// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values come from three layers, later layers winning:

 1. a dotenv file (default .env, loaded with godotenv; a missing file is fine)
 2. environment variables (parsed with caarlos0/env struct tags)
 3. CLI flags that were given explicitly

godotenv never overwrites a variable that is already set, so the real
environment also beats the dotenv file.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite path or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AccountKeySalt: Secret for account key HMAC (required)
  - AdminName, AdminExternalID: administrator record (default: admin, 0)
  - AdminAccountID: administrator account; minted on first boot when empty

# CLI Flags and Environment Variables

	-p                  PORT
	-d                  DATABASE_URL
	-t                  DATABASE_TYPE
	-salt               ACCOUNT_KEY_SALT
	-admin-name         ADMIN_NAME
	-admin-external-id  ADMIN_EXTERNAL_ID
	-admin-id           ADMIN_ACCOUNT_ID
	-env-file           (dotenv path, "" to skip)

# Validation

ParseFlags returns an error if DATABASE_URL or ACCOUNT_KEY_SALT is missing,
the port is outside 1-65535, or the database type is unknown.
*/
package cliparse
