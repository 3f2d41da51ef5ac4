// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth mints account credentials and checks them.

# Accounts

An account id is a random hex string. Its key is an HMAC-SHA256 of the id
under the server salt:

	id, key, err := auth.MintAccount(salt)
	err = auth.ValidateAccountKey(id, key, salt)

Keys are URL-safe base64 without padding. The same id and salt always give
the same key, so the server validates keys without storing them. The account
id is the caller identity the election engine sees.

# IP Hashing

Client addresses are logged only as salted hashes:

	hash := auth.HashIP(ipAddress, salt)

Returns the first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
