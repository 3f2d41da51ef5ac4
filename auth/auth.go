// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingCredentials = errors.New("missing account credentials")
	ErrInvalidAccountKey  = errors.New("invalid account key")
)

// AccountIDBytes is the entropy of a minted account id
const AccountIDBytes = 16

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAccountKey derives the secret that proves ownership of an account id.
// It is deterministic, so keys are never stored.
func GenerateAccountKey(accountID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(accountID))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAccountKey checks the key presented for accountID
func ValidateAccountKey(accountID, accountKey, salt string) error {
	if accountID == "" || accountKey == "" {
		return ErrMissingCredentials
	}
	expected := GenerateAccountKey(accountID, salt)
	if !hmac.Equal([]byte(accountKey), []byte(expected)) {
		return ErrInvalidAccountKey
	}
	return nil
}

// MintAccount creates a fresh account id and its key
func MintAccount(salt string) (id, key string, err error) {
	id, err = GenerateID(AccountIDBytes)
	if err != nil {
		return "", "", err
	}
	return id, GenerateAccountKey(id, salt), nil
}

// HashIP creates a one-way hash of an IP address for logs
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}
