// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto provides password hashing for the authentication layer.
//
// Passwords are hashed with Argon2id and stored in the PHC string format
// ($argon2id$v=19$m=...,t=...,p=...$salt$hash) so that the tuning
// parameters travel with every stored hash and can be changed without
// invalidating existing accounts.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/password_hasher_mock.go -package=mock

// PasswordHasher defines hashing and verification of account passwords.
type PasswordHasher interface {
	// Hash derives an Argon2id hash of password with a fresh random salt
	// and returns it in the PHC encoded form. Returns an error if the salt
	// cannot be generated.
	Hash(password string) (string, error)

	// Verify re-derives the hash of password using the parameters and salt
	// embedded in encoded and compares the result in constant time.
	// Returns true when the password matches.
	Verify(password, encoded string) (bool, error)
}
