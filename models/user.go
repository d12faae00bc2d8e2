package models

import "time"

// User represents an account used for authentication. One account owns all
// synchronized collections; there is no sharing between accounts.
type User struct {
	// UserID is the internal unique identifier of the user, assigned by the
	// server at registration.
	UserID int64 `json:"-"`

	// Login is the unique account identifier used during authentication.
	Login string `json:"login"`

	// Password carries the plaintext password on register/login requests
	// only. It is never stored; the server keeps an argon2id hash.
	Password string `json:"password,omitempty"`

	// PasswordHash is the encoded argon2id hash kept at the persistence
	// layer. Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the account creation timestamp, used for auditing.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table associated with the User
// model.
func (u User) TableName() string {
	return "users"
}
