package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT with convenience accessors for authentication flows.
//
// It embeds [jwt.Token] for low-level operations and [jwt.RegisteredClaims]
// for standard claim access. SignedString holds the compact serialized form
// ready to be transmitted in the Authorization header; UserID is a parsed
// copy of the "sub" claim so handlers do not repeat string-to-int parsing.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`
}

// GetUserID extracts the user identifier from the token's "sub" claim and
// parses it as a base-10 int64.
func (t *Token) GetUserID() (int64, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting user id from token: %w", err)
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting token subject to int64: %w", err)
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token. It implements
// [fmt.Stringer].
func (t *Token) String() string {
	return t.SignedString
}
