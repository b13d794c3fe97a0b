package domain

import (
	"strings"
	"time"
)

// RefreshToken is a persisted, single-use refresh credential.
type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the token has expired.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// TokenPair is what a successful login, verification or refresh hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenClaims is the identity payload carried by both token kinds.
type TokenClaims struct {
	UserID string
	Email  string
	Role   Role
}

// LoginKind tells which identifier a login attempt uses.
type LoginKind int

const (
	LoginByEmail LoginKind = iota + 1
	LoginByPhone
)

// LoginIdentifier is either an email or a phone number, never both.
type LoginIdentifier struct {
	Kind  LoginKind
	Value string
}

// NewLoginIdentifier picks exactly one of email and phone. ok is false when
// neither or both were supplied.
func NewLoginIdentifier(email, phone string) (LoginIdentifier, bool) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	switch {
	case email != "" && phone == "":
		return LoginIdentifier{Kind: LoginByEmail, Value: strings.ToLower(email)}, true
	case phone != "" && email == "":
		return LoginIdentifier{Kind: LoginByPhone, Value: phone}, true
	}
	return LoginIdentifier{}, false
}

// AuthResult bundles the profile with its freshly minted tokens.
type AuthResult struct {
	User   *User
	Tokens TokenPair
}

// SignupOutcome describes what a public signup produced: either a queued
// request (privileged roles) or a new unverified profile.
type SignupOutcome struct {
	Request *SignupRequest
	User    *User
}
