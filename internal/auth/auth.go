// Package auth checks the fixed operator accounts and maps bearer tokens back
// to them. Tokens are static per account and never expire.
package auth

import (
	"net/http"
	"strings"

	"hostelpass/internal/crypto"
	"hostelpass/internal/errors"
)

type Role string

const (
	RoleViewer Role = "viewer"
	RoleAdmin  Role = "admin"
)

// Credentials describe an account before its password is hashed.
type Credentials struct {
	Username string
	Password string
	Name     string
	Role     Role
	Token    string
}

// Account is a loaded operator account.
type Account struct {
	Username     string `json:"-"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	Token        string `json:"token"`
}

var (
	ErrInvalidCredentials = errors.New(errors.ErrUnauthorized, "Invalid credentials")
	ErrMissingToken       = errors.New(errors.ErrUnauthorized, "Missing or unknown token")
	ErrForbidden          = errors.New(errors.ErrForbidden, "Insufficient role")
)

// DefaultCredentials are the built-in warden and admin accounts.
func DefaultCredentials() []Credentials {
	return []Credentials{
		{Username: "warden", Password: "hostel123", Name: "Hostel Warden", Role: RoleViewer, Token: "warden-demo-token"},
		{Username: "admin", Password: "admin123", Name: "Hostel Admin", Role: RoleAdmin, Token: "admin-demo-token"},
	}
}

type Authenticator struct {
	accounts []Account
}

// NewAuthenticator hashes each password once and keeps only the hash.
func NewAuthenticator(creds []Credentials) (*Authenticator, error) {
	a := &Authenticator{accounts: make([]Account, 0, len(creds))}
	for _, c := range creds {
		hash, err := crypto.HashPassword(c.Password)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "hash password for %s", c.Username)
		}
		a.accounts = append(a.accounts, Account{
			Username:     c.Username,
			PasswordHash: hash,
			Name:         c.Name,
			Role:         c.Role,
			Token:        c.Token,
		})
	}
	return a, nil
}

// Login returns the account matching username and password.
func (a *Authenticator) Login(username, password string) (Account, error) {
	for _, acc := range a.accounts {
		if acc.Username == username && crypto.CheckPasswordHash(password, acc.PasswordHash) {
			return acc, nil
		}
	}
	return Account{}, ErrInvalidCredentials
}

// AccountForToken looks up the account owning token.
func (a *Authenticator) AccountForToken(token string) (Account, bool) {
	if token == "" {
		return Account{}, false
	}
	for _, acc := range a.accounts {
		if acc.Token == token {
			return acc, true
		}
	}
	return Account{}, false
}

// Authorize resolves the request's bearer token and checks it carries role.
func (a *Authenticator) Authorize(r *http.Request, role Role) (Account, error) {
	acc, ok := a.AccountForToken(ExtractToken(r))
	if !ok {
		return Account{}, ErrMissingToken
	}
	if role == RoleAdmin && acc.Role != RoleAdmin {
		return Account{}, ErrForbidden
	}
	return acc, nil
}

// ExtractToken returns the bearer token from the Authorization header.
func ExtractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
