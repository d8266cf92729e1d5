// Package model defines the data types exchanged between the HTTP layer, services and repositories.
package model

import (
	"errors"
	"strings"
)

// User is a row of the user table. Password holds the stored plaintext value and is never serialized.
type User struct {
	ID       int64  `json:"id"    db:"id"`
	Name     string `json:"name"  db:"name"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-"     db:"password"`
	Level    int    `json:"level" db:"level"`
}

// LoginRequest carries the credentials posted to /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate ensures both credentials are present.
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

// LoginResult is the user profile returned on a successful login together with the jobs linked to the user.
type LoginResult struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Level int    `json:"level"`
	Jobs  []*Job `json:"jobs"`
}

// NewLoginResult builds a LoginResult, normalizing a nil job slice to an empty one.
func NewLoginResult(u *User, jobs []*Job) *LoginResult {
	if jobs == nil {
		jobs = []*Job{}
	}
	return &LoginResult{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Level: u.Level,
		Jobs:  jobs,
	}
}
