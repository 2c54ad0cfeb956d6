package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Account is a login identity. The seeder provisions the first ones and
// admins manage the rest; there is no self registration.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"` // Never expose password hash
	Roles        []Role    `json:"roles"`
	Version      int       `json:"version"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// Constraints
const (
	MaxAccountNameLength = 100
	MinPasswordLength    = 8
)

// HasRole reports whether the account holds r
func (a *Account) HasRole(r Role) bool {
	return slices.Contains(a.Roles, r)
}

// RoleStrings returns the roles as plain strings for token claims
func (a *Account) RoleStrings() []string {
	out := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		out = append(out, string(r))
	}
	return out
}

// ParseRoles converts claim strings to roles, dropping unknown values
func ParseRoles(values []string) []Role {
	roles := make([]Role, 0, len(values))
	for _, v := range values {
		r := Role(strings.ToLower(strings.TrimSpace(v)))
		if r.IsValid() {
			roles = append(roles, r)
		}
	}
	return roles
}

// AccountDetail is an account plus the player it is linked to, if any
type AccountDetail struct {
	*Account
	PlayerID *string `json:"player_id,omitempty"`
}

// CreateAccountRequest is an admin creating a staff or player account
type CreateAccountRequest struct {
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// Validate checks request shape
func (r *CreateAccountRequest) Validate() []FieldError {
	var errors []FieldError
	email := strings.TrimSpace(r.Email)
	if email == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	} else if !IsValidEmail(email) {
		errors = append(errors, FieldError{Field: "email", Message: "email is not a valid address"})
	}
	errors = append(errors, validateAccountName(r.FullName)...)
	if runeLen(r.Password) < MinPasswordLength {
		errors = append(errors, FieldError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
		})
	}
	return append(errors, validateAssignableRoles(r.Roles)...)
}

// ToAccount builds the account to store; hash is the bcrypt password hash
func (r *CreateAccountRequest) ToAccount(hash string) *Account {
	return &Account{
		Email:        strings.ToLower(strings.TrimSpace(r.Email)),
		FullName:     strings.TrimSpace(r.FullName),
		PasswordHash: hash,
		Roles:        ParseRoles(r.Roles),
	}
}

// UpdateAccountRequest changes an account's name or roles. Nil fields are
// left as stored.
type UpdateAccountRequest struct {
	FullName *string  `json:"full_name,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Version  int      `json:"version"`
}

// Validate checks request shape
func (r *UpdateAccountRequest) Validate() []FieldError {
	var errors []FieldError
	if r.FullName != nil {
		errors = append(errors, validateAccountName(*r.FullName)...)
	}
	if r.Roles != nil {
		errors = append(errors, validateAssignableRoles(r.Roles)...)
	}
	if r.Version < 1 {
		errors = append(errors, FieldError{Field: "version", Message: "version is required"})
	}
	return errors
}

// ApplyTo copies the set fields onto a
func (r *UpdateAccountRequest) ApplyTo(a *Account) {
	if r.FullName != nil {
		a.FullName = strings.TrimSpace(*r.FullName)
	}
	if r.Roles != nil {
		a.Roles = ParseRoles(r.Roles)
	}
}

// UpdateProfileRequest is an account editing its own display name
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Version  int    `json:"version"`
}

// Validate checks request shape
func (r *UpdateProfileRequest) Validate() []FieldError {
	errors := validateAccountName(r.FullName)
	if r.Version < 1 {
		errors = append(errors, FieldError{Field: "version", Message: "version is required"})
	}
	return errors
}

func validateAccountName(name string) []FieldError {
	name = strings.TrimSpace(name)
	if name == "" {
		return []FieldError{{Field: "full_name", Message: "full name is required"}}
	}
	if runeLen(name) > MaxAccountNameLength {
		return []FieldError{{
			Field:   "full_name",
			Message: fmt.Sprintf("full name must be at most %d characters", MaxAccountNameLength),
		}}
	}
	return nil
}

// validateAssignableRoles accepts staff and player only. Admin accounts
// come from the seeder.
func validateAssignableRoles(values []string) []FieldError {
	if len(values) == 0 {
		return []FieldError{{Field: "roles", Message: "at least one role is required"}}
	}
	for _, v := range values {
		r := Role(strings.ToLower(strings.TrimSpace(v)))
		if r != RoleStaff && r != RolePlayer {
			return []FieldError{{Field: "roles", Message: fmt.Sprintf("role %q cannot be assigned", v)}}
		}
	}
	return nil
}

// LoginRequest represents an email/password login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks request shape
func (r *LoginRequest) Validate() []FieldError {
	var errors []FieldError
	if strings.TrimSpace(r.Email) == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	}
	if r.Password == "" {
		errors = append(errors, FieldError{Field: "password", Message: "password is required"})
	}
	return errors
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"` // Seconds
	Account     *Account `json:"account"`
}

// MeResponse describes the caller as the API sees them
type MeResponse struct {
	Account  *Account      `json:"account"`
	Kind     RequesterKind `json:"kind"`
	PlayerID *string       `json:"player_id,omitempty"`
}
