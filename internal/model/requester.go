package model

import "slices"

// Role is an account role
type Role string

const (
	RoleAdmin  Role = "admin"  // Full access including deletes and analytics
	RoleStaff  Role = "staff"  // Create and edit players, teams and contracts
	RolePlayer Role = "player" // Sees own contracts only
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff || r == RolePlayer
}

// RequesterKind names the resolved privilege tier of a requester
type RequesterKind string

const (
	RequesterAnonymous RequesterKind = "anonymous"
	RequesterPlayer    RequesterKind = "player"
	RequesterStaff     RequesterKind = "staff"
	RequesterAdmin     RequesterKind = "admin"
)

// Requester is the resolved identity of whoever issued a request. The set of
// implementations is closed: AnonymousRequester, PlayerRequester,
// StaffRequester and AdminRequester.
type Requester interface {
	Kind() RequesterKind
	sealed()
}

// AnonymousRequester is an unauthenticated caller, or an authenticated
// account holding none of the known roles
type AnonymousRequester struct{}

// PlayerRequester is an account whose only role is player. PlayerID is empty
// when no player record is linked to the account.
type PlayerRequester struct {
	AccountID string
	PlayerID  string
}

// StaffRequester is an account holding the staff role (and not admin)
type StaffRequester struct {
	AccountID string
}

// AdminRequester is an account holding the admin role
type AdminRequester struct {
	AccountID string
}

func (AnonymousRequester) Kind() RequesterKind { return RequesterAnonymous }
func (PlayerRequester) Kind() RequesterKind    { return RequesterPlayer }
func (StaffRequester) Kind() RequesterKind     { return RequesterStaff }
func (AdminRequester) Kind() RequesterKind     { return RequesterAdmin }

func (AnonymousRequester) sealed() {}
func (PlayerRequester) sealed()    {}
func (StaffRequester) sealed()     {}
func (AdminRequester) sealed()     {}

// ResolveRequester picks the most permissive tier the roles grant:
// admin over staff over player. linkedPlayerID is consulted only for the
// player tier.
func ResolveRequester(accountID string, roles []Role, linkedPlayerID string) Requester {
	if accountID == "" {
		return AnonymousRequester{}
	}
	switch {
	case slices.Contains(roles, RoleAdmin):
		return AdminRequester{AccountID: accountID}
	case slices.Contains(roles, RoleStaff):
		return StaffRequester{AccountID: accountID}
	case slices.Contains(roles, RolePlayer):
		return PlayerRequester{AccountID: accountID, PlayerID: linkedPlayerID}
	default:
		return AnonymousRequester{}
	}
}

// IsPrivileged reports whether the requester sees the unrestricted contract set
func IsPrivileged(r Requester) bool {
	switch r.(type) {
	case AdminRequester, StaffRequester:
		return true
	default:
		return false
	}
}

// CanWrite reports whether the requester may create or edit records
func CanWrite(r Requester) bool {
	return IsPrivileged(r)
}

// CanDelete reports whether the requester may delete records
func CanDelete(r Requester) bool {
	_, ok := r.(AdminRequester)
	return ok
}

// CanManageAccounts reports whether the requester may administer accounts
func CanManageAccounts(r Requester) bool {
	_, ok := r.(AdminRequester)
	return ok
}

// RequesterAccountID returns the account behind a requester, or "" for anonymous
func RequesterAccountID(r Requester) string {
	switch v := r.(type) {
	case PlayerRequester:
		return v.AccountID
	case StaffRequester:
		return v.AccountID
	case AdminRequester:
		return v.AccountID
	default:
		return ""
	}
}
