// Package jwt issues and validates RS256 access tokens for the Roster API.
//
// Tokens carry the account id, email and role set of the caller:
//
//	svc, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    Issuer:         "roster.forgo.software",
//	    ExpirationMins: 60,
//	})
//	token, err := svc.Sign(jwt.Claims{AccountID: id, Roles: []string{jwt.RoleStaff}})
//	claims, err := svc.Validate(token)
//
// Validation errors are normalized to the package sentinels
// (ErrTokenExpired, ErrInvalidSignature, ErrInvalidToken, ...).
package jwt
