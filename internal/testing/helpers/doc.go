// Package helpers provides test utilities for the Roster API.
//
// # JWT Helpers
//
// Mint tokens for seeded or fixture accounts:
//
//	jh := helpers.NewJWTHelper(t)
//	token := jh.TokenFor(t, admin)
//
// # Request Builder
//
//	req := helpers.NewRequest(t, http.MethodPost, "/v1/teams").
//	    WithToken(token).
//	    WithBody(body).
//	    Build()
//
// # Assertion Helpers
//
//	helpers.AssertStatus(t, rec, http.StatusOK)
//	helpers.AssertProblemDetails(t, rec, http.StatusConflict, model.ErrCodeReferentialConflict)
//	helpers.AssertValidationError(t, rec, "end_date")
//	helpers.DecodeData(t, rec, &team)
package helpers
