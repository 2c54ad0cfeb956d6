// Package handler provides HTTP request handlers for the Roster API.
//
// Each handler struct wraps the narrow service interface it needs
// (ContractService, PlayerService, TeamService, AccountService,
// DashboardService, AuthService), so tests substitute func-field mocks.
//
// # Handler Pattern
//
//   - Constructor function (NewXxxHandler) accepts its service
//   - The requester is read from context (middleware.GetRequester); the
//     service applies visibility and role rules
//   - Response helpers from response.go standardize output format
//   - Errors go through MapServiceError to RFC 9457 Problem Details
//
// # Response Format
//
//   - WriteData: {"data": ..., "_links": ...}
//   - WriteVersioned: WriteData plus ETag: "<version>" for single records
//   - WriteError: application/problem+json
//
// # Concurrency
//
// PATCH bodies carry the version the client read; DELETE accepts it in
// If-Match. A stale version yields 409 with code 3005.
package handler
