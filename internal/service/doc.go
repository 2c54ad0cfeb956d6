// Package service implements the business logic layer for the Roster API.
//
// Services sit between HTTP handlers and storage. They classify contracts
// in time, apply the visibility policy for the resolved requester, check
// references and versions on writes, and build the dashboard aggregates.
//
// # Service Pattern
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Every operation takes the Requester first and checks privilege before touching storage
//   - Errors are sentinel values or *ValidationError / *ReferentialConflictError
//   - Context is passed through for cancellation
//
// # Repository Interfaces
//
// Services declare the storage interfaces they need (PlayerRepository,
// TeamRepository, ContractRepository, AccountRepository). Both the SurrealDB
// repositories and the GORM store satisfy them, and tests use func-field
// mocks.
//
// # Reference Date
//
// "Today" comes from the injected Clock, truncated to a UTC date, and is read
// once per operation so one response never straddles midnight.
//
// # Example Usage
//
//	contracts := NewContractService(ContractServiceConfig{
//	    ContractRepo: contractRepo,
//	    PlayerRepo:   playerRepo,
//	    TeamRepo:     teamRepo,
//	})
//	views, err := contracts.List(ctx, requester, nil)
package service
