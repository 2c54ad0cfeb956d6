// Package fixtures provides test data factories for store tests.
//
// A Factory writes through the repositories' Create methods, so the same
// fixtures serve the SurrealDB repositories and the SQL store:
//
//	f := fixtures.New(fixtures.Store{
//	    Accounts:  repository.NewAccountRepository(db),
//	    Players:   repository.NewPlayerRepository(db),
//	    Teams:     repository.NewTeamRepository(db),
//	    Contracts: repository.NewContractRepository(db),
//	})
//	team := f.CreateTeam(t, "FC Porto")
//	player := f.CreatePlayer(t, fixtures.LinkedTo(account))
//	f.CreateContract(t, player, team, start, end, nil)
//
// Fixture accounts all use DefaultPassword.
package fixtures
