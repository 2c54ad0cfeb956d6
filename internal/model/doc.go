// Package model defines domain entities and data structures for the Roster API.
//
// # Domain Entities
//
//   - Player: an athlete, optionally linked to a login Account
//   - Team: a club
//   - Contract: binds one Player to one Team for a [start, end] date window
//   - Account: a login identity holding one or more Roles
//
// # Temporal Status
//
// A contract's status is derived, never stored. ClassifyContract compares the
// window with a reference date at day granularity (UTC); both ends are
// inclusive, so a contract starting or ending today is active:
//
//	status := model.ClassifyContract(c.StartDate, c.EndDate, model.DateOf(time.Now()))
//
// # Requesters
//
// Requester is a closed set of variants (anonymous, player, staff, admin)
// produced by ResolveRequester from an account's roles. Policy code switches
// on the concrete type instead of inspecting role strings.
//
// # Validation
//
// Entities expose Validate() []FieldError for their own invariants. Request
// types validate wire shape (required fields, date formats) and are converted
// with ToX / ApplyTo before the entity check runs.
//
// # Errors
//
// ProblemDetails implements RFC 9457 and is what handlers write on failure.
package model
