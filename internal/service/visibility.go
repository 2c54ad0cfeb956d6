package service

import (
	"time"

	"github.com/forgo/roster/internal/model"
)

// Clock returns the current instant. Services reduce it to a calendar day
// with model.DateOf before classifying contracts.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// IsContractVisible reports whether the requester may see the contract on
// the given day:
//
//   - anonymous: active contracts only
//   - player: the linked player's own contracts, any status
//   - staff, admin: everything
func IsContractVisible(r model.Requester, c *model.Contract, today time.Time) bool {
	switch v := r.(type) {
	case model.AdminRequester, model.StaffRequester:
		return true
	case model.PlayerRequester:
		return v.PlayerID != "" && c.PlayerID == v.PlayerID
	default:
		return c.StatusAt(today) == model.ContractStatusActive
	}
}

// VisibleContracts narrows contracts to what the requester may see. The
// status filter applies to staff and admin only; anonymous and player
// requesters always get their full visible set. The input is not modified.
func VisibleContracts(r model.Requester, filter *model.ContractStatus, contracts []*model.Contract, today time.Time) []*model.Contract {
	out := make([]*model.Contract, 0, len(contracts))
	privileged := model.IsPrivileged(r)
	for _, c := range contracts {
		if !IsContractVisible(r, c, today) {
			continue
		}
		if privileged && filter != nil && c.StatusAt(today) != *filter {
			continue
		}
		out = append(out, c)
	}
	return out
}

// AuthorizeContract returns ErrContractForbidden when the requester may not
// see an existing contract
func AuthorizeContract(r model.Requester, c *model.Contract, today time.Time) error {
	if !IsContractVisible(r, c, today) {
		return ErrContractForbidden
	}
	return nil
}
