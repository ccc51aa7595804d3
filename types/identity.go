package types

import "discounts/constants"

// Identity is the caller of a request. The zero value is an anonymous caller.
type Identity struct {
	UserID        uint   `json:"userId"`
	Role          string `json:"role"`
	Authenticated bool   `json:"authenticated"`
}

// Anonymous returns the identity of an unauthenticated caller
func Anonymous() Identity {
	return Identity{}
}

// IsStaff reports whether the caller may change the catalog
func (i Identity) IsStaff() bool {
	if !i.Authenticated {
		return false
	}
	return i.Role == constants.RoleAdmin || i.Role == constants.RolePartner
}
