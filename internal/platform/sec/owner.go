// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Decision is the outcome of an ownership check.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Authorize allows a mutation only when identity owns the resource.
// A nil identity or an empty owner is always denied.
func Authorize(identity *Identity, ownerID string) Decision {
	if identity == nil || identity.AccountID == "" || ownerID == "" {
		return Denied
	}
	if identity.AccountID == ownerID {
		return Allowed
	}
	return Denied
}
