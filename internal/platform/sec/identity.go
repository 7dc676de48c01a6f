// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Identity is the live account a request acts as.
//
// It is built by the identity middleware after the token subject has been
// resolved against the account store, never from token claims alone.
type Identity struct {
	AccountID   string
	Username    string
	DisplayName string
}
