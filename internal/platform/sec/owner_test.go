// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bloglist/internal/platform/sec"
)

func TestAuthorize(t *testing.T) {
	owner := &sec.Identity{AccountID: "owner-1", Username: "owner"}
	stranger := &sec.Identity{AccountID: "stranger-1", Username: "stranger"}

	tests := []struct {
		name     string
		identity *sec.Identity
		ownerID  string
		want     sec.Decision
	}{
		{"owner", owner, "owner-1", sec.Allowed},
		{"stranger", stranger, "owner-1", sec.Denied},
		{"anonymous", nil, "owner-1", sec.Denied},
		{"empty_identity", &sec.Identity{}, "", sec.Denied},
		{"missing_owner", owner, "", sec.Denied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.Authorize(tt.identity, tt.ownerID))
		})
	}
}
