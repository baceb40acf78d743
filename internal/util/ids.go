// internal/util/ids.go
// Generator ID untuk request/audit/notifikasi

package util

import (
	"github.com/google/uuid"
)

func NewID() string {
	return uuid.New().String()
}

// StableID menghasilkan UUID v5 deterministik dari key (dedup alert worker).
func StableID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
