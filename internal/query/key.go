package query

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key identifies a cached request. Components are compared by their JSON
// encoding, so Key{"todoById", 1} and Key{"todoById", "1"} are different
// entries while map components hash the same regardless of insertion order.
type Key []any

// String returns the canonical JSON form of the key.
func (k Key) String() string {
	b, err := json.Marshal([]any(k))
	if err != nil {
		return fmt.Sprintf("%v", []any(k))
	}
	return string(b)
}

// Hash returns the SHA-256 hex digest of the canonical form.
func (k Key) Hash() string {
	sum := sha256.Sum256([]byte(k.String()))
	return hex.EncodeToString(sum[:])
}
