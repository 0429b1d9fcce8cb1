package core

import (
	"encoding/json"
	"hash/fnv"
)

// hashBytes is a stable change-detection hash (not cryptographic).
// Empty input hashes to 0.
func hashBytes(b []byte) uint64 {
	if len(b) == 0 {
		return 0
	}
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// canonicalHashJSON hashes a JSON blob in re-marshaled form, so key order
// and whitespace do not produce spurious "changed" signals during config
// reload. Invalid JSON degrades to a raw byte hash.
func canonicalHashJSON(raw json.RawMessage) uint64 {
	if len(raw) == 0 {
		return 0
	}
	var v any
	if json.Unmarshal(raw, &v) == nil {
		if b, err := json.Marshal(v); err == nil {
			return hashBytes(b)
		}
	}
	return hashBytes(raw)
}
