package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Hash returns the hex SHA-256 of data. Epic content hashes and layout
// hashes are computed with it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<kind>:<sha256>" over the JSON encoding of parts. Struct
// fields encode in declaration order, so equal options give equal keys.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// KindOf returns the kind of a key produced by a [Keyer]: "epic", "layout",
// "artifact" or "http". Token scopes from [NewTokenKeyer] are skipped. Keys
// from elsewhere report "other".
func KindOf(key string) string {
	kind, _, ok := strings.Cut(unscope(key), ":")
	switch {
	case !ok:
		return "other"
	case kind == "epic", kind == "layout", kind == "artifact", kind == "http":
		return kind
	default:
		return "other"
	}
}
