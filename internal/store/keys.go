package store

import "strings"

// Key namespaces shared by the index, verifier, and parameter store,
// centralized here so none of them hand-format a prefix differently.
const (
	lshKeysKey = "lsh_keys"
)

func NewsKey(id string) string          { return "news:" + id }
func LSHKey(tag string) string          { return "lsh:" + tag }
func LSHKeysKey() string                { return lshKeysKey }
func JaccSimKey(laterID string) string  { return "jacc_sim:" + laterID }
func DupCandKey(laterID string) string  { return "dup_cand:" + laterID }

// TagFromLSHKey strips the "lsh:" prefix added by LSHKey.
func TagFromLSHKey(key string) string {
	return strings.TrimPrefix(key, "lsh:")
}
