// Package store holds the per-client key-value store that keeps
// connection credentials and the cached label list between requests.
package store

const (
	KeyURI      = "neo4j_uri"
	KeyUsername = "neo4j_username"
	KeyPassword = "neo4j_password"
	KeyNodes    = "neo4j_nodes"
)

// Keys lists every key the explorer writes.
var Keys = []string{KeyURI, KeyUsername, KeyPassword, KeyNodes}

// KV is a string key-value store scoped to one client.
type KV interface {
	Get(key string) (string, bool)
	// SetAll writes every entry or none of them.
	SetAll(values map[string]string) error
	// Clear removes every entry.
	Clear() error
}
