package types

// Cache stores finished data-URI strings keyed by the raw, unmodified
// source argument. Implementations decide their own synchronization and
// persistence; the loader only ever calls Get before resolving and Set
// after a successful encode.
type Cache interface {
	// Get returns the cached value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores value under key. Writes are best-effort: the loader
	// ignores storage failures, so implementations that can fail should
	// swallow and drop rather than panic.
	Set(key, value string)
}
