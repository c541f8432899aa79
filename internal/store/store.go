// Package store provides the key/value persistence layer backing the
// session state. Values round-trip through JSON; any underlying read or
// write failure is swallowed and reported as absent (Get) or false (the
// mutating operations) — callers never see an error.
package store

// Store is a key/value JSON store.
type Store interface {
	// Get unmarshals the value stored under key into out and reports
	// whether a value was present and decodable.
	Get(key string, out any) bool
	// Set stores value under key, reporting success.
	Set(key string, value any) bool
	// Remove deletes key, reporting success. Removing an absent key
	// succeeds.
	Remove(key string) bool
	// Clear deletes every key, reporting success.
	Clear() bool
}
