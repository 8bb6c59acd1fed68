package ports

// StateStore is a small key-value surface used to remember view state
// across sessions (currently just the last visited folder). Writes are
// fire-and-forget; last-write-wins is acceptable.
type StateStore interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)

	// Set stores a value under key, overwriting any previous value.
	Set(key, value string) error
}
