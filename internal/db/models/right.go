package models

// RightID identifies a named, possibly entity-specific permission outside
// the task-tree model. Each business module registers its own ids at startup.
type RightID string

// RightValue is a value assigned to a user for a right, e.g. read-only
// versus read-write.
type RightValue string

const (
	// RightValueReadOnly allows reading the guarded entities.
	RightValueReadOnly RightValue = "readonly"
	// RightValueReadWrite allows reading and writing the guarded entities.
	RightValueReadWrite RightValue = "readwrite"
)
