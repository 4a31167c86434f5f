package models

import "time"

// User represents a user account in the system.
// Authentication is handled outside this service; users are referenced here
// only as subjects of access decisions. They can belong to multiple groups
// and carry per-right value assignments.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the user account is active.
	Active bool
	// Username is the unique username.
	Username string `gorm:"unique;size:100;not null"`
	// Email is the user's email address.
	Email string `gorm:"size:255"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100"`
	// Restricted marks a limited account. Restricted users never receive
	// write access through generic right checks.
	Restricted bool
	// Demo marks a demonstration account.
	Demo bool
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (nil if not deleted).
	DeletedAt *time.Time
}

// HasDeleted reports whether the user is soft-deleted.
func (u *User) HasDeleted() bool {
	return u.DeletedAt != nil
}

// TableName specifies the database table name for the User model.
// This overrides GORM's default pluralized table naming.
func (User) TableName() string {
	return "users"
}
