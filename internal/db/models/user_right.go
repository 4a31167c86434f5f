package models

import "time"

// UserRight represents a (right-id, value) assignment for a user.
// At most one value may be assigned per user and right, enforced with a
// composite unique index.
type UserRight struct {
	// ID is the unique identifier for the assignment.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the ID of the user the right is assigned to.
	UserID uint64 `gorm:"not null;uniqueIndex:idx_user_right"`
	// RightID identifies the right being assigned.
	RightID RightID `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_right"`
	// Value is the assigned value (e.g. readonly, readwrite).
	Value RightValue `gorm:"type:varchar(40);not null"`
	// User is the associated user (loaded via foreign key).
	// When a user is deleted, their right assignments are automatically removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the assignment was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the assignment was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the UserRight model.
// This overrides GORM's default pluralized table naming.
func (UserRight) TableName() string {
	return "user_rights"
}
