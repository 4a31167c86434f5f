package models

import "time"

// Task represents a node of the task hierarchy. Tasks form a tree via the
// ParentID self-reference; the root task has no parent. Access bindings
// attach to tasks and may apply to descendants depending on their
// recursive flag.
type Task struct {
	// ID is the unique identifier for the task.
	ID uint64 `gorm:"primaryKey"`
	// ParentID is the ID of the parent task (nil for the root task).
	ParentID *uint64 `gorm:"index"`
	// Title is the display title of the task.
	Title string `gorm:"size:255;not null"`
	// Description provides a human-readable description of the task.
	Description string `gorm:"size:1000"`
	// CreatedAt is the timestamp when the task was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the task was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (nil if not deleted).
	DeletedAt *time.Time
}

// HasDeleted reports whether the task is soft-deleted.
func (t *Task) HasDeleted() bool {
	return t.DeletedAt != nil
}

// TableName specifies the database table name for the Task model.
// This overrides GORM's default pluralized table naming.
func (Task) TableName() string {
	return "tasks"
}
