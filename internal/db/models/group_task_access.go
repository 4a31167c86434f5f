package models

import "time"

// GroupTaskAccess binds one group to one task and owns the access entries
// granting operations per access type. Only one binding may exist per
// (group, task) pair, enforced with a composite unique index. Bindings are
// soft-deleted: deleted bindings are excluded from permission resolution
// but stay visible to administrators.
type GroupTaskAccess struct {
	// ID is the unique identifier for the binding.
	ID uint64 `gorm:"primaryKey"`
	// GroupID is the ID of the group this binding grants access to.
	GroupID uint `gorm:"not null;uniqueIndex:idx_group_task"`
	// TaskID is the ID of the task this binding is attached to.
	TaskID uint64 `gorm:"not null;uniqueIndex:idx_group_task"`
	// Recursive determines whether the binding also applies to all
	// descendant tasks.
	Recursive bool `gorm:"default:true"`
	// Description provides a human-readable explanation of the binding.
	Description string `gorm:"size:1000"`
	// Group is the associated group (loaded via foreign key).
	// When a group is deleted, its bindings are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// Task is the associated task (loaded via foreign key).
	// When a task is deleted, its bindings are automatically removed (CASCADE).
	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	// Entries are the access entries owned by this binding, unique per
	// access type.
	Entries []AccessEntry `gorm:"foreignKey:GroupTaskAccessID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the binding was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the binding was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (nil if not deleted).
	DeletedAt *time.Time
}

// HasDeleted reports whether the binding is soft-deleted.
func (g *GroupTaskAccess) HasDeleted() bool {
	return g.DeletedAt != nil
}

// AccessEntry returns the entry for the given access type, or nil if the
// binding carries none.
func (g *GroupTaskAccess) AccessEntry(accessType AccessType) *AccessEntry {
	for i := range g.Entries {
		if g.Entries[i].AccessType == accessType {
			return &g.Entries[i]
		}
	}

	return nil
}

// EnsureAndGetAccessEntry returns the entry for the given access type,
// creating it first if the binding does not carry one yet. The composite
// unique index on (binding, access type) backs this idiom at storage level.
func (g *GroupTaskAccess) EnsureAndGetAccessEntry(accessType AccessType) *AccessEntry {
	if entry := g.AccessEntry(accessType); entry != nil {
		return entry
	}

	g.Entries = append(g.Entries, AccessEntry{
		GroupTaskAccessID: g.ID,
		AccessType:        accessType,
	})

	return &g.Entries[len(g.Entries)-1]
}

// SetAccessEntry sets the four operation booleans for the given access type,
// creating the entry on demand. A second call for the same access type
// overwrites the first (last write wins).
func (g *GroupTaskAccess) SetAccessEntry(accessType AccessType, selectAccess, insertAccess, updateAccess, deleteAccess bool) {
	g.EnsureAndGetAccessEntry(accessType).SetAccess(selectAccess, insertAccess, updateAccess, deleteAccess)
}

// HasPermission reports whether this binding grants the operation for the
// access type. A missing entry denies.
func (g *GroupTaskAccess) HasPermission(accessType AccessType, op OperationType) bool {
	entry := g.AccessEntry(accessType)
	if entry == nil {
		return false
	}

	return entry.HasPermission(op)
}

// Clear revokes all access of this binding.
func (g *GroupTaskAccess) Clear() {
	g.SetAccessEntry(AccessTypeTasks, false, false, false, false)
	g.SetAccessEntry(AccessTypeTaskAccessManagement, false, false, false, false)
	g.SetAccessEntry(AccessTypeTimesheets, false, false, false, false)
	g.SetAccessEntry(AccessTypeOwnTimesheets, false, false, false, false)
}

// TemplateGuest sets the canonical access combination for guests:
// read access to tasks, nothing else.
func (g *GroupTaskAccess) TemplateGuest() {
	g.SetAccessEntry(AccessTypeTasks, true, false, false, false)
	g.SetAccessEntry(AccessTypeTaskAccessManagement, false, false, false, false)
	g.SetAccessEntry(AccessTypeTimesheets, false, false, false, false)
	g.SetAccessEntry(AccessTypeOwnTimesheets, false, false, false, false)
}

// TemplateEmployee sets the canonical access combination for employees:
// read access to tasks and timesheets, full control of own timesheets.
func (g *GroupTaskAccess) TemplateEmployee() {
	g.SetAccessEntry(AccessTypeTasks, true, false, false, false)
	g.SetAccessEntry(AccessTypeTaskAccessManagement, false, false, false, false)
	g.SetAccessEntry(AccessTypeTimesheets, true, false, false, false)
	g.SetAccessEntry(AccessTypeOwnTimesheets, true, true, true, true)
}

// TemplateLeader sets the canonical access combination for project leaders:
// full control of tasks and timesheets, read access to bindings.
func (g *GroupTaskAccess) TemplateLeader() {
	g.SetAccessEntry(AccessTypeTasks, true, true, true, true)
	g.SetAccessEntry(AccessTypeTaskAccessManagement, true, false, false, false)
	g.SetAccessEntry(AccessTypeTimesheets, true, true, true, true)
	g.SetAccessEntry(AccessTypeOwnTimesheets, true, true, true, true)
}

// TemplateAdministrator sets the canonical access combination for
// administrators: full control of everything, including bindings.
func (g *GroupTaskAccess) TemplateAdministrator() {
	g.SetAccessEntry(AccessTypeTasks, true, true, true, true)
	g.SetAccessEntry(AccessTypeTaskAccessManagement, true, true, true, true)
	g.SetAccessEntry(AccessTypeTimesheets, true, true, true, true)
	g.SetAccessEntry(AccessTypeOwnTimesheets, true, true, true, true)
}

// TableName specifies the database table name for the GroupTaskAccess model.
// This overrides GORM's default pluralized table naming.
func (GroupTaskAccess) TableName() string {
	return "group_task_access"
}
