package models

// AccessEntry is the atomic grant of a group-task access binding: for one
// access type it stores four independent operation booleans. At most one
// entry may exist per (binding, access type) pair, enforced with a composite
// unique index; the binding's ensure-and-get idiom relies on that constraint.
type AccessEntry struct {
	// ID is the unique identifier for the entry.
	ID uint64 `gorm:"primaryKey"`
	// GroupTaskAccessID is the ID of the owning binding. An entry never
	// exists without an owner.
	GroupTaskAccessID uint64 `gorm:"not null;uniqueIndex:idx_binding_access_type"`
	// AccessType is the permission domain this entry grants operations for.
	AccessType AccessType `gorm:"type:varchar(40);not null;uniqueIndex:idx_binding_access_type"`
	// AccessSelect allows reading entities of the access type.
	AccessSelect bool
	// AccessInsert allows creating entities of the access type.
	AccessInsert bool
	// AccessUpdate allows modifying entities of the access type.
	AccessUpdate bool
	// AccessDelete allows deleting (and undeleting) entities of the access type.
	AccessDelete bool
}

// HasPermission maps an operation to the corresponding boolean.
// Undelete maps to the delete boolean.
func (e *AccessEntry) HasPermission(op OperationType) bool {
	switch op {
	case OperationSelect:
		return e.AccessSelect
	case OperationInsert:
		return e.AccessInsert
	case OperationUpdate:
		return e.AccessUpdate
	case OperationDelete, OperationUndelete:
		return e.AccessDelete
	}

	return false
}

// SetAccess sets all four operation booleans at once.
func (e *AccessEntry) SetAccess(selectAccess, insertAccess, updateAccess, deleteAccess bool) {
	e.AccessSelect = selectAccess
	e.AccessInsert = insertAccess
	e.AccessUpdate = updateAccess
	e.AccessDelete = deleteAccess
}

// TableName specifies the database table name for the AccessEntry model.
// This overrides GORM's default pluralized table naming.
func (AccessEntry) TableName() string {
	return "access_entries"
}
