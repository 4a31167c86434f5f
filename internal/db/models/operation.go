package models

import "fmt"

// OperationType represents the kind of database operation an access check
// is asked about. The set is closed and process-wide constant.
type OperationType string

const (
	// OperationSelect reads an entity.
	OperationSelect OperationType = "select"
	// OperationInsert creates an entity.
	OperationInsert OperationType = "insert"
	// OperationUpdate modifies an entity.
	OperationUpdate OperationType = "update"
	// OperationDelete marks an entity as deleted.
	OperationDelete OperationType = "delete"
	// OperationUndelete restores a deleted entity.
	OperationUndelete OperationType = "undelete"
)

// IsWriteType reports whether the operation mutates data.
func (o OperationType) IsWriteType() bool {
	switch o {
	case OperationInsert, OperationUpdate, OperationDelete, OperationUndelete:
		return true
	case OperationSelect:
		return false
	}

	return false
}

// IsReadType reports whether the operation only reads data.
func (o OperationType) IsReadType() bool {
	return o == OperationSelect
}

// ParseOperationType converts a string into an OperationType.
func ParseOperationType(s string) (OperationType, error) {
	switch OperationType(s) {
	case OperationSelect, OperationInsert, OperationUpdate, OperationDelete, OperationUndelete:
		return OperationType(s), nil
	}

	return "", fmt.Errorf("unknown operation type %q", s)
}
