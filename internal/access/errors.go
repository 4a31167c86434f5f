package access

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskward/taskward/internal/db/models"
)

// DeniedError is the hard "no" of the engine: Check* methods return it where
// the matching Has* method would return false. It carries enough structured
// context to build a localized message without string parsing.
type DeniedError struct {
	// UserID is the acting user, 0 if the user could not be resolved.
	UserID uint64
	// TaskID is set for task-scoped denials.
	TaskID uint64
	// AccessType is set for task-scoped denials.
	AccessType models.AccessType
	// RightID is set for right-based denials.
	RightID models.RightID
	// Operation is the operation that was denied.
	Operation models.OperationType
	// RequiredValues are the candidate values of a generic right check.
	RequiredValues []models.RightValue
}

// Error implements the error interface.
func (e *DeniedError) Error() string {
	var b strings.Builder

	b.WriteString("access denied")

	if e.UserID != 0 {
		fmt.Fprintf(&b, " for user %d", e.UserID)
	}

	if e.RightID != "" {
		fmt.Fprintf(&b, ", right %s", e.RightID)
	}

	if e.AccessType != "" {
		fmt.Fprintf(&b, ", access type %s", e.AccessType)
	}

	if e.TaskID != 0 {
		fmt.Fprintf(&b, ", task %d", e.TaskID)
	}

	if e.Operation != "" {
		fmt.Fprintf(&b, ", operation %s", e.Operation)
	}

	if len(e.RequiredValues) > 0 {
		values := make([]string, len(e.RequiredValues))
		for i, v := range e.RequiredValues {
			values[i] = string(v)
		}

		fmt.Fprintf(&b, ", required values [%s]", strings.Join(values, ", "))
	}

	return b.String()
}

// I18nKey returns the message key used to render the denial in the UI.
func (e *DeniedError) I18nKey() string {
	if e.AccessType != "" {
		return "access.exception." + string(e.AccessType)
	}

	return "access.exception.right"
}

// IsDenied reports whether err is (or wraps) a DeniedError.
func IsDenied(err error) bool {
	var denied *DeniedError
	return errors.As(err, &denied)
}
