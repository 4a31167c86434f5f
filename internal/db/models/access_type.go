package models

import "fmt"

// AccessType represents a named domain of permission managed through
// group-task access bindings. The set is closed and process-wide constant.
type AccessType string

const (
	// AccessTypeTasks guards task entities themselves.
	AccessTypeTasks AccessType = "tasks"
	// AccessTypeTaskAccessManagement guards the access bindings of a task.
	AccessTypeTaskAccessManagement AccessType = "task_access_management"
	// AccessTypeTimesheets guards timesheets booked on a task.
	AccessTypeTimesheets AccessType = "timesheets"
	// AccessTypeOwnTimesheets guards the acting user's own timesheets.
	AccessTypeOwnTimesheets AccessType = "own_timesheets"
	// AccessTypeGroup is a marker used only for generic group-membership
	// denials. No access entry is ever stored for it.
	AccessTypeGroup AccessType = "group"
)

// I18nKey returns the message key used to render the access type in the UI.
func (a AccessType) I18nKey() string {
	return "access.type." + string(a)
}

// ParseAccessType converts a string into an AccessType.
func ParseAccessType(s string) (AccessType, error) {
	switch AccessType(s) {
	case AccessTypeTasks, AccessTypeTaskAccessManagement, AccessTypeTimesheets,
		AccessTypeOwnTimesheets, AccessTypeGroup:
		return AccessType(s), nil
	}

	return "", fmt.Errorf("unknown access type %q", s)
}
