package access

import (
	"github.com/taskward/taskward/internal/db/models"
)

// Owned is implemented by entities exposing an owner relationship. Policies
// opting into owner self-service grant update and delete on such entities
// when the acting user owns both the old and the new state.
type Owned interface {
	OwnerID() uint64
}

// Policy is the pluggable capability registered per right id. A policy either
// defines its own per-entity operation checks (EntityChecks reports true) or
// falls back to generic value matching against the user's assigned right
// value.
type Policy interface {
	// EntityChecks reports whether the policy defines specialized
	// per-entity select/insert/update/delete checks.
	EntityChecks() bool

	// HasSelectAccess checks read access on the given entity.
	HasSelectAccess(user *models.User, obj any) bool
	// HasInsertAccess checks create access on the given entity.
	HasInsertAccess(user *models.User, obj any) bool
	// HasUpdateAccess checks modify access given the new and old state.
	HasUpdateAccess(user *models.User, newObj, oldObj any) bool
	// HasDeleteAccess checks delete access given the new and old state.
	HasDeleteAccess(user *models.User, newObj, oldObj any) bool
	// HasHistoryAccess checks access to the change history of the entity.
	HasHistoryAccess(user *models.User, obj any) bool

	// IsAvailable reports whether the given value is legal for this user,
	// e.g. some values require specific group membership.
	IsAvailable(user *models.User, value models.RightValue) bool
	// Matches reports whether the assigned value satisfies the required
	// value. Policies may define defaults for users without an assignment
	// by matching a zero assigned value.
	Matches(assigned, required models.RightValue) bool

	// OwnerSelfService reports whether entities guarded by this right grant
	// update and delete to their owner regardless of assigned values.
	OwnerSelfService() bool
}

// ValuePolicy is the generic policy variant: no specialized entity checks,
// plain value matching. It is the explicit default, not a nil placeholder.
type ValuePolicy struct {
	// AvailableValues restricts the legal values; empty means all values
	// are legal for every user.
	AvailableValues []models.RightValue
	// DefaultValue is matched for users without an assignment. Zero means
	// users without an assignment hold nothing.
	DefaultValue models.RightValue
	// SelfService opts entities guarded by this right into the owner
	// self-service exception.
	SelfService bool
}

// EntityChecks reports false: a ValuePolicy has no specialized checks.
func (p *ValuePolicy) EntityChecks() bool { return false }

// HasSelectAccess is never dispatched to for a ValuePolicy.
func (p *ValuePolicy) HasSelectAccess(*models.User, any) bool { return false }

// HasInsertAccess is never dispatched to for a ValuePolicy.
func (p *ValuePolicy) HasInsertAccess(*models.User, any) bool { return false }

// HasUpdateAccess is never dispatched to for a ValuePolicy.
func (p *ValuePolicy) HasUpdateAccess(*models.User, any, any) bool { return false }

// HasDeleteAccess is never dispatched to for a ValuePolicy.
func (p *ValuePolicy) HasDeleteAccess(*models.User, any, any) bool { return false }

// HasHistoryAccess is never dispatched to for a ValuePolicy.
func (p *ValuePolicy) HasHistoryAccess(*models.User, any) bool { return false }

// IsAvailable reports whether the value is within the policy's legal values.
// Restricted users never get read-write access through a generic policy.
func (p *ValuePolicy) IsAvailable(user *models.User, value models.RightValue) bool {
	if user != nil && user.Restricted && value == models.RightValueReadWrite {
		return false
	}

	if len(p.AvailableValues) == 0 {
		return true
	}

	for _, v := range p.AvailableValues {
		if v == value {
			return true
		}
	}

	return false
}

// Matches reports whether the assigned value satisfies the required one.
// Read-write satisfies a read-only requirement; an absent assignment is
// matched against the policy's default value.
func (p *ValuePolicy) Matches(assigned, required models.RightValue) bool {
	if assigned == "" {
		assigned = p.DefaultValue
	}

	if assigned == required {
		return true
	}

	return assigned == models.RightValueReadWrite && required == models.RightValueReadOnly
}

// OwnerSelfService reports whether the owner self-service exception applies.
func (p *ValuePolicy) OwnerSelfService() bool { return p.SelfService }

// EntityPolicy is the base for specialized policies. Embed it and override
// the entity check methods; EntityChecks reports true so the resolution
// engine dispatches to them instead of value matching.
type EntityPolicy struct {
	ValuePolicy
}

// EntityChecks reports true: the embedding policy defines its own checks.
func (p *EntityPolicy) EntityChecks() bool { return true }
