package access

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/taskward/taskward/internal/db/models"
)

// TaskNode is one node of the externally owned task hierarchy. The node
// itself knows how to resolve a group's permission considering bindings
// inherited from ancestor tasks: an ancestor binding applies iff its
// recursive flag is set; non-recursive bindings apply only to the exact
// task they are attached to.
type TaskNode interface {
	ID() uint64
	AncestorIDs() []uint64
	DescendantIDs() []uint64
	IsParentOf(other TaskNode) bool
	HasPermission(groupID uint, accessType models.AccessType, op models.OperationType) bool
}

// TaskTree supplies task nodes by id. NodeByID returns nil for unknown ids.
type TaskTree interface {
	NodeByID(id uint64) TaskNode
}

// UserStore is the externally owned user and group membership cache.
// It must be internally thread-safe; the engine never mutates it.
type UserStore interface {
	User(id uint64) *models.User
	UserGroupIDs(id uint64) []uint
	IsUserMemberOfGroup(userID uint64, groupID uint) bool
	IsUserMemberOfAdminGroup(userID uint64) bool
	RightValue(userID uint64, rightID models.RightID) models.RightValue
}

// Checker is the resolution engine. It is stateless and side-effect-free
// except for logging; concurrent checks are safe.
type Checker struct {
	tree     TaskTree
	users    UserStore
	registry *Registry
}

// NewChecker creates a checker over the given collaborators.
func NewChecker(tree TaskTree, users UserStore, registry *Registry) *Checker {
	if tree == nil || users == nil || registry == nil {
		panic("access: checker collaborators must not be nil")
	}

	return &Checker{tree: tree, users: users, registry: registry}
}

// Registry returns the injected right registry.
func (c *Checker) Registry() *Registry {
	return c.registry
}

// resolveUser fetches the authoritative current user record by id. A
// caller-supplied snapshot is never trusted beyond its id.
func (c *Checker) resolveUser(user *models.User) *models.User {
	if user == nil {
		return nil
	}

	resolved := c.users.User(user.ID)
	if resolved == nil {
		log.Error().Uint64("user_id", user.ID).
			Msg("user not found during access check, denying")
	}

	return resolved
}

// HasRight checks whether the user holds the right at one of the required
// values. requiredValues must be non-empty; passing none is a programming
// error and panics. An unknown right id panics as well.
func (c *Checker) HasRight(user *models.User, rightID models.RightID, requiredValues ...models.RightValue) bool {
	if len(requiredValues) == 0 {
		panic(fmt.Sprintf("access: HasRight called without required values for right %q", rightID))
	}

	policy := c.registry.Policy(rightID)

	resolved := c.resolveUser(user)
	if resolved == nil {
		return false
	}

	assigned := c.users.RightValue(resolved.ID, rightID)

	for _, required := range requiredValues {
		if assigned == "" {
			// no assignment: policies may define defaults, e.g.
			// "read-only for everyone".
			if policy.Matches("", required) {
				return true
			}

			continue
		}

		if assigned == required && policy.IsAvailable(resolved, required) {
			return true
		}
	}

	return false
}

// CheckRight is the throwing variant of HasRight.
func (c *Checker) CheckRight(user *models.User, rightID models.RightID, requiredValues ...models.RightValue) error {
	if c.HasRight(user, rightID, requiredValues...) {
		return nil
	}

	return &DeniedError{
		UserID:         userID(user),
		RightID:        rightID,
		RequiredValues: requiredValues,
	}
}

// HasAccess checks an operation on an entity guarded by the given right.
// Dispatch priority: specialized entity policy, core-admin bypass, owner
// self-service, then the generic value check (select requires read-only or
// read-write, writes require read-write).
func (c *Checker) HasAccess(user *models.User, rightID models.RightID, newObj, oldObj any, op models.OperationType) bool {
	policy := c.registry.Policy(rightID)

	resolved := c.resolveUser(user)
	if resolved == nil {
		return false
	}

	if policy.EntityChecks() {
		switch op {
		case models.OperationSelect:
			return policy.HasSelectAccess(resolved, newObj)
		case models.OperationInsert:
			return policy.HasInsertAccess(resolved, newObj)
		case models.OperationUpdate:
			return policy.HasUpdateAccess(resolved, newObj, oldObj)
		case models.OperationDelete:
			return policy.HasDeleteAccess(resolved, newObj, oldObj)
		case models.OperationUndelete:
			panic(fmt.Sprintf("access: undelete is not defined for entity policy of right %q", rightID))
		}
	}

	if rightID == RightIDCoreAdmin {
		return c.users.IsUserMemberOfAdminGroup(resolved.ID)
	}

	if policy.OwnerSelfService() && (op == models.OperationUpdate || op == models.OperationDelete) {
		if ownedByUser(newObj, resolved.ID) && ownedByUser(oldObj, resolved.ID) {
			return true
		}
	}

	if op.IsReadType() {
		return c.HasRight(resolved, rightID, models.RightValueReadOnly, models.RightValueReadWrite)
	}

	return c.HasRight(resolved, rightID, models.RightValueReadWrite)
}

// CheckAccess is the throwing variant of HasAccess.
func (c *Checker) CheckAccess(user *models.User, rightID models.RightID, newObj, oldObj any, op models.OperationType) error {
	if c.HasAccess(user, rightID, newObj, oldObj, op) {
		return nil
	}

	return &DeniedError{
		UserID:    userID(user),
		RightID:   rightID,
		Operation: op,
	}
}

// HasHistoryAccess checks access to the change history of an entity.
// Specialized policies decide themselves; everything else requires read
// access to the entity.
func (c *Checker) HasHistoryAccess(user *models.User, rightID models.RightID, obj any) bool {
	policy := c.registry.Policy(rightID)

	resolved := c.resolveUser(user)
	if resolved == nil {
		return false
	}

	if policy.EntityChecks() {
		return policy.HasHistoryAccess(resolved, obj)
	}

	return c.HasAccess(resolved, rightID, obj, nil, models.OperationSelect)
}

// HasPermission resolves a task-scoped permission: does the user hold the
// operation for the access type on the given task, considering group
// memberships and bindings inherited from ancestor tasks. Any qualifying
// group grants; missing data denies.
func (c *Checker) HasPermission(user *models.User, taskID uint64, accessType models.AccessType, op models.OperationType) bool {
	resolved := c.resolveUser(user)
	if resolved == nil {
		return false
	}

	node := c.tree.NodeByID(taskID)
	if node == nil {
		// almost always a caller bug, not a normal access decision;
		// logged distinguishably from an ordinary denial.
		log.Error().Uint64("task_id", taskID).Uint64("user_id", resolved.ID).
			Str("access_type", string(accessType)).Str("operation", string(op)).
			Msg("task not found during permission check, denying")

		return false
	}

	if c.users.IsUserMemberOfAdminGroup(resolved.ID) {
		return true
	}

	groupIDs := c.users.UserGroupIDs(resolved.ID)
	if len(groupIDs) == 0 {
		return false
	}

	for _, groupID := range groupIDs {
		if node.HasPermission(groupID, accessType, op) {
			return true
		}
	}

	return false
}

// CheckPermission is the throwing variant of HasPermission.
func (c *Checker) CheckPermission(user *models.User, taskID uint64, accessType models.AccessType, op models.OperationType) error {
	if c.HasPermission(user, taskID, accessType, op) {
		return nil
	}

	return &DeniedError{
		UserID:     userID(user),
		TaskID:     taskID,
		AccessType: accessType,
		Operation:  op,
	}
}

// IsUserMemberOfGroup reports whether the user belongs to the group.
func (c *Checker) IsUserMemberOfGroup(user *models.User, groupID uint) bool {
	resolved := c.resolveUser(user)
	if resolved == nil {
		return false
	}

	return c.users.IsUserMemberOfGroup(resolved.ID, groupID)
}

// CheckGroupMembership is the throwing variant of IsUserMemberOfGroup.
func (c *Checker) CheckGroupMembership(user *models.User, groupID uint) error {
	if c.IsUserMemberOfGroup(user, groupID) {
		return nil
	}

	return &DeniedError{
		UserID:     userID(user),
		AccessType: models.AccessTypeGroup,
	}
}

// IsUserMemberOfAdminGroup reports whether the user belongs to the admin
// group.
func (c *Checker) IsUserMemberOfAdminGroup(user *models.User) bool {
	resolved := c.resolveUser(user)
	if resolved == nil {
		return false
	}

	return c.users.IsUserMemberOfAdminGroup(resolved.ID)
}

// IsRestrictedUser reports whether the user is a restricted account.
// Unresolvable users count as restricted (fail closed).
func (c *Checker) IsRestrictedUser(user *models.User) bool {
	resolved := c.resolveUser(user)
	if resolved == nil {
		return true
	}

	return resolved.Restricted
}

// IsDemoUser reports whether the user is a demo account.
func (c *Checker) IsDemoUser(user *models.User) bool {
	resolved := c.resolveUser(user)
	if resolved == nil {
		return false
	}

	return resolved.Demo
}

// ownedByUser reports whether obj exposes an owner equal to the user.
func ownedByUser(obj any, id uint64) bool {
	owned, ok := obj.(Owned)
	return ok && owned.OwnerID() == id
}

func userID(user *models.User) uint64 {
	if user == nil {
		return 0
	}

	return user.ID
}
