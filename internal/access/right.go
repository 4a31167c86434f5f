package access

import (
	"fmt"
	"sort"

	"github.com/taskward/taskward/internal/db/models"
)

// Well-known right ids. Right ids are closed per business module but open
// per system: each module registers its own ids with the registry at
// startup.
const (
	// RightIDCoreAdmin grants access iff the user is a member of the admin
	// group; the resolution engine treats it as a bypass of all policies.
	RightIDCoreAdmin models.RightID = "core.admin"

	// RightIDTimesheet guards timesheet entities of the HR module. Its
	// policy opts into owner self-service.
	RightIDTimesheet models.RightID = "hr.timesheet"

	// RightIDUserManagement guards user administration screens.
	RightIDUserManagement models.RightID = "core.user_management"
)

// Registry maps right ids to their policy objects. It is populated at
// startup by each business module and read-only thereafter; it is passed to
// the resolution engine as an injected dependency, never as ambient global
// state.
type Registry struct {
	policies map[models.RightID]Policy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[models.RightID]Policy)}
}

// Register adds a policy for a right id. Registering a nil policy or the
// same id twice indicates a broken module registration and panics.
func (r *Registry) Register(id models.RightID, p Policy) {
	if p == nil {
		panic(fmt.Sprintf("access: nil policy registered for right %q", id))
	}

	if _, ok := r.policies[id]; ok {
		panic(fmt.Sprintf("access: right %q registered twice", id))
	}

	r.policies[id] = p
}

// Policy returns the policy for a right id. An unknown id is a programming
// error, not a denial, and panics.
func (r *Registry) Policy(id models.RightID) Policy {
	p, ok := r.policies[id]
	if !ok {
		panic(fmt.Sprintf("access: unknown right %q", id))
	}

	return p
}

// Has reports whether a policy is registered for the right id.
func (r *Registry) Has(id models.RightID) bool {
	_, ok := r.policies[id]
	return ok
}

// IDs returns all registered right ids in stable order.
func (r *Registry) IDs() []models.RightID {
	ids := make([]models.RightID, 0, len(r.policies))
	for id := range r.policies {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
