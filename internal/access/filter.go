package access

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/taskward/taskward/internal/db/models"
)

// BindingQuery describes a subtree listing of group-task access bindings as
// issued by the administration screens.
type BindingQuery struct {
	// TaskID is the task the listing is anchored at.
	TaskID uint64
	// IncludeAncestors includes bindings attached to ancestor tasks in the
	// output.
	IncludeAncestors bool
	// IncludeDescendants includes bindings attached to descendant tasks in
	// the output.
	IncludeDescendants bool
	// Inherit asks for inherited semantics: the listing should only show
	// ancestor bindings that actually apply to the query task.
	Inherit bool
	// UserID, when non-zero, restricts the listing to bindings of groups
	// the user belongs to.
	UserID uint64
}

// FilterBindings reduces a raw, already-queried binding list to the entries
// actually relevant to the query. With inherited semantics and ancestors not
// part of the output, bindings attached to a strict ancestor of the query
// task that are non-recursive do not apply to the query task and are
// removed. A user filter keeps only bindings of groups the user belongs to.
// The result is ordered by task then group for deterministic display.
func (c *Checker) FilterBindings(bindings []models.GroupTaskAccess, query BindingQuery) []models.GroupTaskAccess {
	result := make([]models.GroupTaskAccess, 0, len(bindings))

	var ancestors map[uint64]bool

	if query.Inherit && !query.IncludeAncestors {
		node := c.tree.NodeByID(query.TaskID)
		if node == nil {
			// unresolvable query task: leave the result unfiltered by
			// inheritance, the user filter below still applies.
			log.Error().Uint64("task_id", query.TaskID).
				Msg("task not found during binding filtering")
		} else {
			ancestors = make(map[uint64]bool)
			for _, id := range node.AncestorIDs() {
				ancestors[id] = true
			}
		}
	}

	for _, binding := range bindings {
		if ancestors != nil && ancestors[binding.TaskID] && !binding.Recursive {
			continue
		}

		if query.UserID != 0 && !c.users.IsUserMemberOfGroup(query.UserID, binding.GroupID) {
			continue
		}

		result = append(result, binding)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TaskID != result[j].TaskID {
			return result[i].TaskID < result[j].TaskID
		}

		return result[i].GroupID < result[j].GroupID
	})

	return result
}
