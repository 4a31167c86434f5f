package tasktree

import (
	"github.com/taskward/taskward/internal/access"
	"github.com/taskward/taskward/internal/db/models"
)

// Node is one task of the hierarchy. Nodes are immutable after a tree
// rebuild, so they can be read concurrently without locking.
type Node struct {
	id       uint64
	title    string
	parent   *Node
	children []*Node

	// bindings attached directly to this task, keyed by group id. The map
	// key makes the one-binding-per-(group, task) invariant structural.
	bindings map[uint]*groupBinding
}

// groupBinding is the resolution-relevant extract of a group-task access
// binding. Entries are keyed by access type, mirroring the storage-level
// uniqueness of (binding, access type).
type groupBinding struct {
	recursive bool
	entries   map[models.AccessType]models.AccessEntry
}

// ID returns the task id of the node.
func (n *Node) ID() uint64 {
	return n.id
}

// Title returns the task title.
func (n *Node) Title() string {
	return n.title
}

// AncestorIDs returns the ids of all ancestors, nearest first.
func (n *Node) AncestorIDs() []uint64 {
	var ids []uint64

	for cur := n.parent; cur != nil; cur = cur.parent {
		ids = append(ids, cur.id)
	}

	return ids
}

// DescendantIDs returns the ids of all descendants in breadth-first order.
func (n *Node) DescendantIDs() []uint64 {
	var ids []uint64

	queue := append([]*Node(nil), n.children...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		ids = append(ids, cur.id)
		queue = append(queue, cur.children...)
	}

	return ids
}

// IsParentOf reports whether this node is a direct or transitive parent of
// the other node.
func (n *Node) IsParentOf(other access.TaskNode) bool {
	if other == nil {
		return false
	}

	for _, id := range other.AncestorIDs() {
		if id == n.id {
			return true
		}
	}

	return false
}

// HasPermission resolves a group's permission on this task, honoring the
// inheritance rule: a binding on an ancestor task applies here iff its
// recursive flag is set; a binding on the task itself always applies. The
// nearest applicable binding decides, so a non-recursive binding on a
// descendant overrides a recursive ancestor binding. The walk is iterative
// to bound stack depth on deep hierarchies.
func (n *Node) HasPermission(groupID uint, accessType models.AccessType, op models.OperationType) bool {
	for cur, depth := n, 0; cur != nil; cur, depth = cur.parent, depth+1 {
		binding, ok := cur.bindings[groupID]
		if !ok {
			continue
		}

		if depth > 0 && !binding.recursive {
			// non-recursive ancestor bindings apply only to their own
			// task; keep walking up.
			continue
		}

		entry, ok := binding.entries[accessType]
		if !ok {
			return false
		}

		return entry.HasPermission(op)
	}

	return false
}
