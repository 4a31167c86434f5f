// Package tasktree maintains the in-memory task hierarchy used by the
// access engine. The tree is a read-mostly cache over the tasks and
// group-task access tables: it is rebuilt wholesale on change and safe for
// concurrent reads.
package tasktree

import (
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/taskward/taskward/internal/access"
	"github.com/taskward/taskward/internal/db/models"
)

// Tree holds the task nodes by id. The access engine reads it through the
// access.TaskTree interface and never mutates it.
type Tree struct {
	mu    sync.RWMutex
	nodes map[uint64]*Node
	roots []*Node
}

// New creates an empty tree. Call Rebuild before first use.
func New() *Tree {
	return &Tree{nodes: make(map[uint64]*Node)}
}

// NodeByID returns the node for the task id, or nil if unknown.
func (t *Tree) NodeByID(id uint64) access.TaskNode {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n, ok := t.nodes[id]; ok {
		return n
	}

	return nil
}

// Node returns the concrete node for the task id, or nil if unknown.
func (t *Tree) Node(id uint64) *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.nodes[id]
}

// RootIDs returns the ids of all root tasks.
func (t *Tree) RootIDs() []uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]uint64, len(t.roots))
	for i, n := range t.roots {
		ids[i] = n.id
	}

	return ids
}

// Rebuild loads all non-deleted tasks and bindings from the database and
// replaces the tree wholesale.
func (t *Tree) Rebuild(db *gorm.DB) error {
	var tasks []models.Task

	if err := db.Where("deleted_at IS NULL").Find(&tasks).Error; err != nil {
		return err
	}

	var bindings []models.GroupTaskAccess

	if err := db.Preload("Entries").Where("deleted_at IS NULL").Find(&bindings).Error; err != nil {
		return err
	}

	t.RebuildFrom(tasks, bindings)

	return nil
}

// RebuildFrom replaces the tree from already-loaded tasks and bindings.
// Soft-deleted rows must already be filtered out by the caller.
func (t *Tree) RebuildFrom(tasks []models.Task, bindings []models.GroupTaskAccess) {
	nodes := make(map[uint64]*Node, len(tasks))

	for i := range tasks {
		nodes[tasks[i].ID] = &Node{
			id:       tasks[i].ID,
			title:    tasks[i].Title,
			bindings: make(map[uint]*groupBinding),
		}
	}

	var roots []*Node

	for i := range tasks {
		node := nodes[tasks[i].ID]

		if tasks[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}

		parent, ok := nodes[*tasks[i].ParentID]
		if !ok {
			// orphaned task, keep it reachable as a root
			log.Warn().Uint64("task_id", tasks[i].ID).Uint64("parent_id", *tasks[i].ParentID).
				Msg("task references unknown parent, treating as root")

			roots = append(roots, node)

			continue
		}

		node.parent = parent
		parent.children = append(parent.children, node)
	}

	for i := range bindings {
		node, ok := nodes[bindings[i].TaskID]
		if !ok {
			log.Warn().Uint64("task_id", bindings[i].TaskID).Uint("group_id", bindings[i].GroupID).
				Msg("access binding references unknown task, skipping")

			continue
		}

		gb := &groupBinding{
			recursive: bindings[i].Recursive,
			entries:   make(map[models.AccessType]models.AccessEntry, len(bindings[i].Entries)),
		}

		for _, entry := range bindings[i].Entries {
			gb.entries[entry.AccessType] = entry
		}

		node.bindings[bindings[i].GroupID] = gb
	}

	t.mu.Lock()
	t.nodes = nodes
	t.roots = roots
	t.mu.Unlock()
}
