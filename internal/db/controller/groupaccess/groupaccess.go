// Package groupaccess provides guarded CRUD operations for group-task
// access bindings. Every operation is authorized through the access checker
// with the task-access-management domain before touching the database.
package groupaccess

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/taskward/taskward/internal/access"
	"github.com/taskward/taskward/internal/db/models"
	"github.com/taskward/taskward/internal/tasktree"
)

var (
	// ErrBindingNotFound is returned when a binding is not found.
	ErrBindingNotFound = errors.New("group task access binding not found")
	// ErrBindingAlreadyExists is returned when a binding for the same
	// (group, task) pair already exists.
	ErrBindingAlreadyExists = errors.New("binding for this group and task already exists")
	// ErrBindingNil is returned when a nil binding is passed.
	ErrBindingNil = errors.New("binding is nil")
	// ErrBindingNotDeleted is returned when undeleting a binding that is
	// not deleted.
	ErrBindingNotDeleted = errors.New("binding is not deleted")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a binding by id. The acting user needs select access on the
// binding's task. Deleted bindings are only visible to administrators.
func Get(db *gorm.DB, checker *access.Checker, user *models.User, id uint64) (*models.GroupTaskAccess, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var binding models.GroupTaskAccess

	result := db.Preload("Entries").First(&binding, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBindingNotFound
		}

		return nil, result.Error
	}

	if binding.HasDeleted() && !checker.IsUserMemberOfAdminGroup(user) {
		return nil, ErrBindingNotFound
	}

	if err := checker.CheckPermission(user, binding.TaskID,
		models.AccessTypeTaskAccessManagement, models.OperationSelect); err != nil {
		return nil, err
	}

	return &binding, nil
}

// List retrieves the bindings of a subtree query, filtered to the entries
// relevant under inheritance. The acting user needs select access on the
// query task. Deleted bindings are included only for administrators.
func List(db *gorm.DB, checker *access.Checker, tree *tasktree.Tree, user *models.User, query access.BindingQuery) ([]models.GroupTaskAccess, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if err := checker.CheckPermission(user, query.TaskID,
		models.AccessTypeTaskAccessManagement, models.OperationSelect); err != nil {
		return nil, err
	}

	taskIDs := []uint64{query.TaskID}

	if node := tree.Node(query.TaskID); node != nil {
		// inherited semantics need the ancestor bindings in the raw list
		// even when they are not part of the output; FilterBindings drops
		// the ones that do not apply.
		if query.IncludeAncestors || query.Inherit {
			taskIDs = append(taskIDs, node.AncestorIDs()...)
		}

		if query.IncludeDescendants {
			taskIDs = append(taskIDs, node.DescendantIDs()...)
		}
	}

	tx := db.Preload("Entries").Where("task_id IN ?", taskIDs)

	if !checker.IsUserMemberOfAdminGroup(user) {
		tx = tx.Where("deleted_at IS NULL")
	}

	var bindings []models.GroupTaskAccess

	if err := tx.Find(&bindings).Error; err != nil {
		return nil, err
	}

	return checker.FilterBindings(bindings, query), nil
}

// Create stores a new binding with its entries. The acting user needs
// insert access on the target task. The storage-level unique index on
// (group, task) backs the uniqueness check.
func Create(db *gorm.DB, checker *access.Checker, user *models.User, binding *models.GroupTaskAccess) error {
	if db == nil {
		return ErrDBNil
	}

	if binding == nil {
		return ErrBindingNil
	}

	if err := checker.CheckPermission(user, binding.TaskID,
		models.AccessTypeTaskAccessManagement, models.OperationInsert); err != nil {
		return err
	}

	var count int64

	if err := db.Model(&models.GroupTaskAccess{}).
		Where("group_id = ? AND task_id = ?", binding.GroupID, binding.TaskID).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return ErrBindingAlreadyExists
	}

	return db.Create(binding).Error
}

// Update stores changes to an existing binding. When the binding's task
// reference changed the binding is moved: the acting user needs update and
// insert access on the new task and delete access on the old task, and the
// destination (group, task) pair must still be free. All checks pass before
// anything is written, so a failing check leaves the binding untouched.
// Deleted bindings are invisible to non-admins and keep their deletion
// timestamp; restoring one goes through Undelete.
func Update(db *gorm.DB, checker *access.Checker, user *models.User, binding *models.GroupTaskAccess) error {
	if db == nil {
		return ErrDBNil
	}

	if binding == nil {
		return ErrBindingNil
	}

	var stored models.GroupTaskAccess

	result := db.First(&stored, binding.ID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrBindingNotFound
		}

		return result.Error
	}

	// deleted bindings are invisible to non-admins, and an update must not
	// resurrect them; restoring goes through Undelete.
	if stored.HasDeleted() && !checker.IsUserMemberOfAdminGroup(user) {
		return ErrBindingNotFound
	}

	if err := checker.CheckPermission(user, binding.TaskID,
		models.AccessTypeTaskAccessManagement, models.OperationUpdate); err != nil {
		return err
	}

	if stored.TaskID != binding.TaskID {
		// moving is modeled as insert at the destination plus delete at
		// the source.
		if err := checker.CheckPermission(user, binding.TaskID,
			models.AccessTypeTaskAccessManagement, models.OperationInsert); err != nil {
			return err
		}

		if err := checker.CheckPermission(user, stored.TaskID,
			models.AccessTypeTaskAccessManagement, models.OperationDelete); err != nil {
			return err
		}
	}

	if stored.GroupID != binding.GroupID || stored.TaskID != binding.TaskID {
		var count int64

		if err := db.Model(&models.GroupTaskAccess{}).
			Where("group_id = ? AND task_id = ? AND id <> ?",
				binding.GroupID, binding.TaskID, binding.ID).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrBindingAlreadyExists
		}
	}

	binding.CreatedAt = stored.CreatedAt
	binding.DeletedAt = stored.DeletedAt

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_task_access_id = ?", binding.ID).
			Delete(&models.AccessEntry{}).Error; err != nil {
			return err
		}

		for i := range binding.Entries {
			binding.Entries[i].ID = 0
			binding.Entries[i].GroupTaskAccessID = binding.ID
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(binding).Error
	})
}

// Delete soft-deletes a binding. The acting user needs delete access on the
// binding's task.
func Delete(db *gorm.DB, checker *access.Checker, user *models.User, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	var binding models.GroupTaskAccess

	result := db.First(&binding, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrBindingNotFound
		}

		return result.Error
	}

	if err := checker.CheckPermission(user, binding.TaskID,
		models.AccessTypeTaskAccessManagement, models.OperationDelete); err != nil {
		return err
	}

	now := time.Now()

	return db.Model(&binding).Update("deleted_at", &now).Error
}

// Undelete restores a soft-deleted binding. The acting user needs undelete
// access on the binding's task.
func Undelete(db *gorm.DB, checker *access.Checker, user *models.User, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	var binding models.GroupTaskAccess

	result := db.First(&binding, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrBindingNotFound
		}

		return result.Error
	}

	if !binding.HasDeleted() {
		return ErrBindingNotDeleted
	}

	if err := checker.CheckPermission(user, binding.TaskID,
		models.AccessTypeTaskAccessManagement, models.OperationUndelete); err != nil {
		return err
	}

	return db.Model(&binding).Update("deleted_at", nil).Error
}

// HasUserSelectAccess reports whether the user may see the binding.
func HasUserSelectAccess(checker *access.Checker, user *models.User, binding *models.GroupTaskAccess) bool {
	if binding == nil {
		return false
	}

	if binding.HasDeleted() && !checker.IsUserMemberOfAdminGroup(user) {
		return false
	}

	return checker.HasPermission(user, binding.TaskID,
		models.AccessTypeTaskAccessManagement, models.OperationSelect)
}

// HasHistoryAccess reports whether the user may see the change history of
// the binding.
func HasHistoryAccess(checker *access.Checker, user *models.User, binding *models.GroupTaskAccess) bool {
	return HasUserSelectAccess(checker, user, binding)
}
