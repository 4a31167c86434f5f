// Package userstore maintains the in-memory user and group membership cache
// used by the access engine. Like the task tree it is a read-mostly cache:
// rebuilt wholesale on change, safe for concurrent reads, never mutated by
// the engine.
package userstore

import (
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/taskward/taskward/internal/db/models"
)

// Store caches users, group memberships and right value assignments.
// It implements access.UserStore.
type Store struct {
	adminGroupName string

	mu           sync.RWMutex
	users        map[uint64]*models.User
	groupsByName map[string]uint
	userGroups   map[uint64][]uint
	rights       map[uint64]map[models.RightID]models.RightValue
	adminGroupID uint
}

// New creates an empty store. adminGroupName is the well-known group whose
// members bypass task-scoped permission checks. Call Rebuild before first
// use.
func New(adminGroupName string) *Store {
	return &Store{
		adminGroupName: adminGroupName,
		users:          make(map[uint64]*models.User),
		groupsByName:   make(map[string]uint),
		userGroups:     make(map[uint64][]uint),
		rights:         make(map[uint64]map[models.RightID]models.RightValue),
	}
}

// User returns the cached user record by id, or nil if unknown or
// soft-deleted.
func (s *Store) User(id uint64) *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.users[id]
}

// UserGroupIDs returns the ids of all groups the user belongs to.
func (s *Store) UserGroupIDs(id uint64) []uint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.userGroups[id]
}

// IsUserMemberOfGroup reports whether the user belongs to the group.
func (s *Store) IsUserMemberOfGroup(userID uint64, groupID uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.userGroups[userID] {
		if id == groupID {
			return true
		}
	}

	return false
}

// IsUserMemberOfAdminGroup reports whether the user belongs to the admin
// group. Without a resolvable admin group nobody is an admin (fail closed).
func (s *Store) IsUserMemberOfAdminGroup(userID uint64) bool {
	s.mu.RLock()
	adminGroupID := s.adminGroupID
	s.mu.RUnlock()

	if adminGroupID == 0 {
		return false
	}

	return s.IsUserMemberOfGroup(userID, adminGroupID)
}

// GroupIDByName returns the id of the group with the given name, 0 if
// unknown.
func (s *Store) GroupIDByName(name string) uint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.groupsByName[name]
}

// RightValue returns the value assigned to the user for the right, or the
// zero value if none is assigned.
func (s *Store) RightValue(userID uint64, rightID models.RightID) models.RightValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rights[userID][rightID]
}

// Rebuild loads users, groups, memberships and right assignments from the
// database and replaces the cache wholesale.
func (s *Store) Rebuild(db *gorm.DB) error {
	var users []models.User

	if err := db.Where("deleted_at IS NULL").Find(&users).Error; err != nil {
		return err
	}

	var groups []models.Group

	if err := db.Find(&groups).Error; err != nil {
		return err
	}

	var memberships []models.UserGroup

	if err := db.Find(&memberships).Error; err != nil {
		return err
	}

	var assignments []models.UserRight

	if err := db.Find(&assignments).Error; err != nil {
		return err
	}

	s.RebuildFrom(users, groups, memberships, assignments)

	return nil
}

// RebuildFrom replaces the cache from already-loaded rows.
func (s *Store) RebuildFrom(users []models.User, groups []models.Group, memberships []models.UserGroup, assignments []models.UserRight) {
	userMap := make(map[uint64]*models.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	groupsByName := make(map[string]uint, len(groups))
	for i := range groups {
		groupsByName[groups[i].Name] = groups[i].ID
	}

	userGroups := make(map[uint64][]uint, len(users))
	for _, m := range memberships {
		userGroups[m.UserID] = append(userGroups[m.UserID], m.GroupID)
	}

	rights := make(map[uint64]map[models.RightID]models.RightValue)
	for _, a := range assignments {
		if rights[a.UserID] == nil {
			rights[a.UserID] = make(map[models.RightID]models.RightValue)
		}

		rights[a.UserID][a.RightID] = a.Value
	}

	adminGroupID := groupsByName[s.adminGroupName]
	if adminGroupID == 0 {
		log.Error().Str("group", s.adminGroupName).
			Msg("admin group not found, nobody will pass admin checks")
	}

	s.mu.Lock()
	s.users = userMap
	s.groupsByName = groupsByName
	s.userGroups = userGroups
	s.rights = rights
	s.adminGroupID = adminGroupID
	s.mu.Unlock()
}
