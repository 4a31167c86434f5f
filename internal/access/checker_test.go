package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward/internal/access"
	"github.com/taskward/taskward/internal/db/models"
	"github.com/taskward/taskward/internal/tasktree"
	"github.com/taskward/taskward/internal/userstore"
)

const rightIDBudget models.RightID = "finance.budget"

// budgetPolicy is a specialized policy with its own per-entity checks:
// everybody may read, only user 3 may write.
type budgetPolicy struct {
	access.EntityPolicy
}

func (p *budgetPolicy) HasSelectAccess(user *models.User, obj any) bool  { return true }
func (p *budgetPolicy) HasInsertAccess(user *models.User, obj any) bool  { return user.ID == 3 }
func (p *budgetPolicy) HasUpdateAccess(user *models.User, _, _ any) bool { return user.ID == 3 }
func (p *budgetPolicy) HasDeleteAccess(user *models.User, _, _ any) bool { return false }
func (p *budgetPolicy) HasHistoryAccess(user *models.User, obj any) bool { return user.ID == 3 }

// timesheet is a minimal owned entity for self-service checks.
type timesheet struct {
	owner uint64
}

func (ts timesheet) OwnerID() uint64 { return ts.owner }

func uint64Ptr(v uint64) *uint64 {
	return &v
}

// newTestChecker builds a checker over this fixture:
//
//	groups:  Administrators (1), Employees (2), Leads (3)
//	users:   admin (1, g1), alice (2, g2), bob (3, g2+g3),
//	         carol (4, no groups), resty (5, g2, restricted),
//	         demo (6, g2, demo)
//	rights:  bob and resty hold core.user_management read-write
//	tree:    Root (1) > ProjectA (2) > SubA (3); ProjectB (4)
//	access:  Employees read tasks on ProjectA recursively,
//	         Leads fully control tasks on ProjectA recursively
func newTestChecker(t *testing.T) *access.Checker {
	t.Helper()

	registry := access.NewRegistry()
	registry.Register(access.RightIDCoreAdmin, &access.ValuePolicy{})
	registry.Register(access.RightIDTimesheet, &access.ValuePolicy{
		DefaultValue: models.RightValueReadOnly,
		SelfService:  true,
	})
	registry.Register(access.RightIDUserManagement, &access.ValuePolicy{})
	registry.Register(rightIDBudget, &budgetPolicy{})

	users := userstore.New("Administrators")
	users.RebuildFrom(
		[]models.User{
			{ID: 1, Username: "admin", Active: true},
			{ID: 2, Username: "alice", Active: true},
			{ID: 3, Username: "bob", Active: true},
			{ID: 4, Username: "carol", Active: true},
			{ID: 5, Username: "resty", Active: true, Restricted: true},
			{ID: 6, Username: "demo", Active: true, Demo: true},
		},
		[]models.Group{
			{ID: 1, Name: "Administrators"},
			{ID: 2, Name: "Employees"},
			{ID: 3, Name: "Leads"},
		},
		[]models.UserGroup{
			{UserID: 1, GroupID: 1},
			{UserID: 2, GroupID: 2},
			{UserID: 3, GroupID: 2},
			{UserID: 3, GroupID: 3},
			{UserID: 5, GroupID: 2},
			{UserID: 6, GroupID: 2},
		},
		[]models.UserRight{
			{UserID: 3, RightID: access.RightIDUserManagement, Value: models.RightValueReadWrite},
			{UserID: 5, RightID: access.RightIDUserManagement, Value: models.RightValueReadWrite},
		},
	)

	employeeBinding := models.GroupTaskAccess{GroupID: 2, TaskID: 2, Recursive: true}
	employeeBinding.SetAccessEntry(models.AccessTypeTasks, true, false, false, false)

	leadBinding := models.GroupTaskAccess{GroupID: 3, TaskID: 2, Recursive: true}
	leadBinding.SetAccessEntry(models.AccessTypeTasks, true, true, true, true)

	tree := tasktree.New()
	tree.RebuildFrom(
		[]models.Task{
			{ID: 1, Title: "Root"},
			{ID: 2, Title: "ProjectA", ParentID: uint64Ptr(1)},
			{ID: 3, Title: "SubA", ParentID: uint64Ptr(2)},
			{ID: 4, Title: "ProjectB", ParentID: uint64Ptr(1)},
		},
		[]models.GroupTaskAccess{employeeBinding, leadBinding},
	)

	return access.NewChecker(tree, users, registry)
}

func TestNewCheckerPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() {
		access.NewChecker(nil, nil, nil)
	})
}

func TestHasRight(t *testing.T) {
	checker := newTestChecker(t)

	alice := &models.User{ID: 2}
	bob := &models.User{ID: 3}
	resty := &models.User{ID: 5}

	testCases := []struct {
		name     string
		user     *models.User
		rightID  models.RightID
		required []models.RightValue
		expected bool
	}{
		{
			name:     "default value matches without assignment",
			user:     alice,
			rightID:  access.RightIDTimesheet,
			required: []models.RightValue{models.RightValueReadOnly},
			expected: true,
		},
		{
			name:     "default value does not escalate",
			user:     alice,
			rightID:  access.RightIDTimesheet,
			required: []models.RightValue{models.RightValueReadWrite},
			expected: false,
		},
		{
			name:     "no assignment and no default",
			user:     alice,
			rightID:  access.RightIDUserManagement,
			required: []models.RightValue{models.RightValueReadOnly, models.RightValueReadWrite},
			expected: false,
		},
		{
			name:     "assigned value matches",
			user:     bob,
			rightID:  access.RightIDUserManagement,
			required: []models.RightValue{models.RightValueReadWrite},
			expected: true,
		},
		{
			name:     "assigned value matches any candidate",
			user:     bob,
			rightID:  access.RightIDUserManagement,
			required: []models.RightValue{models.RightValueReadOnly, models.RightValueReadWrite},
			expected: true,
		},
		{
			name:     "read-write unavailable to restricted user",
			user:     resty,
			rightID:  access.RightIDUserManagement,
			required: []models.RightValue{models.RightValueReadWrite},
			expected: false,
		},
		{
			name:     "unknown user denied",
			user:     &models.User{ID: 99},
			rightID:  access.RightIDTimesheet,
			required: []models.RightValue{models.RightValueReadOnly},
			expected: false,
		},
		{
			name:     "nil user denied",
			user:     nil,
			rightID:  access.RightIDTimesheet,
			required: []models.RightValue{models.RightValueReadOnly},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, checker.HasRight(tc.user, tc.rightID, tc.required...))
		})
	}
}

func TestHasRightPanics(t *testing.T) {
	checker := newTestChecker(t)
	alice := &models.User{ID: 2}

	assert.Panics(t, func() {
		checker.HasRight(alice, access.RightIDTimesheet)
	}, "missing required values must panic")

	assert.Panics(t, func() {
		checker.HasRight(alice, models.RightID("hr.vacation"), models.RightValueReadOnly)
	}, "unknown right id must panic")
}

func TestCheckRight(t *testing.T) {
	checker := newTestChecker(t)
	alice := &models.User{ID: 2}

	assert.NoError(t, checker.CheckRight(alice, access.RightIDTimesheet, models.RightValueReadOnly))

	err := checker.CheckRight(alice, access.RightIDUserManagement, models.RightValueReadWrite)
	require.Error(t, err)

	var denied *access.DeniedError

	require.ErrorAs(t, err, &denied)
	assert.Equal(t, uint64(2), denied.UserID)
	assert.Equal(t, access.RightIDUserManagement, denied.RightID)
	assert.Equal(t, []models.RightValue{models.RightValueReadWrite}, denied.RequiredValues)
}

func TestHasAccessAdminBypass(t *testing.T) {
	checker := newTestChecker(t)

	admin := &models.User{ID: 1}
	alice := &models.User{ID: 2}

	for _, op := range []models.OperationType{models.OperationSelect, models.OperationInsert, models.OperationUpdate, models.OperationDelete} {
		assert.True(t, checker.HasAccess(admin, access.RightIDCoreAdmin, nil, nil, op), "admin should pass %s", op)
		assert.False(t, checker.HasAccess(alice, access.RightIDCoreAdmin, nil, nil, op), "non-admin should fail %s", op)
	}
}

func TestHasAccessGenericValueCheck(t *testing.T) {
	checker := newTestChecker(t)

	alice := &models.User{ID: 2}
	bob := &models.User{ID: 3}

	// default read-only lets alice read timesheets but not write foreign ones
	assert.True(t, checker.HasAccess(alice, access.RightIDTimesheet, timesheet{owner: 3}, nil, models.OperationSelect))
	assert.False(t, checker.HasAccess(alice, access.RightIDTimesheet, timesheet{owner: 3}, timesheet{owner: 3}, models.OperationUpdate))

	// bob's read-write assignment covers both reads and writes
	assert.True(t, checker.HasAccess(bob, access.RightIDUserManagement, nil, nil, models.OperationSelect))
	assert.True(t, checker.HasAccess(bob, access.RightIDUserManagement, nil, nil, models.OperationInsert))
}

func TestHasAccessOwnerSelfService(t *testing.T) {
	checker := newTestChecker(t)

	alice := &models.User{ID: 2}

	own := timesheet{owner: 2}
	foreign := timesheet{owner: 3}

	// owners may modify and delete their own entities without read-write
	assert.True(t, checker.HasAccess(alice, access.RightIDTimesheet, own, own, models.OperationUpdate))
	assert.True(t, checker.HasAccess(alice, access.RightIDTimesheet, own, own, models.OperationDelete))

	assert.False(t, checker.HasAccess(alice, access.RightIDTimesheet, foreign, foreign, models.OperationUpdate))

	// reassigning ownership away from yourself is not self-service
	assert.False(t, checker.HasAccess(alice, access.RightIDTimesheet, foreign, own, models.OperationUpdate))
	assert.False(t, checker.HasAccess(alice, access.RightIDTimesheet, own, foreign, models.OperationUpdate))

	// insert is not part of self-service, the value check applies
	assert.False(t, checker.HasAccess(alice, access.RightIDTimesheet, own, nil, models.OperationInsert))
}

func TestHasAccessEntityPolicy(t *testing.T) {
	checker := newTestChecker(t)

	alice := &models.User{ID: 2}
	bob := &models.User{ID: 3}

	assert.True(t, checker.HasAccess(alice, rightIDBudget, nil, nil, models.OperationSelect))
	assert.False(t, checker.HasAccess(alice, rightIDBudget, nil, nil, models.OperationInsert))
	assert.True(t, checker.HasAccess(bob, rightIDBudget, nil, nil, models.OperationInsert))
	assert.True(t, checker.HasAccess(bob, rightIDBudget, nil, nil, models.OperationUpdate))
	assert.False(t, checker.HasAccess(bob, rightIDBudget, nil, nil, models.OperationDelete))

	assert.Panics(t, func() {
		checker.HasAccess(bob, rightIDBudget, nil, nil, models.OperationUndelete)
	}, "undelete on an entity policy must panic")
}

func TestHasHistoryAccess(t *testing.T) {
	checker := newTestChecker(t)

	alice := &models.User{ID: 2}
	bob := &models.User{ID: 3}

	// generic rights require read access to the entity
	assert.True(t, checker.HasHistoryAccess(alice, access.RightIDTimesheet, timesheet{owner: 3}))
	assert.False(t, checker.HasHistoryAccess(alice, access.RightIDUserManagement, nil))

	// specialized policies decide themselves
	assert.False(t, checker.HasHistoryAccess(alice, rightIDBudget, nil))
	assert.True(t, checker.HasHistoryAccess(bob, rightIDBudget, nil))
}

func TestHasPermission(t *testing.T) {
	checker := newTestChecker(t)

	admin := &models.User{ID: 1}
	alice := &models.User{ID: 2}
	bob := &models.User{ID: 3}
	carol := &models.User{ID: 4}

	testCases := []struct {
		name     string
		user     *models.User
		taskID   uint64
		op       models.OperationType
		expected bool
	}{
		{name: "member reads bound task", user: alice, taskID: 2, op: models.OperationSelect, expected: true},
		{name: "member reads subtask via recursion", user: alice, taskID: 3, op: models.OperationSelect, expected: true},
		{name: "member cannot write", user: alice, taskID: 2, op: models.OperationInsert, expected: false},
		{name: "member without grant on sibling subtree", user: alice, taskID: 4, op: models.OperationSelect, expected: false},
		{name: "any qualifying group grants", user: bob, taskID: 3, op: models.OperationInsert, expected: true},
		{name: "user without groups denied", user: carol, taskID: 2, op: models.OperationSelect, expected: false},
		{name: "admin bypasses bindings", user: admin, taskID: 4, op: models.OperationDelete, expected: true},
		{name: "unknown task denied even for admin", user: admin, taskID: 99, op: models.OperationSelect, expected: false},
		{name: "unknown user denied", user: &models.User{ID: 99}, taskID: 2, op: models.OperationSelect, expected: false},
		{name: "nil user denied", user: nil, taskID: 2, op: models.OperationSelect, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, checker.HasPermission(tc.user, tc.taskID, models.AccessTypeTasks, tc.op))
		})
	}
}

func TestCheckPermission(t *testing.T) {
	checker := newTestChecker(t)
	alice := &models.User{ID: 2}

	assert.NoError(t, checker.CheckPermission(alice, 2, models.AccessTypeTasks, models.OperationSelect))

	err := checker.CheckPermission(alice, 2, models.AccessTypeTasks, models.OperationDelete)
	require.Error(t, err)

	var denied *access.DeniedError

	require.ErrorAs(t, err, &denied)
	assert.Equal(t, uint64(2), denied.UserID)
	assert.Equal(t, uint64(2), denied.TaskID)
	assert.Equal(t, models.AccessTypeTasks, denied.AccessType)
	assert.Equal(t, models.OperationDelete, denied.Operation)
}

func TestGroupMembership(t *testing.T) {
	checker := newTestChecker(t)

	admin := &models.User{ID: 1}
	alice := &models.User{ID: 2}

	assert.True(t, checker.IsUserMemberOfGroup(alice, 2))
	assert.False(t, checker.IsUserMemberOfGroup(alice, 3))

	assert.True(t, checker.IsUserMemberOfAdminGroup(admin))
	assert.False(t, checker.IsUserMemberOfAdminGroup(alice))

	assert.NoError(t, checker.CheckGroupMembership(alice, 2))

	err := checker.CheckGroupMembership(alice, 1)
	require.Error(t, err)

	var denied *access.DeniedError

	require.ErrorAs(t, err, &denied)
	assert.Equal(t, models.AccessTypeGroup, denied.AccessType)
}

func TestIsRestrictedUser(t *testing.T) {
	checker := newTestChecker(t)

	assert.True(t, checker.IsRestrictedUser(&models.User{ID: 5}))
	assert.False(t, checker.IsRestrictedUser(&models.User{ID: 2}))

	// unresolvable users count as restricted
	assert.True(t, checker.IsRestrictedUser(&models.User{ID: 99}))
	assert.True(t, checker.IsRestrictedUser(nil))
}

func TestIsDemoUser(t *testing.T) {
	checker := newTestChecker(t)

	assert.True(t, checker.IsDemoUser(&models.User{ID: 6}))
	assert.False(t, checker.IsDemoUser(&models.User{ID: 2}))
	assert.False(t, checker.IsDemoUser(&models.User{ID: 99}))
}
