package access

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward/internal/access"
	"github.com/taskward/taskward/internal/db/models"
	"github.com/taskward/taskward/internal/tasktree"
	"github.com/taskward/taskward/internal/userstore"
)

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func newTestDeps(t *testing.T) (*access.Checker, *userstore.Store) {
	t.Helper()

	users := userstore.New("Administrators")
	users.RebuildFrom(
		[]models.User{
			{ID: 1, Username: "admin", Active: true},
			{ID: 2, Username: "alice", Active: true},
			{ID: 3, Username: "carol", Active: true},
		},
		[]models.Group{
			{ID: 1, Name: "Administrators"},
			{ID: 2, Name: "Employees"},
		},
		[]models.UserGroup{
			{UserID: 1, GroupID: 1},
			{UserID: 2, GroupID: 2},
		},
		nil,
	)

	binding := models.GroupTaskAccess{GroupID: 2, TaskID: 2, Recursive: true}
	binding.SetAccessEntry(models.AccessTypeTasks, true, false, false, false)

	tree := tasktree.New()
	tree.RebuildFrom(
		[]models.Task{
			{ID: 1, Title: "Root"},
			{ID: 2, Title: "ProjectA", ParentID: uint64Ptr(1)},
		},
		[]models.GroupTaskAccess{binding},
	)

	registry := access.NewRegistry()
	registry.Register(access.RightIDCoreAdmin, &access.ValuePolicy{})

	return access.NewChecker(tree, users, registry), users
}

func TestResolveUser(t *testing.T) {
	_, users := newTestDeps(t)

	app := fiber.New()
	app.Get("/whoami", ResolveUser(users), func(c *fiber.Ctx) error {
		return c.SendString(ActingUser(c).Username)
	})

	testCases := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "missing header", header: "", expectedStatus: fiber.StatusUnauthorized},
		{name: "malformed header", header: "abc", expectedStatus: fiber.StatusUnauthorized},
		{name: "zero id", header: "0", expectedStatus: fiber.StatusUnauthorized},
		{name: "unknown user", header: "99", expectedStatus: fiber.StatusUnauthorized},
		{name: "known user", header: "2", expectedStatus: fiber.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set(HeaderActingUser, tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func TestActingUserAbsent(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Nil(t, ActingUser(c))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireTaskPermission(t *testing.T) {
	checker, users := newTestDeps(t)

	app := fiber.New()
	app.Get("/tasks/:taskId", ResolveUser(users),
		RequireTaskPermission(checker, models.AccessTypeTasks, models.OperationSelect),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})

	testCases := []struct {
		name           string
		userID         string
		path           string
		expectedStatus int
	}{
		{name: "member granted", userID: "2", path: "/tasks/2", expectedStatus: fiber.StatusOK},
		{name: "admin granted", userID: "1", path: "/tasks/1", expectedStatus: fiber.StatusOK},
		{name: "member without binding denied", userID: "2", path: "/tasks/1", expectedStatus: fiber.StatusForbidden},
		{name: "user without groups denied", userID: "3", path: "/tasks/2", expectedStatus: fiber.StatusForbidden},
		{name: "invalid task id", userID: "2", path: "/tasks/abc", expectedStatus: fiber.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tc.path, nil)
			req.Header.Set(HeaderActingUser, tc.userID)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func TestDenied(t *testing.T) {
	app := fiber.New()
	app.Get("/denied", func(c *fiber.Ctx) error {
		return Denied(c, &access.DeniedError{UserID: 2, TaskID: 3, AccessType: models.AccessTypeTasks})
	})
	app.Get("/other", func(c *fiber.Ctx) error {
		return Denied(c, errors.New("database gone"))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/denied", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// non-denials propagate to the fiber error handler
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/other", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
