// Package access provides fiber middleware enforcing task-scoped
// permissions through the access checker. Session handling lives outside
// this service; the acting user is taken from the X-Acting-User header set
// by the gateway.
package access

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/taskward/taskward/internal/access"
	"github.com/taskward/taskward/internal/db/models"
)

const (
	// HeaderActingUser carries the id of the authenticated acting user.
	HeaderActingUser = "X-Acting-User"

	// LocalActingUser is the fiber locals key the resolved user is stored
	// under.
	LocalActingUser = "ActingUser"
)

// ResolveUser is fiber middleware resolving the acting user from the
// request header. Requests without a resolvable user are rejected.
func ResolveUser(users access.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(HeaderActingUser)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing acting user",
			})
		}

		id, err := strconv.ParseUint(header, 10, 64)
		if err != nil || id == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid acting user",
			})
		}

		user := users.User(id)
		if user == nil {
			log.Warn().Uint64("user_id", id).Msg("unknown acting user")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unknown acting user",
			})
		}

		c.Locals(LocalActingUser, user)

		return c.Next()
	}
}

// ActingUser returns the user resolved by ResolveUser, nil if absent.
func ActingUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalActingUser).(*models.User)
	return user
}

// RequireTaskPermission creates fiber middleware that requires a
// task-scoped permission on the task named by the taskId path or query
// parameter.
func RequireTaskPermission(checker *access.Checker, accessType models.AccessType, op models.OperationType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := ActingUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing acting user",
			})
		}

		raw := c.Params("taskId")
		if raw == "" {
			raw = c.Query("taskId")
		}

		taskID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || taskID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid task id",
			})
		}

		if err := checker.CheckPermission(user, taskID, accessType, op); err != nil {
			return Denied(c, err)
		}

		return c.Next()
	}
}

// Denied renders an authorization error as a structured 403 response.
// Errors that are not denials propagate to the fiber error handler.
func Denied(c *fiber.Ctx, err error) error {
	var denied *access.DeniedError
	if !errors.As(err, &denied) {
		return err
	}

	log.Warn().Uint64("user_id", denied.UserID).Uint64("task_id", denied.TaskID).
		Str("access_type", string(denied.AccessType)).Str("right", string(denied.RightID)).
		Str("operation", string(denied.Operation)).
		Msg("access denied")

	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error":      "access denied",
		"messageKey": denied.I18nKey(),
		"userId":     denied.UserID,
		"taskId":     denied.TaskID,
		"accessType": denied.AccessType,
		"rightId":    denied.RightID,
		"operation":  denied.Operation,
	})
}
