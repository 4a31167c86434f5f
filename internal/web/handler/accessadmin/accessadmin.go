// Package accessadmin provides the JSON handlers for managing group-task
// access bindings.
package accessadmin

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/taskward/taskward/internal/access"
	"github.com/taskward/taskward/internal/config"
	"github.com/taskward/taskward/internal/db/controller/groupaccess"
	"github.com/taskward/taskward/internal/db/models"
	"github.com/taskward/taskward/internal/tasktree"
	accessmw "github.com/taskward/taskward/internal/web/middleware/access"
)

const (
	// Path is the base path for access binding management.
	Path = "/api/access"

	// RouteCheck is the route for soft permission checks.
	RouteCheck = Path + "/check"
	// RouteByID is the route addressing a single binding.
	RouteByID = Path + "/:id"
	// RouteUndelete is the route restoring a soft-deleted binding.
	RouteUndelete = Path + "/:id/undelete"

	// ErrInvalidID is returned when the provided id parameter is invalid or non-positive.
	ErrInvalidID = "Invalid id"
	// ErrInvalidQuery is returned when the query parameters are invalid.
	ErrInvalidQuery = "Invalid query parameters"
	// ErrInvalidBody is returned when the request body cannot be parsed.
	ErrInvalidBody = "Invalid request body"
	// ErrValidationPrefix prefixes validation error messages.
	ErrValidationPrefix = "Validation failed: "
)

// Service provides CRUD handlers for bindings.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	checker   *access.Checker
	tree      *tasktree.Tree
	users     access.UserStore
	validator *validator.Validate
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, checker *access.Checker, tree *tasktree.Tree, users access.UserStore) {
	if app == nil || cfg == nil || db == nil || checker == nil || tree == nil || users == nil {
		log.Fatal().Msg("accessadmin: nil dependency")
		return
	}

	s.cfg = cfg
	s.db = db
	s.checker = checker
	s.tree = tree
	s.users = users
	s.validator = validator.New()

	resolve := accessmw.ResolveUser(users)

	app.Get(RouteCheck, resolve, s.Check)
	app.Get(Path, resolve, s.List)
	app.Get(RouteByID, resolve, s.Get)
	app.Post(Path, resolve, s.Create)
	app.Put(RouteByID, resolve, s.Update)
	app.Delete(RouteByID, resolve, s.Delete)
	app.Post(RouteUndelete, resolve, s.Undelete)
}

// Check answers a soft permission question without ever failing hard.
func (s *Service) Check(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil || userID == 0 {
		return c.Status(fiber.StatusBadRequest).SendString(ErrInvalidQuery)
	}

	taskID, err := strconv.ParseUint(c.Query("taskId"), 10, 64)
	if err != nil || taskID == 0 {
		return c.Status(fiber.StatusBadRequest).SendString(ErrInvalidQuery)
	}

	accessType, err := models.ParseAccessType(c.Query("type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(ErrInvalidQuery)
	}

	op, err := models.ParseOperationType(c.Query("op"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(ErrInvalidQuery)
	}

	granted := s.checker.HasPermission(&models.User{ID: userID}, taskID, accessType, op)

	return c.JSON(checkResponse{
		UserID:     userID,
		TaskID:     taskID,
		AccessType: string(accessType),
		Operation:  string(op),
		Granted:    granted,
	})
}

// List returns the bindings of a subtree query.
func (s *Service) List(c *fiber.Ctx) error {
	taskID, err := strconv.ParseUint(c.Query("taskId"), 10, 64)
	if err != nil || taskID == 0 {
		return c.Status(fiber.StatusBadRequest).SendString(ErrInvalidQuery)
	}

	var filterUserID uint64

	if raw := c.Query("userId"); raw != "" {
		filterUserID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil || filterUserID == 0 {
			return c.Status(fiber.StatusBadRequest).SendString(ErrInvalidQuery)
		}
	}

	query := access.BindingQuery{
		TaskID:             taskID,
		IncludeAncestors:   c.QueryBool("includeAncestors"),
		IncludeDescendants: c.QueryBool("includeDescendants"),
		Inherit:            c.QueryBool("inherit"),
		UserID:             filterUserID,
	}

	bindings, err := groupaccess.List(s.db, s.checker, s.tree, accessmw.ActingUser(c), query)
	if err != nil {
		return s.renderError(c, err)
	}

	response := make([]bindingResponse, len(bindings))
	for i := range bindings {
		response[i] = toResponse(&bindings[i])
	}

	return c.JSON(response)
}

// Get returns a single binding.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).SendString(ErrInvalidID)
	}

	binding, err := groupaccess.Get(s.db, s.checker, accessmw.ActingUser(c), id)
	if err != nil {
		return s.renderError(c, err)
	}

	return c.JSON(toResponse(binding))
}

// Create stores a new binding.
func (s *Service) Create(c *fiber.Ctx) error {
	payload, err := s.parsePayload(c)
	if err != nil {
		return nil //nolint:nilerr // response already rendered
	}

	binding := fromPayload(payload)

	if err := groupaccess.Create(s.db, s.checker, accessmw.ActingUser(c), binding); err != nil {
		return s.renderError(c, err)
	}

	s.rebuildTree()

	return c.Status(fiber.StatusCreated).JSON(toResponse(binding))
}

// Update stores changes to an existing binding, including moves to another
// task.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).SendString(ErrInvalidID)
	}

	payload, err := s.parsePayload(c)
	if err != nil {
		return nil //nolint:nilerr // response already rendered
	}

	binding := fromPayload(payload)
	binding.ID = id

	if err := groupaccess.Update(s.db, s.checker, accessmw.ActingUser(c), binding); err != nil {
		return s.renderError(c, err)
	}

	s.rebuildTree()

	return c.JSON(toResponse(binding))
}

// Delete soft-deletes a binding.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).SendString(ErrInvalidID)
	}

	if err := groupaccess.Delete(s.db, s.checker, accessmw.ActingUser(c), id); err != nil {
		return s.renderError(c, err)
	}

	s.rebuildTree()

	return c.SendStatus(fiber.StatusNoContent)
}

// Undelete restores a soft-deleted binding.
func (s *Service) Undelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).SendString(ErrInvalidID)
	}

	if err := groupaccess.Undelete(s.db, s.checker, accessmw.ActingUser(c), id); err != nil {
		return s.renderError(c, err)
	}

	s.rebuildTree()

	return c.SendStatus(fiber.StatusNoContent)
}

// parsePayload parses and validates the request body, rendering the error
// response itself on failure.
func (s *Service) parsePayload(c *fiber.Ctx) (*bindingPayload, error) {
	var payload bindingPayload

	if err := c.BodyParser(&payload); err != nil {
		_ = c.Status(fiber.StatusBadRequest).SendString(ErrInvalidBody)
		return nil, err
	}

	if err := s.validator.Struct(&payload); err != nil {
		_ = c.Status(fiber.StatusBadRequest).SendString(ErrValidationPrefix + err.Error())
		return nil, err
	}

	return &payload, nil
}

// renderError maps controller errors to HTTP responses.
func (s *Service) renderError(c *fiber.Ctx, err error) error {
	switch {
	case access.IsDenied(err):
		return accessmw.Denied(c, err)
	case errors.Is(err, groupaccess.ErrBindingNotFound):
		return c.Status(fiber.StatusNotFound).SendString(err.Error())
	case errors.Is(err, groupaccess.ErrBindingAlreadyExists),
		errors.Is(err, groupaccess.ErrBindingNotDeleted):
		return c.Status(fiber.StatusConflict).SendString(err.Error())
	}

	log.Error().Err(err).Msg("access binding operation failed")

	return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
}

// rebuildTree refreshes the task tree cache after binding changes.
func (s *Service) rebuildTree() {
	if err := s.tree.Rebuild(s.db); err != nil {
		log.Error().Err(err).Msg("failed to rebuild task tree after binding change")
	}
}

// fromPayload converts a request payload into a binding model.
func fromPayload(payload *bindingPayload) *models.GroupTaskAccess {
	binding := &models.GroupTaskAccess{
		GroupID:     payload.GroupID,
		TaskID:      payload.TaskID,
		Recursive:   true,
		Description: payload.Description,
	}

	if payload.Recursive != nil {
		binding.Recursive = *payload.Recursive
	}

	switch payload.Template {
	case "clear":
		binding.Clear()
	case "guest":
		binding.TemplateGuest()
	case "employee":
		binding.TemplateEmployee()
	case "leader":
		binding.TemplateLeader()
	case "administrator":
		binding.TemplateAdministrator()
	}

	for _, entry := range payload.Entries {
		binding.SetAccessEntry(models.AccessType(entry.AccessType),
			entry.Select, entry.Insert, entry.Update, entry.Delete)
	}

	return binding
}

// toResponse converts a binding model into its JSON shape.
func toResponse(binding *models.GroupTaskAccess) bindingResponse {
	entries := make([]entryPayload, len(binding.Entries))
	for i, entry := range binding.Entries {
		entries[i] = entryPayload{
			AccessType: string(entry.AccessType),
			Select:     entry.AccessSelect,
			Insert:     entry.AccessInsert,
			Update:     entry.AccessUpdate,
			Delete:     entry.AccessDelete,
		}
	}

	return bindingResponse{
		ID:          binding.ID,
		GroupID:     binding.GroupID,
		TaskID:      binding.TaskID,
		Recursive:   binding.Recursive,
		Description: binding.Description,
		Deleted:     binding.HasDeleted(),
		Entries:     entries,
	}
}
