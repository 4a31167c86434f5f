// Package daemon wires the database, the collaborator caches, the access
// checker and the web service together.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/taskward/taskward/internal/access"
	"github.com/taskward/taskward/internal/config"
	"github.com/taskward/taskward/internal/db/dsn"
	"github.com/taskward/taskward/internal/db/models"
	"github.com/taskward/taskward/internal/logger"
	"github.com/taskward/taskward/internal/tasktree"
	"github.com/taskward/taskward/internal/userstore"
	"github.com/taskward/taskward/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}

	db, err := gorm.Open(openDialector(cfg), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.UserGroup{},
		&models.UserRight{},
		&models.Task{},
		&models.GroupTaskAccess{},
		&models.AccessEntry{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	registry := access.NewRegistry()
	registerRights(registry)

	users := userstore.New(cfg.Access.AdminGroupName)
	if err := users.Rebuild(db); err != nil {
		panic("failed to build user store")
	}

	tree := tasktree.New()
	if err := tree.Rebuild(db); err != nil {
		panic("failed to build task tree")
	}

	checker := access.NewChecker(tree, users, registry)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, checker, tree, users),
	}
}

// openDialector selects the gorm driver by the configured engine.
func openDialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case "postgres":
		return gormpostgres.Open(dsn.CreatePostgres(cfg))
	case "sqlite":
		return sqlite.Open(cfg.DB.Name)
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}

// registerRights populates the right registry. Each business module
// registers its rights here; the registry is read-only afterwards.
func registerRights(registry *access.Registry) {
	registry.Register(access.RightIDCoreAdmin, &access.ValuePolicy{})

	// timesheets are readable by everyone by default and editable by their
	// owner through self-service.
	registry.Register(access.RightIDTimesheet, &access.ValuePolicy{
		DefaultValue: models.RightValueReadOnly,
		SelfService:  true,
	})

	registry.Register(access.RightIDUserManagement, &access.ValuePolicy{})
}
