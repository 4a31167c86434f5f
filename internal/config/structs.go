package config

import (
	"github.com/taskward/taskward/internal/logger"
)

// Access holds settings for the access-control engine.
type Access struct {
	// AdminGroupName is the well-known group whose members bypass
	// task-scoped permission checks.
	AdminGroupName string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Access    Access
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	DisableRecover bool   // disable recover middleware
}
