package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestReadConfig(t *testing.T) {
	var (
		err         error
		projectRoot string
	)

	// Get the project root by going up from internal/config
	projectRoot, err = filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	var cfg Config

	cfg, err = ReadConfig(configPath)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	// Test basic config fields
	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	// Test DB config
	if cfg.DB.Host == "" {
		t.Error("DB.Host should not be empty")
	}

	if cfg.Access.AdminGroupName == "" {
		t.Error("Access.AdminGroupName should not be empty")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Access:    Access{AdminGroupName: "Administrators"},
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
	}

	if err := validate(base); err != nil {
		t.Errorf("validate() error = %v", err)
	}

	noPort := base
	noPort.Webserver.Port = 0

	if err := validate(noPort); !errors.Is(err, ErrWebServerPortCanNotBeZero) {
		t.Errorf("validate() error = %v, want %v", err, ErrWebServerPortCanNotBeZero)
	}

	noURL := base
	noURL.Webserver.URL = ""

	if err := validate(noURL); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("validate() error = %v, want %v", err, ErrEmptyURL)
	}

	noAdminGroup := base
	noAdminGroup.Access.AdminGroupName = ""

	if err := validate(noAdminGroup); !errors.Is(err, ErrEmptyAdminGroupName) {
		t.Errorf("validate() error = %v, want %v", err, ErrEmptyAdminGroupName)
	}
}
