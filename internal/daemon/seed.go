package daemon

import (
	"gorm.io/gorm"

	"github.com/taskward/taskward/internal/config"
	"github.com/taskward/taskward/internal/db/models"
)

func seed(cfg *config.Config, db *gorm.DB) {
	// Seed initial data if the group table is empty.

	var count int64
	db.Model(&models.Group{}).Count(&count)
	if count > 0 {
		return
	}

	adminGroup := models.Group{
		Name:        cfg.Access.AdminGroupName,
		Description: "Members bypass task-scoped permission checks",
	}
	db.Create(&adminGroup)

	employeeGroup := models.Group{
		Name:        "Employees",
		Description: "Default group for all employees",
	}
	db.Create(&employeeGroup)

	rootTask := models.Task{Title: "Root"}
	db.Create(&rootTask)

	adminUser := models.User{Username: "admin", Active: true}
	db.Create(&adminUser)
	db.Create(&models.UserGroup{UserID: adminUser.ID, GroupID: adminGroup.ID})

	demoUser := models.User{Username: "demo", Active: true, Demo: true, Restricted: true}
	db.Create(&demoUser)
	db.Create(&models.UserGroup{UserID: demoUser.ID, GroupID: employeeGroup.ID})

	// employees get the canonical employee access on the whole tree.
	binding := models.GroupTaskAccess{
		GroupID:     employeeGroup.ID,
		TaskID:      rootTask.ID,
		Recursive:   true,
		Description: "Default employee access",
	}
	binding.TemplateEmployee()
	db.Create(&binding)
}
