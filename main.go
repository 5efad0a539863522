package main

import (
	"github.com/alvinsyah/goblog/config"
	"github.com/alvinsyah/goblog/models"
	"github.com/alvinsyah/goblog/routes"
	"github.com/alvinsyah/goblog/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Role{}, &models.User{}, &models.Category{}, &models.Post{}, &models.Comment{})

	// Default roles and the bootstrap admin must exist before serving.
	if err := utils.SeedDefaults(db); err != nil {
		utils.Sugar.Fatalf("failed to seed defaults: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
