package main

import (
	"github.com/polemika/polemika/config"
	"github.com/polemika/polemika/models"
	"github.com/polemika/polemika/routes"
	"github.com/polemika/polemika/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Post{}, &models.Comment{}, &models.Vote{})

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
