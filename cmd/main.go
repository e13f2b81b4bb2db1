package main

import (
	"os"

	"github.com/mehrap673/WellBud/config"
	"github.com/mehrap673/WellBud/routes"
	"github.com/mehrap673/WellBud/services"
	"github.com/mehrap673/WellBud/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	utils.InitMailer()

	hub := services.NewRealtimeHub()
	services.InitAlertDeps(config.DB, hub)

	r := routes.SetupRouter(hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	r.Run(":" + port)
}
