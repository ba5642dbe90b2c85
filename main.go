package main

import (
	"context"
	"os"

	"library-management-backend/app"
	"library-management-backend/config"
	"library-management-backend/db"
	"library-management-backend/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	app.BootstrapFirstAdmin(
		context.Background(),
		application.Config,
		db.NewRepo(application.DB),
		application.Log,
	)

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	application.Log.Info().Str("port", port).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		application.Log.Fatal().Err(err).Msg("server exited")
	}
}
