package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.CurrentUser)
	auth.Delete("/account", handler.AuthRequired, handler.DeleteAccount)

	fields := api.Group("/fields", handler.AuthRequired)
	fields.Get("", handler.GetFields)
	fields.Post("", handler.CreateField)
	fields.Put("/:id", handler.UpdateField)
	fields.Delete("/:id", handler.DeleteField)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Get("", handler.GetEntries)
	entries.Get("/:date", handler.GetEntryForDay)
	entries.Post("/:date", handler.UpsertEntry)
	entries.Delete("/:id", handler.DeleteEntry)

	analysis := api.Group("/analysis", handler.AuthRequired)
	analysis.Get("/series", handler.GetSeries)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)

	api.Delete("/cache", handler.AuthRequired, handler.ClearCache)
}
