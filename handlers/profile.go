// handlers/profile.go
package handlers

import (
	"github.com/mitchelson/dividida/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService) {
	// Profiles are self-managed by id; auth lives outside this service.
	app.Get("/profile/:id", profileService.GetProfile)
	app.Put("/profile/:id", profileService.UpsertProfile)
	app.Post("/profile/:id/avatar", profileService.UploadAvatar)
}
