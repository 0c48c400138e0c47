// handlers/game.go
package handlers

import (
	"github.com/mitchelson/dividida/middleware"
	"github.com/mitchelson/dividida/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService) {
	// Public routes: anyone with the link can read the game.
	app.Post("/games", gameService.CreateGame)
	app.Get("/games", gameService.GetAllGames)
	app.Get("/games/slug/:slug", gameService.GetGameBySlug)
	app.Get("/games/:id", gameService.GetGameByID)
	app.Get("/games/:id/share", gameService.ShareGame)
	app.Post("/games/:id/verify-password", gameService.VerifyPassword)

	// Admin routes: gated by the game's own password.
	admin := middleware.AdminPassword(gameService.DB)
	app.Put("/games/:id", admin, gameService.UpdateGame)
	app.Delete("/games/:id", admin, gameService.DeleteGame)
	app.Post("/games/:id/champion-photo", admin, gameService.UploadChampionPhoto)
}
