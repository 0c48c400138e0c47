// handlers/participant.go
package handlers

import (
	"github.com/mitchelson/dividida/middleware"
	"github.com/mitchelson/dividida/services"

	"github.com/gofiber/fiber/v2"
)

func SetupParticipantRoutes(app *fiber.App, participantService *services.ParticipantService) {
	// Joining and reading the list is open.
	app.Post("/games/:id/participants", participantService.JoinGame)
	app.Get("/games/:id/participants", participantService.GetParticipants)

	// Everything that edits the list is admin-only.
	admin := middleware.AdminPassword(participantService.DB)
	app.Put("/games/:id/participants/reorder", admin, participantService.ReorderParticipants)
	app.Put("/games/:id/participants/assign-teams", admin, participantService.AssignTeams)
	app.Put("/games/:id/participants/:participantId", admin, participantService.UpdateParticipant)
	app.Delete("/games/:id/participants/:participantId", admin, participantService.DeleteParticipant)
}
