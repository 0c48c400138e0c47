// handlers/match.go
package handlers

import (
	"github.com/mitchelson/dividida/middleware"
	"github.com/mitchelson/dividida/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService) {
	app.Get("/games/:id/matches", matchService.GetMatches)
	app.Get("/games/:id/matches/:matchId/goals", matchService.GetGoals)
	app.Get("/games/:id/summary", matchService.GetSummary)

	admin := middleware.AdminPassword(matchService.DB)
	app.Post("/games/:id/matches", admin, matchService.CreateMatch)
	app.Put("/games/:id/matches/:matchId", admin, matchService.UpdateMatch)
	app.Delete("/games/:id/matches/:matchId", admin, matchService.DeleteMatch)
	app.Post("/games/:id/matches/:matchId/goals", admin, matchService.AddGoal)
	app.Delete("/games/:id/matches/:matchId/goals/:goalId", admin, matchService.DeleteGoal)
}
