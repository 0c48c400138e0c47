package middleware

import (
	"errors"
	"log"

	"github.com/mitchelson/dividida/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminPassword guards the mutating routes of a game. There are no user
// accounts on the admin side: whoever presents the game's password in
// the X-Admin-Password header is the admin. The route must carry the
// game id in the :id param.
func AdminPassword(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		gameID := c.Params("id")
		password := c.Get("X-Admin-Password")
		if password == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-Admin-Password header",
			})
		}

		var game models.Game
		if err := db.Select("id, password_hash").First(&game, "id = ?", gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}

		if err := bcrypt.CompareHashAndPassword([]byte(game.PasswordHash), []byte(password)); err != nil {
			log.Printf("[Auth] wrong admin password for game %s on %s", gameID, c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid password"})
		}
		return c.Next()
	}
}
