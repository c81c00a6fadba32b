package api

import (
	"github.com/gofiber/fiber/v2"
)

func triggerSweep(c *fiber.Ctx) error {
	Sweeper.RunSweep(c.Context())
	return c.SendStatus(fiber.StatusNoContent)
}
