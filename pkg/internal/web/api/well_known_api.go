package api

import (
	"github.com/gofiber/fiber/v2"

	pkg "github.com/driftvale/tempvoice/pkg/internal"
)

func getMetadata(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    "Driftvale.TempVoice",
		"version": pkg.AppVersion,
	})
}
