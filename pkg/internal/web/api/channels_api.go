package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/driftvale/tempvoice/pkg/internal/services"
)

func listChannel(c *fiber.Ctx) error {
	channels, err := Channels.List(c.Context(), c.Query("guild"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(channels)
}

func getChannel(c *fiber.Ctx) error {
	channel, err := Channels.Get(c.Context(), c.Params("channelId"))
	if err != nil {
		if errors.Is(err, services.ErrChannelNotManaged) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(channel)
}
