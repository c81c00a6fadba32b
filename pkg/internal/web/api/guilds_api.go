package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/driftvale/tempvoice/pkg/internal/models"
	"github.com/driftvale/tempvoice/pkg/internal/services"
	"github.com/driftvale/tempvoice/pkg/internal/web/exts"
)

func getGuildConfig(c *fiber.Ctx) error {
	config, err := Guilds.Get(c.Context(), c.Params("guildId"))
	if err != nil {
		if errors.Is(err, services.ErrGuildNotSetUp) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(config)
}

func editGuildConfig(c *fiber.Ctx) error {
	var data struct {
		CategoryID       string `json:"category_id" validate:"required"`
		CreatorChannelID string `json:"creator_channel_id" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	config := &models.GuildConfig{
		GuildID:          c.Params("guildId"),
		CategoryID:       data.CategoryID,
		CreatorChannelID: data.CreatorChannelID,
	}
	if err := Guilds.Save(c.Context(), config); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(config)
}
