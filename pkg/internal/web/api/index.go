package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/driftvale/tempvoice/pkg/internal/services"
)

// Wired once at startup, before the server starts listening.
var (
	Channels services.ChannelStore
	Guilds   services.GuildStore
	Sweeper  *services.Cleaner
)

func MapAPIs(app *fiber.App, baseURL string) {
	app.Get("/.well-known", getMetadata)

	api := app.Group(baseURL).Name("API").Use(authMiddleware)
	{
		channels := api.Group("/channels").Name("Channels API")
		{
			channels.Get("/", listChannel)
			channels.Get("/:channelId", getChannel)
		}

		guilds := api.Group("/guilds").Name("Guilds API")
		{
			guilds.Get("/:guildId/config", getGuildConfig)
			guilds.Put("/:guildId/config", editGuildConfig)
		}

		api.Post("/sweep", triggerSweep)
	}
}
