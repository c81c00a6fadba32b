package bot

import "github.com/bwmarrin/discordgo"

func userOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    true,
	}
}

func privacyChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Visible", Value: "visible"},
		{Name: "Invisible", Value: "invisible"},
		{Name: "Lock", Value: "lock"},
		{Name: "Unlock", Value: "unlock"},
		{Name: "Spectator", Value: "spectator"},
		{Name: "Open Mic", Value: "open"},
	}
}

func regionChoices() []*discordgo.ApplicationCommandOptionChoice {
	// Keep the order stable so re-registration does not churn the
	// command definition.
	regions := []struct{ name, value string }{
		{"Automatic", ""},
		{"Brazil", "brazil"},
		{"Hong Kong", "hongkong"},
		{"India", "india"},
		{"Japan", "japan"},
		{"Rotterdam", "rotterdam"},
		{"Singapore", "singapore"},
		{"South Africa", "southafrica"},
		{"Sydney", "sydney"},
		{"US Central", "us-central"},
		{"US East", "us-east"},
		{"US South", "us-south"},
		{"US West", "us-west"},
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(regions))
	for _, region := range regions {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: region.name, Value: region.value})
	}
	return choices
}

// voiceCommand declares the /voice command tree registered on startup.
func voiceCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "voice",
		Description: "Commands for creating and managing temporary voice channels.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "setup",
				Description: "Set up temporary voice channels for this server.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "category",
						Description:  "The category temporary channels are created under.",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
						Required:     true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Create a temporary voice channel.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "The name of the voice channel.",
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "limit",
						Description: "The user limit of the voice channel (0-99).",
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "privacy",
						Description: "Lock or hide the voice channel.",
						Choices:     privacyChoices()[:4],
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "claim",
				Description: "Claim the voice channel as your own.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "transfer",
				Description: "Transfer ownership of the voice channel.",
				Options:     []*discordgo.ApplicationCommandOption{userOption("user", "The user to transfer ownership to.")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "trust",
				Description: "Trusted users have access to the voice channel.",
				Options:     []*discordgo.ApplicationCommandOption{userOption("user", "The user to trust.")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "untrust",
				Description: "Remove trusted users access from the voice channel.",
				Options:     []*discordgo.ApplicationCommandOption{userOption("user", "The user to untrust.")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "invite",
				Description: "Invite a user to the voice channel.",
				Options:     []*discordgo.ApplicationCommandOption{userOption("user", "The user to invite.")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "kick",
				Description: "Kick a user from the voice channel.",
				Options:     []*discordgo.ApplicationCommandOption{userOption("user", "The user to kick.")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "block",
				Description: "Block a user from the voice channel.",
				Options:     []*discordgo.ApplicationCommandOption{userOption("user", "The user to block.")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "unblock",
				Description: "Unblock a user from the voice channel.",
				Options:     []*discordgo.ApplicationCommandOption{userOption("user", "The user to unblock.")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "password",
				Description: "Set a password for the voice channel.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "pass",
						Description: "The password for the voice channel.",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "join",
				Description: "Join a password protected voice channel.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "channel",
						Description:  "The voice channel to join.",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice},
						Required:     true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "pass",
						Description: "The password for the voice channel.",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "persist",
				Description: "Toggle whether the voice channel survives being empty.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "name",
				Description: "Change the name of the voice channel.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "The new name of the voice channel.",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "limit",
				Description: "Change the user limit of the voice channel.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "user_limit",
						Description: "The new user limit of the voice channel (0-99).",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "privacy",
				Description: "Change the privacy of the voice channel.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "privacy",
						Description: "The new privacy of the voice channel.",
						Choices:     privacyChoices(),
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "region",
				Description: "Change the region of the voice channel.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "region",
						Description: "The new region of the voice channel.",
						Choices:     regionChoices(),
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "bitrate",
				Description: "Change the bitrate of the voice channel.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "kbps",
						Description: "The new bitrate of the voice channel.",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete the voice channel.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "reset",
				Description: "Reset the voice channel to default settings.",
			},
		},
	}
}
