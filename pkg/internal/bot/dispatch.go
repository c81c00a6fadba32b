package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/driftvale/tempvoice/pkg/internal/models"
	"github.com/driftvale/tempvoice/pkg/internal/platform"
	"github.com/driftvale/tempvoice/pkg/internal/services"
)

type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

func parseOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) commandOptions {
	parsed := make(commandOptions, len(opts))
	for _, opt := range opts {
		parsed[opt.Name] = opt
	}
	return parsed
}

func actorFromInteraction(i *discordgo.InteractionCreate) services.Actor {
	actor := services.Actor{DisplayName: memberDisplayName(i.Member)}
	if i.Member != nil {
		if i.Member.User != nil {
			actor.ID = i.Member.User.ID
		}
		actor.Moderator = i.Member.Permissions&(discordgo.PermissionAdministrator|discordgo.PermissionVoiceMoveMembers) != 0
		actor.Premium = i.Member.PremiumSince != nil
	}
	return actor
}

func modeFromOption(value string) (models.ChannelMode, bool) {
	switch value {
	case "visible":
		return models.ChannelModeVisible, true
	case "invisible":
		return models.ChannelModeInvisible, true
	case "lock":
		return models.ChannelModeLocked, true
	case "unlock":
		return models.ChannelModeUnlocked, true
	case "spectator":
		return models.ChannelModeSpectator, true
	case "open":
		return models.ChannelModeOpenMic, true
	}
	return 0, false
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != "voice" || len(data.Options) == 0 {
		return
	}

	if i.GuildID == "" {
		respond(s, i, "This command can only be used in a server.")
		return
	}

	sub := data.Options[0]
	content, err := b.dispatch(context.Background(), i, sub.Name, parseOptions(sub.Options))
	if err != nil {
		log.Debug().Err(err).Str("command", sub.Name).Msg("Voice command rejected.")
		respond(s, i, renderError(err))
		return
	}
	respond(s, i, content)
}

func (b *Bot) dispatch(ctx context.Context, i *discordgo.InteractionCreate, name string, opts commandOptions) (string, error) {
	actor := actorFromInteraction(i)

	switch name {
	case "setup":
		return b.handleSetup(ctx, i, opts)
	case "create":
		return b.handleCreate(ctx, i, actor, opts)
	case "join":
		channelId := opts["channel"].ChannelValue(nil).ID
		if err := b.Access.JoinWithPassword(ctx, actor.ID, i.GuildID, channelId, opts["pass"].StringValue()); err != nil {
			return "", err
		}
		return "Successfully joined channel.", nil
	}

	// Everything else operates on the channel the actor currently sits
	// in, or on an explicit channel option.
	channelId, err := b.targetChannel(actor, i.GuildID, opts)
	if err != nil {
		return "", err
	}

	switch name {
	case "claim":
		if err := b.Access.Claim(ctx, actor, i.GuildID, channelId); err != nil {
			return "", err
		}
		return "Claimed channel.", nil
	case "transfer":
		if err := b.Access.Transfer(ctx, actor, channelId, opts["user"].UserValue(nil).ID); err != nil {
			return "", err
		}
		return "Transferred channel.", nil
	case "trust":
		if err := b.Access.Trust(ctx, actor, channelId, opts["user"].UserValue(nil).ID); err != nil {
			return "", err
		}
		return "Set user to trusted.", nil
	case "untrust":
		if err := b.Access.Untrust(ctx, actor, channelId, opts["user"].UserValue(nil).ID); err != nil {
			return "", err
		}
		return "Removed user from trusted.", nil
	case "invite":
		if err := b.Access.Invite(ctx, actor, channelId, opts["user"].UserValue(nil).ID); err != nil {
			return "", err
		}
		return "Sent invite to user.", nil
	case "kick":
		if err := b.Access.Kick(ctx, actor, i.GuildID, channelId, opts["user"].UserValue(nil).ID); err != nil {
			return "", err
		}
		return "User kicked from channel.", nil
	case "block":
		if err := b.Access.Block(ctx, actor, i.GuildID, channelId, opts["user"].UserValue(nil).ID); err != nil {
			return "", err
		}
		return "Set user to blocked.", nil
	case "unblock":
		if err := b.Access.Unblock(ctx, actor, channelId, opts["user"].UserValue(nil).ID); err != nil {
			return "", err
		}
		return "Removed user from blocked.", nil
	case "password":
		if err := b.Access.SetPassword(ctx, actor, i.GuildID, channelId, opts["pass"].StringValue()); err != nil {
			return "", err
		}
		return "Password set.", nil
	case "persist":
		persistent, err := b.Lifecycle.TogglePersist(ctx, actor, channelId)
		if err != nil {
			return "", err
		}
		if persistent {
			return "Channel will be kept when empty.", nil
		}
		return "Channel will be deleted when empty.", nil
	case "name":
		patch := platform.ChannelPatch{Name: lo.ToPtr(opts["name"].StringValue())}
		if err := b.Lifecycle.EditInfo(ctx, actor, channelId, patch); err != nil {
			return "", err
		}
		return "Channel name updated.", nil
	case "limit":
		limit := 0
		if opt, ok := opts["user_limit"]; ok {
			limit = int(opt.IntValue())
		}
		if err := b.Lifecycle.EditInfo(ctx, actor, channelId, platform.ChannelPatch{UserLimit: lo.ToPtr(limit)}); err != nil {
			return "", err
		}
		return fmt.Sprintf("User limit set to %d.", limit), nil
	case "privacy":
		mode, ok := modeFromOption(opts["privacy"].StringValue())
		if !ok {
			return "", fmt.Errorf("unknown privacy option: %s", opts["privacy"].StringValue())
		}
		if err := b.Privacy.SetMode(ctx, actor, i.GuildID, channelId, mode); err != nil {
			return "", err
		}
		return "Channel privacy updated.", nil
	case "region":
		region := ""
		if opt, ok := opts["region"]; ok {
			region = opt.StringValue()
		}
		if err := b.Lifecycle.EditInfo(ctx, actor, channelId, platform.ChannelPatch{Region: &region}); err != nil {
			return "", err
		}
		return "Channel region updated.", nil
	case "bitrate":
		bitrate := int(opts["kbps"].IntValue()) * 1000
		if err := b.Lifecycle.EditInfo(ctx, actor, channelId, platform.ChannelPatch{Bitrate: &bitrate}); err != nil {
			return "", err
		}
		return "Channel bitrate updated.", nil
	case "delete":
		if err := b.Lifecycle.Delete(ctx, actor, channelId); err != nil {
			return "", err
		}
		return "Channel deleted.", nil
	case "reset":
		if err := b.Lifecycle.Reset(ctx, actor, channelId); err != nil {
			return "", err
		}
		return "Reset channel.", nil
	}

	return "", fmt.Errorf("unknown subcommand: %s", name)
}

func (b *Bot) handleSetup(ctx context.Context, i *discordgo.InteractionCreate, opts commandOptions) (string, error) {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionAdministrator == 0 {
		return "", errors.New("you must be an administrator to run this command")
	}

	categoryId := opts["category"].ChannelValue(nil).ID
	if _, err := b.Lifecycle.Setup(ctx, i.GuildID, categoryId); err != nil {
		return "", err
	}
	return "Setup complete.", nil
}

func (b *Bot) handleCreate(ctx context.Context, i *discordgo.InteractionCreate, actor services.Actor, opts commandOptions) (string, error) {
	createOpts := services.CreateOptions{Mode: models.ChannelModeVisible}
	if opt, ok := opts["name"]; ok {
		createOpts.Name = opt.StringValue()
	}
	if opt, ok := opts["limit"]; ok {
		createOpts.UserLimit = int(opt.IntValue())
	}
	if opt, ok := opts["privacy"]; ok {
		if mode, valid := modeFromOption(opt.StringValue()); valid {
			createOpts.Mode = mode
		}
	}

	if _, err := b.Lifecycle.Create(ctx, i.GuildID, actor, createOpts); err != nil {
		return "", err
	}

	if entry, ok := b.Presence.Get(actor.ID); ok && entry.GuildID == i.GuildID {
		return "Voice channel created and you have been moved successfully.", nil
	}
	return "Voice channel created. You have 1 minute to join.", nil
}

// targetChannel resolves the channel a command acts on: an explicit
// channel option wins, otherwise the actor's cached voice placement.
func (b *Bot) targetChannel(actor services.Actor, guildId string, opts commandOptions) (string, error) {
	if opt, ok := opts["channel"]; ok {
		return opt.ChannelValue(nil).ID, nil
	}

	entry, ok := b.Presence.Get(actor.ID)
	if !ok || entry.GuildID != guildId || entry.ChannelID == "" {
		return "", services.ErrNotInVoice
	}
	return entry.ChannelID, nil
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Warn().Err(err).Msg("Unable to respond to interaction.")
	}
}

func renderError(err error) string {
	switch {
	case errors.Is(err, services.ErrNotInVoice):
		return "You are not in a voice channel."
	case errors.Is(err, services.ErrChannelNotManaged):
		return "This channel is not managed. It may have just been deleted; try claiming a channel instead."
	case errors.Is(err, services.ErrAlreadyOwner):
		return "You already own this channel."
	case errors.Is(err, services.ErrOwnerInChannel):
		return "The channel owner is still here; you cannot claim this channel."
	case errors.Is(err, services.ErrNotOwner):
		return "Only the channel owner can do that."
	case errors.Is(err, services.ErrNotTrusted):
		return "Only trusted users can do that."
	case errors.Is(err, services.ErrTargetIsOwner):
		return "You cannot do that to the channel owner."
	case errors.Is(err, services.ErrInvalidPassword):
		return "Invalid password."
	case errors.Is(err, services.ErrMaxPersistent):
		return "You already have a persistent channel."
	case errors.Is(err, services.ErrPremiumRequired):
		return "You need premium status to do that."
	case errors.Is(err, services.ErrGuildNotSetUp):
		return "Temporary voice channels are not set up on this server."
	case errors.Is(err, platform.ErrMissingPermissions):
		return "The bot is missing permissions for that; ask a server administrator to check its role."
	}
	return "Something went wrong while running that command."
}
