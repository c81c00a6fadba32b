package platform

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
)

// Discord implements Client over a discordgo session.
type Discord struct {
	s *discordgo.Session
}

func NewDiscord(s *discordgo.Session) *Discord {
	return &Discord{s: s}
}

func toDiscordOverwrites(overwrites []Overwrite) []*discordgo.PermissionOverwrite {
	out := make([]*discordgo.PermissionOverwrite, 0, len(overwrites))
	for _, ow := range overwrites {
		kind := discordgo.PermissionOverwriteTypeMember
		if ow.Kind == OverwriteRole {
			kind = discordgo.PermissionOverwriteTypeRole
		}
		out = append(out, &discordgo.PermissionOverwrite{
			ID:    ow.TargetID,
			Type:  kind,
			Allow: ow.Allow,
			Deny:  ow.Deny,
		})
	}
	return out
}

func (d *Discord) CreateVoiceChannel(ctx context.Context, guildId string, opts CreateChannelOptions) (string, error) {
	ch, err := d.s.GuildChannelCreateComplex(guildId, discordgo.GuildChannelCreateData{
		Name:                 opts.Name,
		Type:                 discordgo.ChannelTypeGuildVoice,
		ParentID:             opts.ParentID,
		UserLimit:            opts.UserLimit,
		PermissionOverwrites: toDiscordOverwrites(opts.Overwrites),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", classify(err)
	}
	return ch.ID, nil
}

func (d *Discord) DeleteChannel(ctx context.Context, channelId string) error {
	_, err := d.s.ChannelDelete(channelId, discordgo.WithContext(ctx))
	return classify(err)
}

func (d *Discord) EditChannel(ctx context.Context, channelId string, patch ChannelPatch) error {
	edit := &discordgo.ChannelEdit{}
	dirty := false
	if patch.Name != nil {
		edit.Name = *patch.Name
		dirty = true
	}
	if patch.UserLimit != nil {
		edit.UserLimit = *patch.UserLimit
		dirty = true
	}
	if patch.Bitrate != nil {
		edit.Bitrate = *patch.Bitrate
		dirty = true
	}
	if patch.Overwrites != nil {
		edit.PermissionOverwrites = toDiscordOverwrites(patch.Overwrites)
		dirty = true
	}
	if dirty {
		if _, err := d.s.ChannelEdit(channelId, edit, discordgo.WithContext(ctx)); err != nil {
			return classify(err)
		}
	}

	// The rtc region is not part of discordgo's ChannelEdit builder, so it
	// goes out as a raw patch.
	if patch.Region != nil {
		body := struct {
			RTCRegion *string `json:"rtc_region"`
		}{}
		if *patch.Region != "" {
			body.RTCRegion = patch.Region
		}
		_, err := d.s.RequestWithBucketID(
			"PATCH",
			discordgo.EndpointChannel(channelId),
			body,
			discordgo.EndpointChannel(channelId),
			discordgo.WithContext(ctx),
		)
		if err != nil {
			return classify(err)
		}
	}

	return nil
}

func (d *Discord) ChannelParent(ctx context.Context, channelId string) (string, error) {
	ch, err := d.s.Channel(channelId, discordgo.WithContext(ctx))
	if err != nil {
		return "", classify(err)
	}
	return ch.ParentID, nil
}

func (d *Discord) SetOverwrite(ctx context.Context, channelId string, overwrite Overwrite) error {
	kind := discordgo.PermissionOverwriteTypeMember
	if overwrite.Kind == OverwriteRole {
		kind = discordgo.PermissionOverwriteTypeRole
	}
	err := d.s.ChannelPermissionSet(
		channelId, overwrite.TargetID, kind, overwrite.Allow, overwrite.Deny,
		discordgo.WithContext(ctx),
	)
	return classify(err)
}

func (d *Discord) RemoveOverwrite(ctx context.Context, channelId, targetId string) error {
	return classify(d.s.ChannelPermissionDelete(channelId, targetId, discordgo.WithContext(ctx)))
}

func (d *Discord) MoveMember(ctx context.Context, guildId, userId, channelId string) error {
	return classify(d.s.GuildMemberMove(guildId, userId, &channelId, discordgo.WithContext(ctx)))
}

func (d *Discord) DisconnectMember(ctx context.Context, guildId, userId string) error {
	return classify(d.s.GuildMemberMove(guildId, userId, nil, discordgo.WithContext(ctx)))
}

func (d *Discord) MuteMember(ctx context.Context, guildId, userId string, mute bool) error {
	return classify(d.s.GuildMemberMute(guildId, userId, mute, discordgo.WithContext(ctx)))
}

func (d *Discord) VoiceState(ctx context.Context, guildId, userId string) (*VoiceState, error) {
	vs, err := d.s.State.VoiceState(guildId, userId)
	if errors.Is(err, discordgo.ErrStateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &VoiceState{
		UserID:    vs.UserID,
		GuildID:   vs.GuildID,
		ChannelID: vs.ChannelID,
	}, nil
}

func (d *Discord) SendDirectMessage(ctx context.Context, userId, content string) error {
	dm, err := d.s.UserChannelCreate(userId, discordgo.WithContext(ctx))
	if err != nil {
		return classify(err)
	}
	_, err = d.s.ChannelMessageSend(dm.ID, content, discordgo.WithContext(ctx))
	return classify(err)
}
