package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// onVoiceStateUpdate is the hot path: cache update first, all of the
// slow follow-up work afterwards against the returned previous entry.
func (b *Bot) onVoiceStateUpdate(_ *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	ctx := context.Background()

	prev, had := b.Presence.Update(e.UserID, e.GuildID, e.ChannelID)

	if e.ChannelID != "" && (!had || prev.ChannelID != e.ChannelID) {
		b.Lifecycle.CancelGrace(e.ChannelID)
		if err := b.Privacy.ApplyJoinMute(ctx, e.GuildID, e.UserID, e.ChannelID); err != nil {
			log.Warn().Err(err).Str("user", e.UserID).Msg("Unable to settle join mute state.")
		}
		if err := b.Lifecycle.HandleCreatorJoin(ctx, e.GuildID, e.ChannelID, e.UserID, memberDisplayName(e.Member)); err != nil {
			log.Error().Err(err).Str("user", e.UserID).Msg("Unable to provision channel from creator join.")
		}
	}

	if had && prev.ChannelID != "" && prev.ChannelID != e.ChannelID {
		if err := b.Lifecycle.MaybeDeleteEmpty(ctx, prev.GuildID, prev.ChannelID); err != nil {
			log.Error().Err(err).Str("channel", prev.ChannelID).Msg("Unable to sweep vacated channel.")
		}
	}
}

func memberDisplayName(m *discordgo.Member) string {
	if m == nil {
		return "Unknown"
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		if m.User.GlobalName != "" {
			return m.User.GlobalName
		}
		return m.User.Username
	}
	return "Unknown"
}
