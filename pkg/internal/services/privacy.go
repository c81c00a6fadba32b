package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/driftvale/tempvoice/pkg/internal/models"
	"github.com/driftvale/tempvoice/pkg/internal/platform"
	"github.com/driftvale/tempvoice/pkg/internal/presence"
)

// Privacy owns the channel's privacy mode transitions and the mute state
// they imply. The mode lives authoritatively on the record so the
// join-time mute decision never has to re-derive it from platform-side
// overwrite lists.
type Privacy struct {
	Platform platform.Client
	Channels ChannelStore
	Presence *presence.Cache
}

// SetMode applies a privacy transition. Visible, Invisible, Locked and
// Unlocked only rewrite the @everyone overwrite and are idempotent
// regardless of the prior mode; Spectator and OpenMic additionally sweep
// the current occupants' mute state.
func (p *Privacy) SetMode(ctx context.Context, actor Actor, guildId, channelId string, mode models.ChannelMode) error {
	record, err := p.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsTrusted(actor.ID) {
		return ErrNotTrusted
	}

	record.Mode = mode
	if err := p.Channels.Save(ctx, record); err != nil {
		return err
	}

	switch mode {
	case models.ChannelModeSpectator:
		p.sweepMutes(ctx, record, guildId, channelId, true)
	case models.ChannelModeOpenMic:
		p.sweepMutes(ctx, record, guildId, channelId, false)
	default:
		return p.Platform.SetOverwrite(ctx, channelId, everyoneOverwrite(guildId, mode))
	}
	return nil
}

// sweepMutes adjusts the server mute of everyone currently cached in the
// channel. Trusted users are never muted. Users who raced a disconnect
// are skipped silently.
func (p *Privacy) sweepMutes(ctx context.Context, record *models.VoiceChannel, guildId, channelId string, mute bool) {
	for _, userId := range p.Presence.UsersInChannel(channelId) {
		target := mute && !record.IsTrusted(userId)
		if err := p.Platform.MuteMember(ctx, guildId, userId, target); err != nil {
			if errors.Is(err, platform.ErrNotConnected) {
				continue
			}
			log.Warn().Err(err).
				Str("user", userId).
				Str("channel", channelId).
				Msg("Unable to adjust mute state.")
		}
	}
}

// ApplyJoinMute settles a user's mute state when they enter a channel,
// checked against the stored mode: non-trusted joiners are muted in
// spectator channels, everyone else is unmuted. Channels without a
// record always unmute.
func (p *Privacy) ApplyJoinMute(ctx context.Context, guildId, userId, channelId string) error {
	mute := false

	record, err := p.Channels.Get(ctx, channelId)
	if err != nil && !errors.Is(err, ErrChannelNotManaged) {
		return err
	}
	if err == nil {
		mute = record.Mode == models.ChannelModeSpectator && !record.IsTrusted(userId)
	}

	if err := p.Platform.MuteMember(ctx, guildId, userId, mute); err != nil && !errors.Is(err, platform.ErrNotConnected) {
		return err
	}
	return nil
}
