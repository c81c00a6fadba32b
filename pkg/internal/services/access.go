package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/driftvale/tempvoice/pkg/internal/models"
	"github.com/driftvale/tempvoice/pkg/internal/platform"
	"github.com/driftvale/tempvoice/pkg/internal/presence"
)

// Access owns every ownership and membership mutation: claim, transfer,
// trust, block, invite, kick and the password gate.
type Access struct {
	Platform platform.Client
	Channels ChannelStore
	Presence *presence.Cache
}

// Claim makes the actor the channel's owner. A channel without a record
// is always claimable; otherwise the claim is refused while the current
// owner is still sitting in the channel. Persistent channels skip the
// presence check entirely and stay with their owner.
func (a *Access) Claim(ctx context.Context, actor Actor, guildId, channelId string) error {
	record, err := a.Channels.Get(ctx, channelId)
	switch {
	case errors.Is(err, ErrChannelNotManaged):
		record = models.NewVoiceChannel(channelId, guildId, actor.ID)
	case err != nil:
		return err
	default:
		if record.IsOwner(actor.ID) {
			return ErrAlreadyOwner
		}
		if record.Persistent {
			if record.OwnerID != "" {
				return ErrOwnerInChannel
			}
		} else if a.Presence.UserInChannel(record.OwnerID, channelId) {
			return ErrOwnerInChannel
		}
		record.OwnerID = actor.ID
	}

	if err := a.Channels.Save(ctx, record); err != nil {
		return err
	}
	return a.Platform.SetOverwrite(ctx, channelId, ownerOverwrite(actor.ID))
}

func (a *Access) Transfer(ctx context.Context, actor Actor, channelId, targetId string) error {
	record, err := a.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsOwner(actor.ID) {
		return ErrNotOwner
	}

	record.OwnerID = targetId
	record.Untrust(targetId)
	if err := a.Channels.Save(ctx, record); err != nil {
		return err
	}
	return a.Platform.SetOverwrite(ctx, channelId, ownerOverwrite(targetId))
}

func (a *Access) Trust(ctx context.Context, actor Actor, channelId, targetId string) error {
	record, err := a.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsOwner(actor.ID) {
		return ErrNotOwner
	}

	record.Trust(targetId)
	if err := a.Channels.Save(ctx, record); err != nil {
		return err
	}
	return a.Platform.SetOverwrite(ctx, channelId, trustedOverwrite(targetId))
}

func (a *Access) Untrust(ctx context.Context, actor Actor, channelId, targetId string) error {
	record, err := a.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsOwner(actor.ID) {
		return ErrNotOwner
	}
	if record.IsOwner(targetId) {
		return ErrTargetIsOwner
	}

	record.Untrust(targetId)
	if err := a.Channels.Save(ctx, record); err != nil {
		return err
	}
	return a.Platform.RemoveOverwrite(ctx, channelId, targetId)
}

// Block removes the target's trust and invite, denies them every
// permission on the channel, and disconnects them if they are currently
// in voice.
func (a *Access) Block(ctx context.Context, actor Actor, guildId, channelId, targetId string) error {
	record, err := a.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsTrusted(actor.ID) {
		return ErrNotTrusted
	}
	if record.IsOwner(targetId) {
		return ErrTargetIsOwner
	}

	record.Block(targetId)
	if err := a.Channels.Save(ctx, record); err != nil {
		return err
	}

	if err := a.Platform.SetOverwrite(ctx, channelId, blockedOverwrite(targetId)); err != nil {
		return err
	}
	if err := a.Platform.DisconnectMember(ctx, guildId, targetId); err != nil && !errors.Is(err, platform.ErrNotConnected) {
		return err
	}
	return nil
}

func (a *Access) Unblock(ctx context.Context, actor Actor, channelId, targetId string) error {
	record, err := a.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsTrusted(actor.ID) {
		return ErrNotTrusted
	}

	return a.Platform.RemoveOverwrite(ctx, channelId, targetId)
}

// Invite grants the target view and connect on the channel and tries to
// notify them with a direct message. A failed notification does not fail
// the invite.
func (a *Access) Invite(ctx context.Context, actor Actor, channelId, targetId string) error {
	record, err := a.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsTrusted(actor.ID) {
		return ErrNotTrusted
	}

	record.Invite(targetId)
	if err := a.Channels.Save(ctx, record); err != nil {
		return err
	}
	if err := a.Platform.SetOverwrite(ctx, channelId, invitedOverwrite(targetId)); err != nil {
		return err
	}

	message := fmt.Sprintf("You have been invited to <#%s>.", channelId)
	if err := a.Platform.SendDirectMessage(ctx, targetId, message); err != nil {
		log.Warn().Err(err).Str("user", targetId).Msg("Unable to deliver invite notification.")
	}
	return nil
}

// Kick disconnects the target from voice without touching trust state.
func (a *Access) Kick(ctx context.Context, actor Actor, guildId, channelId, targetId string) error {
	record, err := a.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsTrusted(actor.ID) {
		return ErrNotTrusted
	}

	if err := a.Platform.DisconnectMember(ctx, guildId, targetId); err != nil && !errors.Is(err, platform.ErrNotConnected) {
		return err
	}
	return nil
}

// SetPassword stores the shared secret and locks connect for everyone
// while the owner keeps full access. Joining is then gated through
// JoinWithPassword.
func (a *Access) SetPassword(ctx context.Context, actor Actor, guildId, channelId, pass string) error {
	record, err := a.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsOwner(actor.ID) {
		return ErrNotOwner
	}

	record.Password = lo.ToPtr(pass)
	if err := a.Channels.Save(ctx, record); err != nil {
		return err
	}

	return a.Platform.EditChannel(ctx, channelId, platform.ChannelPatch{
		Overwrites: []platform.Overwrite{
			ownerOverwrite(record.OwnerID),
			lockedEveryoneOverwrite(guildId),
		},
	})
}

// JoinWithPassword validates the supplied secret with an exact match,
// grants a one-time view+connect overwrite and moves the user in.
func (a *Access) JoinWithPassword(ctx context.Context, userId, guildId, channelId, pass string) error {
	record, err := a.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.VerifyPassword(pass) {
		return ErrInvalidPassword
	}

	if err := a.Platform.SetOverwrite(ctx, channelId, invitedOverwrite(userId)); err != nil {
		return err
	}
	if err := a.Platform.MoveMember(ctx, guildId, userId, channelId); err != nil {
		if errors.Is(err, platform.ErrNotConnected) {
			return ErrNotInVoice
		}
		return err
	}
	return nil
}
