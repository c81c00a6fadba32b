package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/driftvale/tempvoice/pkg/internal/models"
	"github.com/driftvale/tempvoice/pkg/internal/platform"
	"github.com/driftvale/tempvoice/pkg/internal/presence"
)

const DefaultGraceWindow = 60 * time.Second

// Lifecycle owns channel provisioning and deletion: the creator-channel
// trigger, the post-create grace window, the empty-channel sweep hook,
// persistence toggling and reset.
type Lifecycle struct {
	Platform platform.Client
	Channels ChannelStore
	Guilds   GuildStore
	Presence *presence.Cache

	// GraceWindow is how long a freshly created channel may stay empty
	// before it is torn down again. Zero means DefaultGraceWindow.
	GraceWindow time.Duration

	graceTimers sync.Map
}

type CreateOptions struct {
	Name      string
	UserLimit int
	Mode      models.ChannelMode
}

func (lc *Lifecycle) graceWindow() time.Duration {
	if lc.GraceWindow > 0 {
		return lc.GraceWindow
	}
	return DefaultGraceWindow
}

// Setup creates the guild's creator channel inside the given category
// and stores the guild configuration. Running it again replaces the
// previous configuration but leaves the old creator channel in place.
func (lc *Lifecycle) Setup(ctx context.Context, guildId, categoryId string) (string, error) {
	channelId, err := lc.Platform.CreateVoiceChannel(ctx, guildId, platform.CreateChannelOptions{
		Name:     "➕ Creator Channel",
		ParentID: categoryId,
	})
	if err != nil {
		return "", fmt.Errorf("unable to create creator channel: %w", err)
	}

	err = lc.Guilds.Save(ctx, &models.GuildConfig{
		GuildID:          guildId,
		CategoryID:       categoryId,
		CreatorChannelID: channelId,
	})
	if err != nil {
		return "", err
	}
	return channelId, nil
}

// HandleCreatorJoin provisions a new channel when the presence event
// placed the user in the guild's creator channel. Joining any other
// channel is a no-op.
func (lc *Lifecycle) HandleCreatorJoin(ctx context.Context, guildId, channelId, userId, displayName string) error {
	config, err := lc.Guilds.Get(ctx, guildId)
	if err != nil {
		if errors.Is(err, ErrGuildNotSetUp) {
			return nil
		}
		return err
	}
	if channelId != config.CreatorChannelID {
		return nil
	}

	_, err = lc.provision(ctx, guildId, userId, config.CategoryID, CreateOptions{
		Name: models.DefaultName(displayName),
		Mode: models.ChannelModeVisible,
	})
	return err
}

// Create provisions a channel on explicit command, without the join
// trigger. The same grace window applies when the invoker is not yet
// connected to voice.
func (lc *Lifecycle) Create(ctx context.Context, guildId string, actor Actor, opts CreateOptions) (string, error) {
	config, err := lc.Guilds.Get(ctx, guildId)
	if err != nil {
		return "", err
	}

	if opts.Name == "" {
		opts.Name = models.DefaultName(actor.DisplayName)
	}
	return lc.provision(ctx, guildId, actor.ID, config.CategoryID, opts)
}

func (lc *Lifecycle) provision(ctx context.Context, guildId, ownerId, categoryId string, opts CreateOptions) (string, error) {
	overwrites := []platform.Overwrite{
		ownerOverwrite(ownerId),
		everyoneOverwrite(guildId, opts.Mode),
	}

	channelId, err := lc.Platform.CreateVoiceChannel(ctx, guildId, platform.CreateChannelOptions{
		Name:       opts.Name,
		ParentID:   categoryId,
		UserLimit:  clampLimit(opts.UserLimit),
		Overwrites: overwrites,
	})
	if err != nil {
		return "", fmt.Errorf("unable to create voice channel: %w", err)
	}

	record := models.NewVoiceChannel(channelId, guildId, ownerId)
	record.Mode = opts.Mode
	if err := lc.Channels.Save(ctx, record); err != nil {
		return "", err
	}

	if err := lc.Platform.MoveMember(ctx, guildId, ownerId, channelId); err != nil {
		if !errors.Is(err, platform.ErrNotConnected) {
			return "", err
		}
		// Owner is not in voice yet; give them the grace window to show
		// up before tearing the channel down again.
		lc.scheduleGraceCheck(guildId, channelId, ownerId)
	}

	log.Info().
		Str("channel", channelId).
		Str("owner", ownerId).
		Str("guild", guildId).
		Msg("Provisioned temporary voice channel.")

	return channelId, nil
}

// scheduleGraceCheck arms a detached one-shot recheck; the triggering
// handler returns immediately. CancelGrace disarms it when the owner
// arrives.
func (lc *Lifecycle) scheduleGraceCheck(guildId, channelId, userId string) {
	timer := time.AfterFunc(lc.graceWindow(), func() {
		lc.graceTimers.Delete(channelId)
		lc.runGraceCheck(context.Background(), guildId, channelId, userId)
	})
	if old, loaded := lc.graceTimers.Swap(channelId, timer); loaded {
		old.(*time.Timer).Stop()
	}
}

func (lc *Lifecycle) CancelGrace(channelId string) {
	if timer, loaded := lc.graceTimers.LoadAndDelete(channelId); loaded {
		timer.(*time.Timer).Stop()
	}
}

func (lc *Lifecycle) runGraceCheck(ctx context.Context, guildId, channelId, userId string) {
	state, err := lc.Platform.VoiceState(ctx, guildId, userId)
	if err != nil {
		log.Warn().Err(err).Str("channel", channelId).Msg("Grace recheck failed to read voice state.")
		return
	}
	if state != nil && state.ChannelID == channelId {
		return
	}

	// The owner never showed up; tear the channel down. Both deletes must
	// tolerate the channel or record having been removed concurrently.
	if err := lc.Platform.DeleteChannel(ctx, channelId); err != nil && !errors.Is(err, platform.ErrUnknownChannel) {
		log.Error().Err(err).Str("channel", channelId).Msg("Grace recheck failed to delete channel.")
		return
	}
	if err := lc.Channels.Delete(ctx, channelId); err != nil {
		log.Error().Err(err).Str("channel", channelId).Msg("Grace recheck failed to delete record.")
	}

	log.Info().Str("channel", channelId).Msg("Deleted unclaimed voice channel after grace window.")
}

// MaybeDeleteEmpty runs after a user left channelId. It deletes the
// channel and its record when the channel is managed, not persistent and
// now empty. Deleting an already-gone platform channel counts as
// success.
func (lc *Lifecycle) MaybeDeleteEmpty(ctx context.Context, guildId, channelId string) error {
	config, err := lc.Guilds.Get(ctx, guildId)
	if err != nil {
		if errors.Is(err, ErrGuildNotSetUp) {
			return nil
		}
		return err
	}
	if channelId == config.CreatorChannelID {
		return nil
	}

	record, err := lc.Channels.Get(ctx, channelId)
	if err != nil {
		if errors.Is(err, ErrChannelNotManaged) {
			return nil
		}
		return err
	}
	if record.Persistent {
		return nil
	}

	parent, err := lc.Platform.ChannelParent(ctx, channelId)
	if err != nil {
		if errors.Is(err, platform.ErrUnknownChannel) {
			// Channel vanished under us; drop the dangling record.
			return lc.Channels.Delete(ctx, channelId)
		}
		return err
	}
	if parent != config.CategoryID {
		return nil
	}

	if lc.Presence.CountInChannel(channelId) > 0 {
		return nil
	}

	lc.CancelGrace(channelId)

	if err := lc.Platform.DeleteChannel(ctx, channelId); err != nil && !errors.Is(err, platform.ErrUnknownChannel) {
		return err
	}
	if err := lc.Channels.Delete(ctx, channelId); err != nil {
		return err
	}

	log.Info().Str("channel", channelId).Str("guild", guildId).Msg("Deleted empty temporary voice channel.")
	return nil
}

// TogglePersist flips the channel's persistence. Turning it on requires
// premium status and is capped at one persistent channel per owner;
// moderators bypass both gates.
func (lc *Lifecycle) TogglePersist(ctx context.Context, actor Actor, channelId string) (bool, error) {
	record, err := lc.Channels.Get(ctx, channelId)
	if err != nil {
		return false, err
	}
	if !record.IsOwner(actor.ID) && !actor.Moderator {
		return false, ErrNotOwner
	}

	if !record.Persistent {
		if !actor.Premium && !actor.Moderator {
			return false, ErrPremiumRequired
		}
		if !actor.Moderator {
			count, err := lc.Channels.CountPersistentByOwner(ctx, record.OwnerID)
			if err != nil {
				return false, err
			}
			if count >= 1 {
				return false, ErrMaxPersistent
			}
		}
	}

	record.Persistent = !record.Persistent
	if err := lc.Channels.Save(ctx, record); err != nil {
		return false, err
	}
	return record.Persistent, nil
}

// Reset restores the channel to its just-created state: empty trust and
// invite sets, no password, default name, no user limit, and only the
// base @everyone overwrite left on the channel.
func (lc *Lifecycle) Reset(ctx context.Context, actor Actor, channelId string) error {
	record, err := lc.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsOwner(actor.ID) {
		return ErrNotOwner
	}

	record.Reset()
	if err := lc.Channels.Save(ctx, record); err != nil {
		return err
	}

	return lc.Platform.EditChannel(ctx, channelId, platform.ChannelPatch{
		Name:       lo.ToPtr(models.DefaultName(actor.DisplayName)),
		UserLimit:  lo.ToPtr(0),
		Overwrites: []platform.Overwrite{everyoneOverwrite(record.GuildID, models.ChannelModeVisible)},
	})
}

// EditInfo applies metadata edits (name, user limit, bitrate, region) on
// behalf of a trusted user.
func (lc *Lifecycle) EditInfo(ctx context.Context, actor Actor, channelId string, patch platform.ChannelPatch) error {
	record, err := lc.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsTrusted(actor.ID) && !actor.Moderator {
		return ErrNotTrusted
	}

	if patch.UserLimit != nil {
		patch.UserLimit = lo.ToPtr(clampLimit(*patch.UserLimit))
	}
	return lc.Platform.EditChannel(ctx, channelId, patch)
}

// Delete removes the channel on explicit command, regardless of
// occupancy or persistence.
func (lc *Lifecycle) Delete(ctx context.Context, actor Actor, channelId string) error {
	record, err := lc.Channels.Get(ctx, channelId)
	if err != nil {
		return err
	}
	if !record.IsTrusted(actor.ID) && !actor.Moderator {
		return ErrNotTrusted
	}

	lc.CancelGrace(channelId)

	if err := lc.Platform.DeleteChannel(ctx, channelId); err != nil && !errors.Is(err, platform.ErrUnknownChannel) {
		return err
	}
	return lc.Channels.Delete(ctx, channelId)
}

func clampLimit(limit int) int {
	if limit < 0 {
		return 0
	}
	if limit > 99 {
		return 99
	}
	return limit
}
