package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/driftvale/tempvoice/pkg/internal/database"
	"github.com/driftvale/tempvoice/pkg/internal/platform"
	"github.com/driftvale/tempvoice/pkg/internal/presence"
)

// Cleaner is the safety net behind the event-driven deletion path: a
// periodic sweep for records whose platform channel is gone or sitting
// empty after a missed presence event.
type Cleaner struct {
	Platform platform.Client
	Channels ChannelStore
	Guilds   GuildStore
	Presence *presence.Cache
}

func (cl *Cleaner) RunSweep(ctx context.Context) {
	runId := uuid.NewString()
	log.Debug().Str("run", runId).Msg("Now sweeping for orphan voice channels...")

	records, err := cl.Channels.List(ctx, "")
	if err != nil {
		log.Error().Err(err).Str("run", runId).Msg("An error occurred when listing channel records...")
		return
	}

	var removed int
	for _, record := range records {
		if record.Persistent {
			continue
		}
		if cl.Presence.CountInChannel(record.ChannelID) > 0 {
			continue
		}

		if _, err := cl.Platform.ChannelParent(ctx, record.ChannelID); err != nil {
			if !errors.Is(err, platform.ErrUnknownChannel) {
				log.Warn().Err(err).Str("channel", record.ChannelID).Msg("Unable to inspect channel during sweep.")
				continue
			}
			// Platform channel is gone; just drop the record.
		} else if err := cl.Platform.DeleteChannel(ctx, record.ChannelID); err != nil && !errors.Is(err, platform.ErrUnknownChannel) {
			log.Warn().Err(err).Str("channel", record.ChannelID).Msg("Unable to delete channel during sweep.")
			continue
		}

		if err := cl.Channels.Delete(ctx, record.ChannelID); err != nil {
			log.Warn().Err(err).Str("channel", record.ChannelID).Msg("Unable to delete record during sweep.")
			continue
		}
		removed++
	}

	log.Debug().Str("run", runId).Int("removed", removed).Msg("Orphan voice channel sweep accomplished.")
}

// DoAutoDatabaseCleanup hard-deletes soft-deleted rows older than an
// hour.
func DoAutoDatabaseCleanup() {
	deadline := time.Now().Add(-60 * time.Minute)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	var count int64
	for _, model := range database.AutoMaintainRange {
		tx := database.C.Unscoped().Delete(model, "deleted_at IS NOT NULL AND deleted_at <= ?", deadline)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running database cleanup...")
		}
		count += tx.RowsAffected
	}

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
