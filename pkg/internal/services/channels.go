package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"gorm.io/gorm"

	localCache "github.com/driftvale/tempvoice/pkg/internal/cache"
	"github.com/driftvale/tempvoice/pkg/internal/database"
	"github.com/driftvale/tempvoice/pkg/internal/models"
)

// ChannelStore is the single authority for persisted channel records.
// Get returns ErrChannelNotManaged for unknown channels so that callers
// can tell the expected race apart from storage failures.
type ChannelStore interface {
	Get(ctx context.Context, channelId string) (*models.VoiceChannel, error)
	List(ctx context.Context, guildId string) ([]models.VoiceChannel, error)
	Save(ctx context.Context, channel *models.VoiceChannel) error
	Delete(ctx context.Context, channelId string) error
	CountPersistentByOwner(ctx context.Context, ownerId string) (int64, error)
}

func GetVoiceChannelCacheKey(channelId string) string {
	return fmt.Sprintf("voice-channel#%s", channelId)
}

// SqlChannelStore keeps records in the database with a shared cache in
// front of single-record reads, invalidated by tag on every mutation.
type SqlChannelStore struct{}

func NewChannelStore() *SqlChannelStore {
	return &SqlChannelStore{}
}

func (*SqlChannelStore) Get(ctx context.Context, channelId string) (*models.VoiceChannel, error) {
	marshal := marshaler.New(cache.New[any](localCache.S))

	if val, err := marshal.Get(ctx, GetVoiceChannelCacheKey(channelId), new(models.VoiceChannel)); err == nil {
		return val.(*models.VoiceChannel), nil
	}

	var channel models.VoiceChannel
	if err := database.C.WithContext(ctx).
		Where(models.VoiceChannel{ChannelID: channelId}).
		First(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotManaged
		}
		return nil, err
	}

	_ = marshal.Set(
		ctx,
		GetVoiceChannelCacheKey(channelId),
		channel,
		store.WithTags([]string{"voice-channel", fmt.Sprintf("channel#%s", channelId)}),
	)

	return &channel, nil
}

func (*SqlChannelStore) List(ctx context.Context, guildId string) ([]models.VoiceChannel, error) {
	tx := database.C.WithContext(ctx)
	if guildId != "" {
		tx = tx.Where(models.VoiceChannel{GuildID: guildId})
	}

	var channels []models.VoiceChannel
	if err := tx.Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

func (*SqlChannelStore) Save(ctx context.Context, channel *models.VoiceChannel) error {
	if err := database.C.WithContext(ctx).Save(channel).Error; err != nil {
		return err
	}

	flushVoiceChannelCache(ctx, channel.ChannelID)
	return nil
}

func (*SqlChannelStore) Delete(ctx context.Context, channelId string) error {
	if err := database.C.WithContext(ctx).
		Where(models.VoiceChannel{ChannelID: channelId}).
		Delete(&models.VoiceChannel{}).Error; err != nil {
		return err
	}

	flushVoiceChannelCache(ctx, channelId)
	return nil
}

func (*SqlChannelStore) CountPersistentByOwner(ctx context.Context, ownerId string) (int64, error) {
	var count int64
	if err := database.C.WithContext(ctx).
		Model(&models.VoiceChannel{}).
		Where(models.VoiceChannel{OwnerID: ownerId, Persistent: true}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func flushVoiceChannelCache(ctx context.Context, channelId string) {
	_ = cache.New[any](localCache.S).Invalidate(
		ctx,
		store.WithInvalidateTags([]string{fmt.Sprintf("channel#%s", channelId)}),
	)
}
