package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/driftvale/tempvoice/pkg/internal/database"
	"github.com/driftvale/tempvoice/pkg/internal/models"
)

// GuildStore persists the per-guild temp-voice setup. Get returns
// ErrGuildNotSetUp for guilds the setup command never ran in.
type GuildStore interface {
	Get(ctx context.Context, guildId string) (*models.GuildConfig, error)
	Save(ctx context.Context, config *models.GuildConfig) error
}

type SqlGuildStore struct{}

func NewGuildStore() *SqlGuildStore {
	return &SqlGuildStore{}
}

func (*SqlGuildStore) Get(ctx context.Context, guildId string) (*models.GuildConfig, error) {
	var config models.GuildConfig
	if err := database.C.WithContext(ctx).
		Where(models.GuildConfig{GuildID: guildId}).
		First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuildNotSetUp
		}
		return nil, err
	}
	return &config, nil
}

func (*SqlGuildStore) Save(ctx context.Context, config *models.GuildConfig) error {
	var existing models.GuildConfig
	err := database.C.WithContext(ctx).
		Where(models.GuildConfig{GuildID: config.GuildID}).
		First(&existing).Error
	if err == nil {
		config.ID = existing.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return database.C.WithContext(ctx).Save(config).Error
}
