package models

// GuildConfig stores the per-guild setup: which category temporary
// channels are created under, and the creator channel users join to
// trigger provisioning. Written only by the setup command.
type GuildConfig struct {
	BaseModel

	GuildID          string `json:"guild_id" gorm:"uniqueIndex"`
	CategoryID       string `json:"category_id"`
	CreatorChannelID string `json:"creator_channel_id"`
}
