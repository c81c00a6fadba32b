package models

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/datatypes"
)

type ChannelMode = uint8

const (
	ChannelModeVisible = ChannelMode(iota)
	ChannelModeInvisible
	ChannelModeLocked
	ChannelModeUnlocked
	ChannelModeSpectator
	ChannelModeOpenMic
)

// VoiceChannel is the persisted record of one managed temporary voice
// channel. The platform channel itself lives on the chat platform; this row
// only carries ownership and access-control state.
type VoiceChannel struct {
	BaseModel

	ChannelID string `json:"channel_id" gorm:"uniqueIndex"`
	GuildID   string `json:"guild_id" gorm:"index"`
	OwnerID   string `json:"owner_id"`

	Trusted datatypes.JSONSlice[string] `json:"trusted"`
	Invited datatypes.JSONSlice[string] `json:"invited"`

	Password   *string     `json:"-"`
	Persistent bool        `json:"persistent"`
	Mode       ChannelMode `json:"mode"`
}

func NewVoiceChannel(channelId, guildId, ownerId string) *VoiceChannel {
	return &VoiceChannel{
		ChannelID: channelId,
		GuildID:   guildId,
		OwnerID:   ownerId,
		Mode:      ChannelModeVisible,
	}
}

func (v *VoiceChannel) IsOwner(userId string) bool {
	return v.OwnerID == userId
}

// IsTrusted reports whether the user holds management rights on the
// channel. The owner is trusted regardless of set membership.
func (v *VoiceChannel) IsTrusted(userId string) bool {
	return v.OwnerID == userId || lo.Contains(v.Trusted, userId)
}

func (v *VoiceChannel) IsInvited(userId string) bool {
	return lo.Contains(v.Invited, userId)
}

// VerifyPassword is an exact, case-sensitive match against the stored
// secret. A channel without a password never matches.
func (v *VoiceChannel) VerifyPassword(pass string) bool {
	return v.Password != nil && *v.Password == pass
}

func (v *VoiceChannel) Trust(userId string) {
	if !lo.Contains(v.Trusted, userId) {
		v.Trusted = append(v.Trusted, userId)
	}
}

func (v *VoiceChannel) Untrust(userId string) {
	v.Trusted = lo.Filter(v.Trusted, func(id string, _ int) bool {
		return id != userId
	})
}

func (v *VoiceChannel) Invite(userId string) {
	if !lo.Contains(v.Invited, userId) {
		v.Invited = append(v.Invited, userId)
	}
}

// Block drops the user from both the trusted and invited sets. The deny
// overwrite on the platform side is the caller's job.
func (v *VoiceChannel) Block(userId string) {
	v.Untrust(userId)
	v.Invited = lo.Filter(v.Invited, func(id string, _ int) bool {
		return id != userId
	})
}

// Reset restores the record to its just-created state, keeping ownership
// and persistence.
func (v *VoiceChannel) Reset() {
	v.Trusted = nil
	v.Invited = nil
	v.Password = nil
	v.Mode = ChannelModeVisible
}

// DefaultName is the name template applied on creation and reset.
func DefaultName(displayName string) string {
	return fmt.Sprintf("%s's Channel", displayName)
}
