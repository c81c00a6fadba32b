// Package platform abstracts the chat platform's REST surface down to
// the calls the channel engines need. The only concrete implementation talks
// to Discord, but the engines never see a session directly so tests can
// substitute their own client.
package platform

import "context"

// Permission bits, matching the platform's wire values.
const (
	PermManageChannels int64 = 1 << 4
	PermViewChannel    int64 = 1 << 10
	PermConnect        int64 = 1 << 20
	PermSpeak          int64 = 1 << 21
	PermMuteMembers    int64 = 1 << 22
	PermDeafenMembers  int64 = 1 << 23
	PermMoveMembers    int64 = 1 << 24
	PermSetVoiceStatus int64 = 1 << 48

	// PermFull is the overwrite granted to a channel's owner.
	PermFull = PermManageChannels | PermViewChannel | PermConnect | PermSpeak |
		PermMuteMembers | PermDeafenMembers | PermMoveMembers | PermSetVoiceStatus
)

type OverwriteKind uint8

const (
	OverwriteMember = OverwriteKind(iota)
	OverwriteRole
)

// Overwrite is a single permission overwrite on a channel. For role
// overwrites TargetID holds the role id; the everyone role shares the
// guild's id.
type Overwrite struct {
	TargetID string
	Kind     OverwriteKind
	Allow    int64
	Deny     int64
}

// VoiceState is a user's authoritative placement as reported by the
// platform, used only for grace-window rechecks.
type VoiceState struct {
	UserID    string
	GuildID   string
	ChannelID string
}

type CreateChannelOptions struct {
	Name       string
	ParentID   string
	UserLimit  int
	Overwrites []Overwrite
}

// ChannelPatch carries optional channel metadata edits; nil fields are
// left untouched.
type ChannelPatch struct {
	Name       *string
	UserLimit  *int
	Bitrate    *int
	Region     *string
	Overwrites []Overwrite
}

type Client interface {
	CreateVoiceChannel(ctx context.Context, guildId string, opts CreateChannelOptions) (channelId string, err error)
	// DeleteChannel returns ErrUnknownChannel when the channel is already
	// gone; callers treat that as success.
	DeleteChannel(ctx context.Context, channelId string) error
	EditChannel(ctx context.Context, channelId string, patch ChannelPatch) error
	ChannelParent(ctx context.Context, channelId string) (string, error)

	SetOverwrite(ctx context.Context, channelId string, overwrite Overwrite) error
	RemoveOverwrite(ctx context.Context, channelId, targetId string) error

	// MoveMember returns ErrNotConnected when the target is not in voice.
	MoveMember(ctx context.Context, guildId, userId, channelId string) error
	DisconnectMember(ctx context.Context, guildId, userId string) error
	MuteMember(ctx context.Context, guildId, userId string, mute bool) error
	VoiceState(ctx context.Context, guildId, userId string) (*VoiceState, error)

	SendDirectMessage(ctx context.Context, userId, content string) error
}
