package services

import (
	"github.com/driftvale/tempvoice/pkg/internal/models"
	"github.com/driftvale/tempvoice/pkg/internal/platform"
)

func ownerOverwrite(userId string) platform.Overwrite {
	return platform.Overwrite{
		TargetID: userId,
		Kind:     platform.OverwriteMember,
		Allow:    platform.PermFull,
	}
}

func trustedOverwrite(userId string) platform.Overwrite {
	return platform.Overwrite{
		TargetID: userId,
		Kind:     platform.OverwriteMember,
		Allow: platform.PermViewChannel | platform.PermConnect |
			platform.PermManageChannels | platform.PermSetVoiceStatus,
	}
}

func invitedOverwrite(userId string) platform.Overwrite {
	return platform.Overwrite{
		TargetID: userId,
		Kind:     platform.OverwriteMember,
		Allow:    platform.PermViewChannel | platform.PermConnect,
	}
}

func blockedOverwrite(userId string) platform.Overwrite {
	return platform.Overwrite{
		TargetID: userId,
		Kind:     platform.OverwriteMember,
		Deny:     platform.PermFull,
	}
}

// everyoneOverwrite maps the stateless privacy modes onto the @everyone
// role overwrite. The everyone role shares the guild's id.
func everyoneOverwrite(guildId string, mode models.ChannelMode) platform.Overwrite {
	ow := platform.Overwrite{TargetID: guildId, Kind: platform.OverwriteRole}
	switch mode {
	case models.ChannelModeInvisible:
		ow.Deny = platform.PermViewChannel
	case models.ChannelModeLocked:
		ow.Deny = platform.PermConnect
	case models.ChannelModeUnlocked:
		ow.Allow = platform.PermConnect
	default:
		ow.Allow = platform.PermViewChannel
	}
	return ow
}

func lockedEveryoneOverwrite(guildId string) platform.Overwrite {
	return everyoneOverwrite(guildId, models.ChannelModeLocked)
}
