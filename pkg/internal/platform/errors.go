package platform

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrUnknownChannel means the channel no longer exists on the
	// platform. Expected during deletion races.
	ErrUnknownChannel = errors.New("platform: unknown channel")
	// ErrNotConnected means the target user is not connected to voice.
	ErrNotConnected = errors.New("platform: target not connected to voice")
	// ErrMissingPermissions means the bot itself lacks access; this is an
	// operator configuration problem, not a retryable failure.
	ErrMissingPermissions = errors.New("platform: missing permissions")
)

const jsonCodeTargetNotConnected = 40032

// classify maps Discord REST errors onto the sentinel errors above;
// everything else passes through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return err
	}

	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownChannel:
		return ErrUnknownChannel
	case jsonCodeTargetNotConnected:
		return ErrNotConnected
	case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
		return ErrMissingPermissions
	}

	return err
}
