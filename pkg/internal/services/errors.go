package services

import "errors"

// Precondition failures surfaced to the invoking user. The command
// surface owns turning these into response text; engines only pick the
// kind. Races against the deletion sweep legitimately produce
// ErrChannelNotManaged and are never treated as bugs.
var (
	ErrChannelNotManaged = errors.New("no record for this voice channel")
	ErrNotInVoice        = errors.New("user is not in a voice channel")
	ErrAlreadyOwner      = errors.New("user already owns this channel")
	ErrOwnerInChannel    = errors.New("channel owner is still in the channel")
	ErrNotOwner          = errors.New("only the channel owner can do this")
	ErrNotTrusted        = errors.New("only trusted users can do this")
	ErrTargetIsOwner     = errors.New("the channel owner cannot be targeted")
	ErrInvalidPassword   = errors.New("invalid channel password")
	ErrMaxPersistent     = errors.New("persistent channel limit reached")
	ErrPremiumRequired   = errors.New("premium status required")
	ErrGuildNotSetUp     = errors.New("temporary voice is not set up for this guild")
)

// Actor carries the command invoker's identity and the platform-side
// privileges the engines gate on.
type Actor struct {
	ID          string
	DisplayName string
	Moderator   bool
	Premium     bool
}
