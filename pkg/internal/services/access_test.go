package services

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftvale/tempvoice/pkg/internal/platform"
)

func TestClaimUnmanagedChannel(t *testing.T) {
	fx := newFixture()
	access := fx.access()

	err := access.Claim(context.Background(), Actor{ID: "u1"}, "g1", "wild-1")
	require.NoError(t, err)

	record, err := fx.channels.Get(context.Background(), "wild-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", record.OwnerID)

	ow, ok := fx.client.overwriteFor("wild-1", "u1")
	require.True(t, ok)
	assert.Equal(t, platform.PermFull, ow.Allow)
}

func TestClaimRefusedWhileOwnerPresent(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")
	fx.presence.Update("owner", "g1", "c1")

	err := fx.access().Claim(context.Background(), Actor{ID: "u1"}, "g1", "c1")
	assert.ErrorIs(t, err, ErrOwnerInChannel)
}

func TestClaimSucceedsAfterOwnerLeft(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")
	fx.presence.Update("owner", "g1", "elsewhere")

	err := fx.access().Claim(context.Background(), Actor{ID: "u1"}, "g1", "c1")
	require.NoError(t, err)

	record, _ := fx.channels.Get(context.Background(), "c1")
	assert.Equal(t, "u1", record.OwnerID)
}

func TestClaimByOwnerIsRejected(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")

	err := fx.access().Claim(context.Background(), Actor{ID: "owner"}, "g1", "c1")
	assert.ErrorIs(t, err, ErrAlreadyOwner)
}

func TestClaimPersistentChannel(t *testing.T) {
	fx := newFixture()
	record := fx.seedChannel("g1", "c1", "owner")
	record.Persistent = true
	require.NoError(t, fx.channels.Save(context.Background(), record))

	// A persistent channel stays with its owner even while they are away.
	err := fx.access().Claim(context.Background(), Actor{ID: "u1"}, "g1", "c1")
	assert.ErrorIs(t, err, ErrOwnerInChannel)

	// Unless the ownership was explicitly vacated.
	record.OwnerID = ""
	require.NoError(t, fx.channels.Save(context.Background(), record))
	require.NoError(t, fx.access().Claim(context.Background(), Actor{ID: "u1"}, "g1", "c1"))

	got, _ := fx.channels.Get(context.Background(), "c1")
	assert.Equal(t, "u1", got.OwnerID)
}

func TestTransferMovesOwnership(t *testing.T) {
	fx := newFixture()
	record := fx.seedChannel("g1", "c1", "owner")
	record.Trust("u2")
	require.NoError(t, fx.channels.Save(context.Background(), record))

	err := fx.access().Transfer(context.Background(), Actor{ID: "owner"}, "c1", "u2")
	require.NoError(t, err)

	got, _ := fx.channels.Get(context.Background(), "c1")
	assert.Equal(t, "u2", got.OwnerID)
	assert.NotContains(t, got.Trusted, "u2", "new owner leaves the trusted set")

	ow, ok := fx.client.overwriteFor("c1", "u2")
	require.True(t, ok)
	assert.Equal(t, platform.PermFull, ow.Allow)
}

func TestTransferRequiresOwner(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")

	err := fx.access().Transfer(context.Background(), Actor{ID: "u2"}, "c1", "u3")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestTrustGrantsManagementOverwrite(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")

	err := fx.access().Trust(context.Background(), Actor{ID: "owner"}, "c1", "u2")
	require.NoError(t, err)

	record, _ := fx.channels.Get(context.Background(), "c1")
	assert.True(t, record.IsTrusted("u2"))

	ow, ok := fx.client.overwriteFor("c1", "u2")
	require.True(t, ok)
	assert.NotZero(t, ow.Allow&platform.PermManageChannels)
	assert.NotZero(t, ow.Allow&platform.PermConnect)
	assert.Zero(t, ow.Deny)
}

func TestUntrustRemovesOverwrite(t *testing.T) {
	fx := newFixture()
	access := fx.access()
	fx.seedChannel("g1", "c1", "owner")
	require.NoError(t, access.Trust(context.Background(), Actor{ID: "owner"}, "c1", "u2"))

	err := access.Untrust(context.Background(), Actor{ID: "owner"}, "c1", "u2")
	require.NoError(t, err)

	record, _ := fx.channels.Get(context.Background(), "c1")
	assert.False(t, record.IsTrusted("u2"))
	_, ok := fx.client.overwriteFor("c1", "u2")
	assert.False(t, ok)
}

func TestUntrustOwnerIsRejected(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")

	err := fx.access().Untrust(context.Background(), Actor{ID: "owner"}, "c1", "owner")
	assert.ErrorIs(t, err, ErrTargetIsOwner)
}

func TestBlockDeniesAndDisconnects(t *testing.T) {
	fx := newFixture()
	record := fx.seedChannel("g1", "c1", "owner")
	record.Trust("target")
	record.Invite("target")
	require.NoError(t, fx.channels.Save(context.Background(), record))

	err := fx.access().Block(context.Background(), Actor{ID: "owner"}, "g1", "c1", "target")
	require.NoError(t, err)

	got, _ := fx.channels.Get(context.Background(), "c1")
	assert.False(t, got.IsTrusted("target"))
	assert.False(t, got.IsInvited("target"))

	ow, ok := fx.client.overwriteFor("c1", "target")
	require.True(t, ok)
	assert.Equal(t, platform.PermFull, ow.Deny)
	assert.Contains(t, fx.client.disconnects, "target")
}

func TestBlockToleratesTargetNotInVoice(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")
	fx.client.disconnectErr = platform.ErrNotConnected

	err := fx.access().Block(context.Background(), Actor{ID: "owner"}, "g1", "c1", "target")
	assert.NoError(t, err)
}

func TestUnblockRestoresAccess(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")
	access := fx.access()

	require.NoError(t, access.Block(context.Background(), Actor{ID: "owner"}, "g1", "c1", "target"))
	_, ok := fx.client.overwriteFor("c1", "target")
	require.True(t, ok)

	err := access.Unblock(context.Background(), Actor{ID: "owner"}, "c1", "target")
	require.NoError(t, err)

	// The deny overwrite is gone and nothing else was left behind for
	// the target.
	_, ok = fx.client.overwriteFor("c1", "target")
	assert.False(t, ok)
	assert.Contains(t, fx.client.removedOverwrites, "target")
}

func TestUnblockRequiresTrust(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")

	err := fx.access().Unblock(context.Background(), Actor{ID: "stranger"}, "c1", "target")
	assert.ErrorIs(t, err, ErrNotTrusted)
}

func TestBlockOwnerIsRejected(t *testing.T) {
	fx := newFixture()
	record := fx.seedChannel("g1", "c1", "owner")
	record.Trust("u2")
	require.NoError(t, fx.channels.Save(context.Background(), record))

	err := fx.access().Block(context.Background(), Actor{ID: "u2"}, "g1", "c1", "owner")
	assert.ErrorIs(t, err, ErrTargetIsOwner)
}

func TestInviteSendsNotification(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")

	err := fx.access().Invite(context.Background(), Actor{ID: "owner"}, "c1", "guest")
	require.NoError(t, err)

	record, _ := fx.channels.Get(context.Background(), "c1")
	assert.True(t, record.IsInvited("guest"))

	ow, ok := fx.client.overwriteFor("c1", "guest")
	require.True(t, ok)
	assert.Equal(t, platform.PermViewChannel|platform.PermConnect, ow.Allow)
	assert.Len(t, fx.client.directMessages["guest"], 1)
}

func TestInviteSurvivesClosedDirectMessages(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")
	fx.client.dmErr = errors.New("cannot send messages to this user")

	err := fx.access().Invite(context.Background(), Actor{ID: "owner"}, "c1", "guest")
	assert.NoError(t, err)

	record, _ := fx.channels.Get(context.Background(), "c1")
	assert.True(t, record.IsInvited("guest"))
}

func TestInviteRequiresTrust(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")

	err := fx.access().Invite(context.Background(), Actor{ID: "stranger"}, "c1", "guest")
	assert.ErrorIs(t, err, ErrNotTrusted)
}

func TestKickDisconnectsWithoutTouchingTrust(t *testing.T) {
	fx := newFixture()
	record := fx.seedChannel("g1", "c1", "owner")
	record.Trust("u2")
	require.NoError(t, fx.channels.Save(context.Background(), record))

	err := fx.access().Kick(context.Background(), Actor{ID: "owner"}, "g1", "c1", "u2")
	require.NoError(t, err)

	assert.Contains(t, fx.client.disconnects, "u2")
	got, _ := fx.channels.Get(context.Background(), "c1")
	assert.True(t, got.IsTrusted("u2"))
}

func TestSetPasswordLocksChannel(t *testing.T) {
	fx := newFixture()
	fx.seedChannel("g1", "c1", "owner")

	err := fx.access().SetPassword(context.Background(), Actor{ID: "owner"}, "g1", "c1", "hunter2")
	require.NoError(t, err)

	record, _ := fx.channels.Get(context.Background(), "c1")
	assert.True(t, record.VerifyPassword("hunter2"))

	edits := fx.client.edits["c1"]
	require.Len(t, edits, 1)
	var lockedEveryone bool
	for _, ow := range edits[0].Overwrites {
		if ow.Kind == platform.OverwriteRole && ow.Deny&platform.PermConnect != 0 {
			lockedEveryone = true
		}
	}
	assert.True(t, lockedEveryone, "everyone role loses connect")
}

func TestJoinWithPassword(t *testing.T) {
	fx := newFixture()
	record := fx.seedChannel("g1", "c1", "owner")
	record.Password = lo.ToPtr("hunter2")
	require.NoError(t, fx.channels.Save(context.Background(), record))

	access := fx.access()

	err := access.JoinWithPassword(context.Background(), "guest", "g1", "c1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	assert.Empty(t, fx.client.moves)

	err = access.JoinWithPassword(context.Background(), "guest", "g1", "c1", "hunter2")
	require.NoError(t, err)
	require.Len(t, fx.client.moves, 1)
	assert.Equal(t, moveCall{GuildID: "g1", UserID: "guest", ChannelID: "c1"}, fx.client.moves[0])
}

func TestJoinWithPasswordRequiresVoicePresence(t *testing.T) {
	fx := newFixture()
	record := fx.seedChannel("g1", "c1", "owner")
	record.Password = lo.ToPtr("hunter2")
	require.NoError(t, fx.channels.Save(context.Background(), record))
	fx.client.moveErr = platform.ErrNotConnected

	err := fx.access().JoinWithPassword(context.Background(), "guest", "g1", "c1", "hunter2")
	assert.ErrorIs(t, err, ErrNotInVoice)
}
