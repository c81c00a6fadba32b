package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/driftvale/tempvoice/pkg/internal/models"
	"github.com/driftvale/tempvoice/pkg/internal/platform"
	"github.com/driftvale/tempvoice/pkg/internal/presence"
)

type moveCall struct {
	GuildID   string
	UserID    string
	ChannelID string
}

type muteCall struct {
	UserID string
	Mute   bool
}

// fakeClient records every platform call and serves canned state, so the
// engines can be exercised without a gateway connection.
type fakeClient struct {
	mu sync.Mutex

	nextChannel int
	parents     map[string]string
	voiceStates map[string]*platform.VoiceState

	created           []platform.CreateChannelOptions
	deleted           []string
	edits             map[string][]platform.ChannelPatch
	overwrites        map[string]map[string]platform.Overwrite
	removedOverwrites []string
	moves             []moveCall
	disconnects       []string
	mutes             []muteCall
	directMessages    map[string][]string

	createErr     error
	moveErr       error
	disconnectErr error
	dmErr         error
	parentErr     error
	voiceErr      error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		parents:        make(map[string]string),
		voiceStates:    make(map[string]*platform.VoiceState),
		edits:          make(map[string][]platform.ChannelPatch),
		overwrites:     make(map[string]map[string]platform.Overwrite),
		directMessages: make(map[string][]string),
	}
}

func (f *fakeClient) CreateVoiceChannel(_ context.Context, _ string, opts platform.CreateChannelOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}

	f.nextChannel++
	channelId := fmt.Sprintf("chan-%d", f.nextChannel)
	f.created = append(f.created, opts)
	f.parents[channelId] = opts.ParentID
	for _, ow := range opts.Overwrites {
		f.setOverwriteLocked(channelId, ow)
	}
	return channelId, nil
}

func (f *fakeClient) DeleteChannel(_ context.Context, channelId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.parents[channelId]; !ok {
		return platform.ErrUnknownChannel
	}
	delete(f.parents, channelId)
	f.deleted = append(f.deleted, channelId)
	return nil
}

func (f *fakeClient) EditChannel(_ context.Context, channelId string, patch platform.ChannelPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits[channelId] = append(f.edits[channelId], patch)
	return nil
}

func (f *fakeClient) ChannelParent(_ context.Context, channelId string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.parentErr != nil {
		return "", f.parentErr
	}

	parent, ok := f.parents[channelId]
	if !ok {
		return "", platform.ErrUnknownChannel
	}
	return parent, nil
}

func (f *fakeClient) SetOverwrite(_ context.Context, channelId string, overwrite platform.Overwrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setOverwriteLocked(channelId, overwrite)
	return nil
}

func (f *fakeClient) setOverwriteLocked(channelId string, overwrite platform.Overwrite) {
	if f.overwrites[channelId] == nil {
		f.overwrites[channelId] = make(map[string]platform.Overwrite)
	}
	f.overwrites[channelId][overwrite.TargetID] = overwrite
}

func (f *fakeClient) RemoveOverwrite(_ context.Context, channelId, targetId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.overwrites[channelId], targetId)
	f.removedOverwrites = append(f.removedOverwrites, targetId)
	return nil
}

func (f *fakeClient) MoveMember(_ context.Context, guildId, userId, channelId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, moveCall{GuildID: guildId, UserID: userId, ChannelID: channelId})
	return nil
}

func (f *fakeClient) DisconnectMember(_ context.Context, _, userId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disconnectErr != nil {
		return f.disconnectErr
	}
	f.disconnects = append(f.disconnects, userId)
	return nil
}

func (f *fakeClient) MuteMember(_ context.Context, _, userId string, mute bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutes = append(f.mutes, muteCall{UserID: userId, Mute: mute})
	return nil
}

func (f *fakeClient) VoiceState(_ context.Context, _, userId string) (*platform.VoiceState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.voiceErr != nil {
		return nil, f.voiceErr
	}
	return f.voiceStates[userId], nil
}

func (f *fakeClient) SendDirectMessage(_ context.Context, userId, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dmErr != nil {
		return f.dmErr
	}
	f.directMessages[userId] = append(f.directMessages[userId], content)
	return nil
}

func (f *fakeClient) overwriteFor(channelId, targetId string) (platform.Overwrite, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ow, ok := f.overwrites[channelId][targetId]
	return ow, ok
}

// memChannelStore is the in-memory stand-in for SqlChannelStore. Get
// hands out copies so mutations only land through Save, like they would
// through the database.
type memChannelStore struct {
	mu      sync.Mutex
	records map[string]models.VoiceChannel
}

func newMemChannelStore() *memChannelStore {
	return &memChannelStore{records: make(map[string]models.VoiceChannel)}
}

func (s *memChannelStore) Get(_ context.Context, channelId string) (*models.VoiceChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[channelId]
	if !ok {
		return nil, ErrChannelNotManaged
	}
	return &record, nil
}

func (s *memChannelStore) List(_ context.Context, guildId string) ([]models.VoiceChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var channels []models.VoiceChannel
	for _, record := range s.records {
		if guildId == "" || record.GuildID == guildId {
			channels = append(channels, record)
		}
	}
	return channels, nil
}

func (s *memChannelStore) Save(_ context.Context, channel *models.VoiceChannel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[channel.ChannelID] = *channel
	return nil
}

func (s *memChannelStore) Delete(_ context.Context, channelId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, channelId)
	return nil
}

func (s *memChannelStore) CountPersistentByOwner(_ context.Context, ownerId string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, record := range s.records {
		if record.Persistent && record.OwnerID == ownerId {
			n++
		}
	}
	return n, nil
}

type memGuildStore struct {
	mu      sync.Mutex
	configs map[string]models.GuildConfig
}

func newMemGuildStore() *memGuildStore {
	return &memGuildStore{configs: make(map[string]models.GuildConfig)}
}

func (s *memGuildStore) Get(_ context.Context, guildId string) (*models.GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, ok := s.configs[guildId]
	if !ok {
		return nil, ErrGuildNotSetUp
	}
	return &config, nil
}

func (s *memGuildStore) Save(_ context.Context, config *models.GuildConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[config.GuildID] = *config
	return nil
}

type fixture struct {
	client   *fakeClient
	channels *memChannelStore
	guilds   *memGuildStore
	presence *presence.Cache
}

func newFixture() *fixture {
	return &fixture{
		client:   newFakeClient(),
		channels: newMemChannelStore(),
		guilds:   newMemGuildStore(),
		presence: presence.NewCache(),
	}
}

func (fx *fixture) lifecycle() *Lifecycle {
	return &Lifecycle{
		Platform: fx.client,
		Channels: fx.channels,
		Guilds:   fx.guilds,
		Presence: fx.presence,
	}
}

func (fx *fixture) access() *Access {
	return &Access{Platform: fx.client, Channels: fx.channels, Presence: fx.presence}
}

func (fx *fixture) privacy() *Privacy {
	return &Privacy{Platform: fx.client, Channels: fx.channels, Presence: fx.presence}
}

func (fx *fixture) cleaner() *Cleaner {
	return &Cleaner{Platform: fx.client, Channels: fx.channels, Guilds: fx.guilds, Presence: fx.presence}
}

// seedGuild registers a configured guild and returns its config.
func (fx *fixture) seedGuild(guildId string) *models.GuildConfig {
	config := &models.GuildConfig{
		GuildID:          guildId,
		CategoryID:       "category-" + guildId,
		CreatorChannelID: "creator-" + guildId,
	}
	_ = fx.guilds.Save(context.Background(), config)
	return config
}

// seedChannel registers a managed channel with a live platform channel
// under the guild's category.
func (fx *fixture) seedChannel(guildId, channelId, ownerId string) *models.VoiceChannel {
	record := models.NewVoiceChannel(channelId, guildId, ownerId)
	_ = fx.channels.Save(context.Background(), record)

	fx.client.mu.Lock()
	fx.client.parents[channelId] = "category-" + guildId
	fx.client.mu.Unlock()
	return record
}
