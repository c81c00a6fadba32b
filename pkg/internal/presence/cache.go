// Package presence tracks, in process memory, which voice channel every
// user currently occupies. The cache is rebuilt from the gateway's guild
// snapshot on (re)connect, so it is deliberately not persisted anywhere.
package presence

import "sync"

// Entry is one user's last observed voice placement.
type Entry struct {
	UserID    string
	GuildID   string
	ChannelID string
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Update replaces the entry for the user and returns the previous one, if
// any. An empty channel id means the user left voice and removes the
// entry entirely.
func (c *Cache) Update(userId, guildId, channelId string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.entries[userId]
	if channelId == "" {
		delete(c.entries, userId)
	} else {
		c.entries[userId] = Entry{UserID: userId, GuildID: guildId, ChannelID: channelId}
	}
	return prev, ok
}

// CountInChannel reports the cached occupancy of a channel. The result is
// inherently racy against unprocessed events; callers treat a zero as a
// best-effort deletion trigger only.
func (c *Cache) CountInChannel(channelId string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	for _, entry := range c.entries {
		if entry.ChannelID == channelId {
			n++
		}
	}
	return n
}

func (c *Cache) UserInChannel(userId, channelId string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userId]
	return ok && entry.ChannelID == channelId
}

func (c *Cache) Get(userId string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userId]
	return entry, ok
}

// UsersInChannel lists the cached occupants of a channel, for bulk mute
// transitions.
func (c *Cache) UsersInChannel(channelId string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var users []string
	for _, entry := range c.entries {
		if entry.ChannelID == channelId {
			users = append(users, entry.UserID)
		}
	}
	return users
}

// SeedGuild replaces every entry belonging to the guild with the given
// snapshot, so reconnects do not depend on historical event ordering.
func (c *Cache) SeedGuild(guildId string, states []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for userId, entry := range c.entries {
		if entry.GuildID == guildId {
			delete(c.entries, userId)
		}
	}
	for _, state := range states {
		if state.ChannelID == "" {
			continue
		}
		state.GuildID = guildId
		c.entries[state.UserID] = state
	}
}
