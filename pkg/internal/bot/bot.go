package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/driftvale/tempvoice/pkg/internal/presence"
	"github.com/driftvale/tempvoice/pkg/internal/services"
)

// Bot wires the gateway connection to the channel engines. Every event
// handler is short-lived: it updates shared state under tight locks and
// then issues platform calls without holding anything.
type Bot struct {
	Session *discordgo.Session

	Lifecycle *services.Lifecycle
	Access    *services.Access
	Privacy   *services.Privacy
	Guilds    services.GuildStore
	Presence  *presence.Cache
}

// NewBot opens nothing yet; the engine fields must be filled in before
// Open is called.
func NewBot(guilds services.GuildStore, cache *presence.Cache) (*Bot, error) {
	session, err := discordgo.New("Bot " + viper.GetString("discord.token"))
	if err != nil {
		return nil, fmt.Errorf("unable to create discord session: %v", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMembers

	bot := &Bot{
		Session:  session,
		Guilds:   guilds,
		Presence: cache,
	}

	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onGuildCreate)
	session.AddHandler(bot.onVoiceStateUpdate)
	session.AddHandler(bot.onInteractionCreate)

	return bot, nil
}

func (b *Bot) Open() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("unable to open gateway connection: %v", err)
	}

	if _, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", voiceCommand()); err != nil {
		return fmt.Errorf("unable to register voice command: %v", err)
	}

	return nil
}

func (b *Bot) Close() error {
	return b.Session.Close()
}

func (b *Bot) onReady(_ *discordgo.Session, e *discordgo.Ready) {
	log.Info().Str("user", e.User.Username).Int("guilds", len(e.Guilds)).Msg("Gateway connection is ready.")
}

// onGuildCreate seeds the presence cache from the guild's full voice
// state snapshot, so nothing depends on the ordering of events emitted
// before we connected.
func (b *Bot) onGuildCreate(_ *discordgo.Session, e *discordgo.GuildCreate) {
	states := make([]presence.Entry, 0, len(e.VoiceStates))
	for _, state := range e.VoiceStates {
		states = append(states, presence.Entry{UserID: state.UserID, ChannelID: state.ChannelID})
	}
	b.Presence.SeedGuild(e.ID, states)

	log.Debug().Str("guild", e.ID).Int("voice_states", len(states)).Msg("Seeded presence cache for guild.")
}
