package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	pkg "github.com/driftvale/tempvoice/pkg/internal"
	"github.com/driftvale/tempvoice/pkg/internal/bot"
	"github.com/driftvale/tempvoice/pkg/internal/cache"
	"github.com/driftvale/tempvoice/pkg/internal/database"
	"github.com/driftvale/tempvoice/pkg/internal/platform"
	"github.com/driftvale/tempvoice/pkg/internal/presence"
	"github.com/driftvale/tempvoice/pkg/internal/services"
	"github.com/driftvale/tempvoice/pkg/internal/web"
	"github.com/driftvale/tempvoice/pkg/internal/web/api"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" _____                   __     __    _\n|_   _|__ _ __ ___  _ __ \\ \\   / /__ (_) ___ ___\n  | |/ _ \\ '_ ` _ \\| '_ \\ \\ \\ / / _ \\| |/ __/ _ \\\n  | |  __/ | | | | | |_) | \\ V / (_) | | (_|  __/\n  |_|\\___|_| |_| |_| .__/   \\_/ \\___/|_|\\___\\___|\n                   |_|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Driftvale.TempVoice"), pkg.AppVersion)
	fmt.Println()

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewSource(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Assemble engines
	channels := services.NewChannelStore()
	guilds := services.NewGuildStore()
	occupancy := presence.NewCache()

	tempvoice, err := bot.NewBot(guilds, occupancy)
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when creating discord session.")
	}
	client := platform.NewDiscord(tempvoice.Session)

	lifecycle := &services.Lifecycle{
		Platform:    client,
		Channels:    channels,
		Guilds:      guilds,
		Presence:    occupancy,
		GraceWindow: viper.GetDuration("temp_voice.grace_period"),
	}
	access := &services.Access{Platform: client, Channels: channels, Presence: occupancy}
	privacy := &services.Privacy{Platform: client, Channels: channels, Presence: occupancy}
	cleaner := &services.Cleaner{Platform: client, Channels: channels, Guilds: guilds, Presence: occupancy}

	tempvoice.Lifecycle = lifecycle
	tempvoice.Access = access
	tempvoice.Privacy = privacy

	// Server
	api.Channels = channels
	api.Guilds = guilds
	api.Sweeper = cleaner

	web.NewServer()
	go web.Listen()

	// Connect to Discord
	if err := tempvoice.Open(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to discord.")
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc(fmt.Sprintf("@every %s", viper.GetString("temp_voice.sweep_interval")), func() {
		cleaner.RunSweep(context.Background())
	})
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	// Messages
	log.Info().Msgf("TempVoice v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("TempVoice v%s is quitting...", pkg.AppVersion)

	tempvoice.Close()
	quartz.Stop()
}
