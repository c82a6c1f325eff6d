package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/bowtie/internal/bot"
	"github.com/keshon/bowtie/internal/commands"
	"github.com/keshon/bowtie/internal/config"
	"github.com/keshon/bowtie/internal/logging"
	"github.com/keshon/bowtie/internal/storage"
	v "github.com/keshon/bowtie/internal/version"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogPath)
	log.Info().Str("version", v.Version).Msgf("starting %s", v.AppName)

	store, err := storage.New(cfg.StoragePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open storage")
	}
	defer store.Close()

	b, err := bot.New(cfg, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create bot")
	}

	registerCommands(b, cfg, store)

	b.SetPresences([]bot.Presence{
		{Status: discordgo.StatusOnline, Activity: discordgo.ActivityTypeListening, Text: cfg.DefaultPrefix + "help"},
		{Status: discordgo.StatusOnline, Activity: discordgo.ActivityTypeWatching, Text: "the servers"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := b.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		// Wait for Run to finish its cleanup before the deferred closes.
		if err := <-errCh; err != nil {
			log.Error().Err(err).Msg("bot stopped")
		}
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("bot stopped")
		}
	}
}

func registerCommands(b *bot.Bot, cfg *config.Config, store *storage.Storage) {
	guilds := b.GuildCommands()
	private := b.PrivateCommands()

	ping := commands.NewPing(b, b.Scheduler(), 3*time.Second)
	ban := commands.NewBan(b, b)

	guilds.Register(
		ping,
		commands.NewHelp(b, guilds),
		commands.NewPrefix(b, store),
		commands.NewMaster(b, store),
		commands.NewOwner(b, store),
		commands.NewOverride(b, guilds),
		commands.NewAlias(b, guilds, store),
		ban,
	)
	private.Register(
		ping,
		commands.NewHelp(b, private),
		ban,
	)
}
