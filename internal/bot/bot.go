// Package bot wires the dispatch core to a Discord session: guild
// lifecycle, inbound message routing, rate-limited outbound sending,
// presence rotation, and the gateway health watchdog.
package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/bowtie/internal/command"
	"github.com/keshon/bowtie/internal/config"
	"github.com/keshon/bowtie/internal/guild"
	"github.com/keshon/bowtie/internal/permission"
	"github.com/keshon/bowtie/internal/storage"
	"github.com/keshon/bowtie/pkg/jobmgr"
	"github.com/keshon/bowtie/pkg/ratequeue"
)

// Bot is the application root. It owns the Discord session, the guild
// store, the process-wide user sets, and the command handlers.
type Bot struct {
	session *discordgo.Session
	cfg     *config.Config
	store   *storage.Storage
	log     zerolog.Logger

	guilds   *guild.Store
	resolver *permission.Resolver
	handler  *command.GuildHandler
	private  *command.PrivateHandler

	jobs    *jobmgr.Manager
	queue   *ratequeue.Queue
	rotator *Rotator

	users userSets
}

// New builds the bot and its Discord session. Commands are registered
// through GuildCommands and PrivateCommands before Run.
func New(cfg *config.Config, store *storage.Storage, log zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	b := &Bot{
		session: dg,
		cfg:     cfg,
		store:   store,
		log:     log,
		guilds:  guild.NewStore(),
		jobs: jobmgr.NewManager(func(msg string) {
			log.Debug().Str("job", msg).Msg("job status")
		}),
		rotator: &Rotator{},
		users:   newUserSets(),
	}
	b.resolver = permission.NewResolver(b, b.guilds)
	b.handler = command.NewGuildHandler(b.resolver)
	b.private = command.NewPrivateHandler(b.resolver)
	b.queue = ratequeue.NewQueue(ratequeue.NewLimiter(5, 1, 20), isRateLimited)
	return b, nil
}

// GuildCommands returns the handler for guild channels.
func (b *Bot) GuildCommands() *command.GuildHandler { return b.handler }

// PrivateCommands returns the handler for private channels.
func (b *Bot) PrivateCommands() *command.PrivateHandler { return b.private }

// Guilds returns the guild store.
func (b *Bot) Guilds() *guild.Store { return b.guilds }

// Storage returns the per-guild settings storage.
func (b *Bot) Storage() *storage.Storage { return b.store }

// Scheduler returns the job manager used for cooldowns and periodic work.
func (b *Bot) Scheduler() *jobmgr.Manager { return b.jobs }

// Run opens the session and blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.session.Identify.Intents = discordgo.IntentsAll
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onGuildCreate)
	b.session.AddHandler(b.onGuildDelete)
	b.session.AddHandler(b.onMessageCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.session.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, cleaning up")
	b.jobs.StopAll()
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	for _, id := range b.cfg.CreatorIDs() {
		b.AddCreator(id)
	}
	b.log.Info().Int("creators", len(b.Creators())).Msg("registered creators")

	if err := b.resolveAppOwner(); err != nil {
		b.log.Warn().Err(err).Msg("could not resolve application owner")
	}

	for _, g := range r.Guilds {
		b.registerGuild(g.ID)
	}
	b.log.Info().Int("guilds", b.guilds.Len()).Msg("created guild contexts")

	b.startPresence()
	b.startWatchdog()
	b.log.Info().Str("user", s.State.User.Username).Msg("bot is running")
}

func (b *Bot) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	b.log.Info().Str("guild", g.ID).Str("name", g.Name).Msg("joined guild")
	b.registerGuild(g.ID)
}

func (b *Bot) onGuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	if id, err := strconv.ParseInt(g.ID, 10, 64); err == nil {
		b.guilds.Remove(id)
		b.log.Info().Str("guild", g.ID).Msg("left guild")
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}

	if m.GuildID == "" {
		ev := command.ParseEvent(m, nil, b.cfg.DefaultPrefix)
		b.dispatch(b.private, ev)
		return
	}

	g, ok := b.guilds.Lookup(m.GuildID)
	if !ok {
		g = b.registerGuild(m.GuildID)
		if g == nil {
			return
		}
	}
	ev := command.ParseEvent(m, g, g.Prefix())
	b.dispatch(b.handler, ev)
}

func (b *Bot) dispatch(h command.Handler, ev *command.Event) {
	ok, err := h.Dispatch(ev)
	if err != nil {
		b.log.Error().Err(err).Str("command", ev.Command).Msg("error running command")
		_, _ = b.SendText(ev.ChannelID(), fmt.Sprintf("Error running command: %v", err))
		return
	}
	if ok {
		b.log.Debug().Str("command", ev.Command).Str("user", ev.AuthorID()).Msg("dispatched")
	}
}

// registerGuild creates the guild context if needed and applies its
// persisted settings: prefix, elevated user sets, and command aliases.
func (b *Bot) registerGuild(guildID string) *guild.Guild {
	id, err := strconv.ParseInt(guildID, 10, 64)
	if err != nil {
		b.log.Warn().Str("guild", guildID).Msg("unparseable guild ID")
		return nil
	}
	g := b.guilds.GetOrCreate(id, b.cfg.DefaultPrefix)

	rec, err := b.store.Guild(guildID)
	if err != nil {
		b.log.Warn().Err(err).Str("guild", guildID).Msg("failed to load guild settings")
		return g
	}
	if rec.Prefix != "" {
		g.SetPrefix(rec.Prefix)
	}
	g.SetMasters(rec.Masters)
	g.SetOwners(rec.Owners)
	for word, alias := range rec.Aliases {
		if cmd := b.handler.Get(word); cmd != nil {
			cmd.SetAlias(g.StringID(), alias)
		}
	}
	return g
}

func (b *Bot) resolveAppOwner() error {
	if b.cfg.AppOwnerID != "" {
		b.SetAppOwner(b.cfg.AppOwnerID)
		return nil
	}
	app, err := b.session.Application("@me")
	if err != nil {
		return err
	}
	if app.Owner == nil {
		return fmt.Errorf("application has no owner")
	}
	b.SetAppOwner(app.Owner.ID)
	return nil
}
