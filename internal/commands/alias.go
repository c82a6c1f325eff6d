package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/bowtie/internal/command"
	"github.com/keshon/bowtie/internal/guild"
	"github.com/keshon/bowtie/internal/permission"
	"github.com/keshon/bowtie/internal/storage"
)

// Alias binds a guild-local alias to a command.
type Alias struct {
	*command.Base
	sender   Sender
	registry Registry
	store    *storage.Storage
}

func NewAlias(sender Sender, registry Registry, store *storage.Storage) *Alias {
	return &Alias{
		Base:     command.NewBase([]string{"alias"}, permission.Master, false),
		sender:   sender,
		registry: registry,
		store:    store,
	}
}

func (c *Alias) Execute(ev *command.Event) error {
	args := ev.Args()
	if len(args) < 2 {
		return c.reply(ev, "Usage: `alias <command> <alias>`")
	}
	target := c.registry.Get(args[0])
	if target == nil {
		return c.reply(ev, fmt.Sprintf("Unknown command `%s`.", args[0]))
	}
	alias := strings.ToLower(args[1])
	target.SetAlias(ev.Guild.StringID(), alias)
	if err := c.store.SetAlias(ev.Guild.StringID(), args[0], alias); err != nil {
		return fmt.Errorf("persist alias: %w", err)
	}
	return c.reply(ev, fmt.Sprintf("`%s` is now an alias for `%s` here.", alias, args[0]))
}

func (c *Alias) reply(ev *command.Event, text string) error {
	_, err := c.sender.SendText(ev.ChannelID(), text)
	return err
}

func (c *Alias) Help(g *guild.Guild) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "alias",
		Description: "Bind a server-local alias to a command.",
	}
}
