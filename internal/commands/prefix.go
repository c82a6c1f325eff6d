package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/bowtie/internal/command"
	"github.com/keshon/bowtie/internal/guild"
	"github.com/keshon/bowtie/internal/permission"
	"github.com/keshon/bowtie/internal/storage"
)

// Prefix shows or changes the guild command prefix.
type Prefix struct {
	*command.Base
	sender Sender
	store  *storage.Storage
}

func NewPrefix(sender Sender, store *storage.Storage) *Prefix {
	return &Prefix{
		Base:   command.NewBase([]string{"prefix"}, permission.Master, false),
		sender: sender,
		store:  store,
	}
}

func (c *Prefix) Execute(ev *command.Event) error {
	args := ev.Args()
	if len(args) == 0 {
		_, err := c.sender.SendText(ev.ChannelID(), fmt.Sprintf("Current prefix is `%s`", ev.Guild.Prefix()))
		return err
	}
	next := args[0]
	ev.Guild.SetPrefix(next)
	if err := c.store.SetPrefix(ev.Guild.StringID(), next); err != nil {
		return fmt.Errorf("persist prefix: %w", err)
	}
	_, err := c.sender.SendText(ev.ChannelID(), fmt.Sprintf("Prefix changed to `%s`", next))
	return err
}

func (c *Prefix) Help(g *guild.Guild) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "prefix",
		Description: "Show or change the command prefix for this server.",
	}
}
