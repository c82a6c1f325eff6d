package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/bowtie/internal/command"
	"github.com/keshon/bowtie/internal/guild"
	"github.com/keshon/bowtie/internal/permission"
)

// Override changes the permission level a command requires in this guild.
type Override struct {
	*command.Base
	sender   Sender
	registry Registry
}

func NewOverride(sender Sender, registry Registry) *Override {
	return &Override{
		Base:     command.NewBase([]string{"override"}, permission.Owner, false),
		sender:   sender,
		registry: registry,
	}
}

func (c *Override) Execute(ev *command.Event) error {
	args := ev.Args()
	if len(args) < 2 {
		return c.reply(ev, "Usage: `override <command> <level>`")
	}
	target := c.registry.Get(args[0])
	if target == nil {
		return c.reply(ev, fmt.Sprintf("Unknown command `%s`.", args[0]))
	}
	level, ok := permission.Parse(args[1])
	if !ok {
		return c.reply(ev, fmt.Sprintf("Unknown permission level `%s`.", args[1]))
	}
	switch target.OverridePermission(level, ev.Guild) {
	case command.CantOverride:
		return c.reply(ev, fmt.Sprintf("`%s` does not allow overrides.", args[0]))
	case command.DefaultPermission:
		return c.reply(ev, fmt.Sprintf("`%s` is back to its default level %s.", args[0], target.DefaultPermission()))
	default:
		return c.reply(ev, fmt.Sprintf("`%s` now requires %s here.", args[0], level))
	}
}

func (c *Override) reply(ev *command.Event, text string) error {
	_, err := c.sender.SendText(ev.ChannelID(), text)
	return err
}

func (c *Override) Help(g *guild.Guild) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "override",
		Description: "Change the permission level a command requires in this server.",
	}
}
