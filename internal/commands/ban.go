package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/bowtie/internal/command"
	"github.com/keshon/bowtie/internal/guild"
	"github.com/keshon/bowtie/internal/permission"
)

// Ban adds or removes users from the global banned set, depending on which
// expression triggered it.
type Ban struct {
	*command.Base
	sender Sender
	mod    Moderator
}

func NewBan(sender Sender, mod Moderator) *Ban {
	return &Ban{
		Base:   command.NewBase([]string{"ban", "unban"}, permission.Creator, false),
		sender: sender,
		mod:    mod,
	}
}

func (c *Ban) Execute(ev *command.Event) error {
	target := ""
	if m := ev.Mentions(); len(m) > 0 {
		target = m[0].ID
	} else if args := ev.Args(); len(args) > 0 {
		target = args[0]
	}
	if target == "" {
		return c.reply(ev, "Mention a user or pass their ID.")
	}
	if ev.Command == "unban" {
		if !c.mod.UnbanUser(target) {
			return c.reply(ev, fmt.Sprintf("<@%s> was not banned.", target))
		}
		return c.reply(ev, fmt.Sprintf("<@%s> is unbanned.", target))
	}
	if !c.mod.BanUser(target) {
		return c.reply(ev, fmt.Sprintf("<@%s> is already banned.", target))
	}
	return c.reply(ev, fmt.Sprintf("<@%s> is banned from all commands.", target))
}

func (c *Ban) reply(ev *command.Event, text string) error {
	_, err := c.sender.SendText(ev.ChannelID(), text)
	return err
}

func (c *Ban) Help(g *guild.Guild) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "ban, unban",
		Description: "Block or unblock a user from every command, everywhere.",
	}
}
