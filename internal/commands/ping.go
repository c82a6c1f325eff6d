package commands

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/bowtie/internal/command"
	"github.com/keshon/bowtie/internal/guild"
	"github.com/keshon/bowtie/internal/permission"
)

// Ping answers with a pong and then sits out a short per-guild cooldown.
type Ping struct {
	*command.Base
	sender   Sender
	sched    command.Scheduler
	cooldown time.Duration
}

func NewPing(sender Sender, sched command.Scheduler, cooldown time.Duration) *Ping {
	return &Ping{
		Base:     command.NewBase([]string{"ping"}, permission.User, true),
		sender:   sender,
		sched:    sched,
		cooldown: cooldown,
	}
}

func (c *Ping) Execute(ev *command.Event) error {
	_, err := c.sender.SendText(ev.ChannelID(), "Pong!")
	if err != nil {
		return err
	}
	c.StartCooldown(c.sched, ev.Guild, c.cooldown)
	return nil
}

func (c *Ping) Help(g *guild.Guild) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "ping",
		Description: "Check that the bot is alive.",
	}
}
