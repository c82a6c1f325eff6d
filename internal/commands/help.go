package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/bowtie/internal/command"
	"github.com/keshon/bowtie/internal/guild"
	"github.com/keshon/bowtie/internal/permission"
	"github.com/keshon/bowtie/internal/version"
)

// Help lists every registered command with its effective permission level
// for the current guild.
type Help struct {
	*command.Base
	sender   Sender
	registry Registry
}

func NewHelp(sender Sender, registry Registry) *Help {
	return &Help{
		Base:     command.NewBase([]string{"help", "h"}, permission.User, false),
		sender:   sender,
		registry: registry,
	}
}

func (c *Help) Execute(ev *command.Event) error {
	embed := &discordgo.MessageEmbed{
		Title: version.AppName + " commands",
		Color: 0x5865f2,
	}
	for _, cmd := range c.registry.Commands() {
		name := strings.Join(cmd.Expressions(), ", ")
		desc := "No description."
		if h := cmd.Help(ev.Guild); h != nil && h.Description != "" {
			desc = h.Description
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  name,
			Value: fmt.Sprintf("%s\nRequires: %s", desc, cmd.PermissionOverride(ev.Guild)),
		})
	}
	_, err := c.sender.SendEmbed(ev.ChannelID(), embed)
	return err
}

func (c *Help) Help(g *guild.Guild) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "help",
		Description: "Show this command list.",
	}
}
