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

// Master manages the per-guild master set. Only owners may change it.
type Master struct {
	*command.Base
	sender Sender
	store  *storage.Storage
}

func NewMaster(sender Sender, store *storage.Storage) *Master {
	return &Master{
		Base:   command.NewBase([]string{"master"}, permission.Owner, false),
		sender: sender,
		store:  store,
	}
}

func (c *Master) Execute(ev *command.Event) error {
	g := ev.Guild
	sub, target := roleArgs(ev)
	switch sub {
	case "add":
		if target == "" {
			return c.reply(ev, "Mention a user or pass their ID.")
		}
		if !g.AddMaster(target) {
			return c.reply(ev, "That user already holds a role here.")
		}
		if err := c.store.AddMaster(g.StringID(), target); err != nil {
			return fmt.Errorf("persist master: %w", err)
		}
		return c.reply(ev, fmt.Sprintf("<@%s> is now a master.", target))
	case "remove":
		if target == "" {
			return c.reply(ev, "Mention a user or pass their ID.")
		}
		g.RemoveMaster(target)
		if err := c.store.RemoveMaster(g.StringID(), target); err != nil {
			return fmt.Errorf("persist master: %w", err)
		}
		return c.reply(ev, fmt.Sprintf("<@%s> is no longer a master.", target))
	default:
		return c.reply(ev, roleList("Masters", g.Masters()))
	}
}

func (c *Master) reply(ev *command.Event, text string) error {
	_, err := c.sender.SendText(ev.ChannelID(), text)
	return err
}

func (c *Master) Help(g *guild.Guild) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "master",
		Description: "Add, remove or list server masters: `master add @user`, `master remove @user`, `master list`.",
	}
}

// Owner manages the per-guild owner set. Reserved for the app owner.
type Owner struct {
	*command.Base
	sender Sender
	store  *storage.Storage
}

func NewOwner(sender Sender, store *storage.Storage) *Owner {
	return &Owner{
		Base:   command.NewBase([]string{"owner"}, permission.AppOwner, false),
		sender: sender,
		store:  store,
	}
}

func (c *Owner) Execute(ev *command.Event) error {
	g := ev.Guild
	sub, target := roleArgs(ev)
	switch sub {
	case "add":
		if target == "" {
			return c.reply(ev, "Mention a user or pass their ID.")
		}
		g.AddOwner(target)
		if err := c.store.AddOwner(g.StringID(), target); err != nil {
			return fmt.Errorf("persist owner: %w", err)
		}
		return c.reply(ev, fmt.Sprintf("<@%s> is now an owner.", target))
	case "remove":
		if target == "" {
			return c.reply(ev, "Mention a user or pass their ID.")
		}
		g.RemoveOwner(target)
		if err := c.store.RemoveOwner(g.StringID(), target); err != nil {
			return fmt.Errorf("persist owner: %w", err)
		}
		return c.reply(ev, fmt.Sprintf("<@%s> is no longer an owner.", target))
	default:
		return c.reply(ev, roleList("Owners", g.Owners()))
	}
}

func (c *Owner) reply(ev *command.Event, text string) error {
	_, err := c.sender.SendText(ev.ChannelID(), text)
	return err
}

func (c *Owner) Help(g *guild.Guild) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "owner",
		Description: "Add, remove or list server owners: `owner add @user`, `owner remove @user`, `owner list`.",
	}
}

// roleArgs pulls the subcommand and target user out of the event; mentions
// win over a raw ID argument.
func roleArgs(ev *command.Event) (sub, target string) {
	args := ev.Args()
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}
	if m := ev.Mentions(); len(m) > 0 {
		target = m[0].ID
	} else if len(args) > 1 {
		target = args[1]
	}
	return sub, target
}

func roleList(label string, ids []string) string {
	if len(ids) == 0 {
		return label + ": none."
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "<@" + id + ">"
	}
	return label + ": " + strings.Join(parts, ", ")
}
