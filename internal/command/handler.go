package command

import (
	"github.com/keshon/bowtie/internal/permission"
)

// Handler dispatches command events. Dispatch reports whether the event
// resolved to a command that passed its checks; an unknown command word,
// insufficient permission, and an active cooldown all yield false with no
// further distinction. Errors from Execute propagate unchanged.
type Handler interface {
	Dispatch(ev *Event) (bool, error)
}

// GuildHandler resolves events from guild channels against a registry of
// commands. Registration happens at setup time; the registry itself is not
// synchronized.
type GuildHandler struct {
	commands map[string]Command
	resolver *permission.Resolver
}

// NewGuildHandler returns an empty handler using the given resolver.
func NewGuildHandler(resolver *permission.Resolver) *GuildHandler {
	return &GuildHandler{
		commands: make(map[string]Command),
		resolver: resolver,
	}
}

// Register adds commands to the registry under each of their trigger
// expressions. The last registration for a duplicate expression wins.
func (h *GuildHandler) Register(cmds ...Command) {
	for _, cmd := range cmds {
		for _, expr := range cmd.Expressions() {
			h.commands[expr] = cmd
		}
	}
}

// Get returns the command registered under the given expression.
func (h *GuildHandler) Get(expr string) Command {
	return h.commands[expr]
}

// Commands returns the distinct registered commands.
func (h *GuildHandler) Commands() []Command {
	seen := make(map[Command]bool)
	var list []Command
	for _, cmd := range h.commands {
		if seen[cmd] {
			continue
		}
		seen[cmd] = true
		list = append(list, cmd)
	}
	return list
}

// commandForAlias returns the first registered command whose alias on the
// guild equals word. Iteration order over the registry is unspecified, so
// duplicate aliases resolve to an arbitrary one of their commands.
func (h *GuildHandler) commandForAlias(guildID, word string) Command {
	for _, cmd := range h.commands {
		if cmd.Alias(guildID) == word {
			return cmd
		}
	}
	return nil
}

// Dispatch resolves the event to a command by trigger expression, falling
// back to the guild's aliases, and executes it if the author's permission
// level meets the effective requirement and the command is not on cooldown.
func (h *GuildHandler) Dispatch(ev *Event) (bool, error) {
	if ev == nil || ev.Guild == nil || ev.Command == "" {
		return false, nil
	}
	cmd := h.commands[ev.Command]
	if cmd == nil {
		cmd = h.commandForAlias(ev.Guild.StringID(), ev.Command)
	}
	if cmd == nil {
		return false, nil
	}
	level := h.resolver.Resolve(ev.AuthorID(), ev.Guild)
	if !cmd.IsValidPermission(level, ev.Guild) || cmd.OnCooldown(ev.Guild) {
		return false, nil
	}
	return true, cmd.Execute(ev)
}

// PrivateHandler resolves events from private channels. Permission checks
// use the any-guild form of the resolver, and there is no cooldown or
// override scope: the guild argument to permission checks is always nil.
type PrivateHandler struct {
	commands map[string]Command
	resolver *permission.Resolver
}

// NewPrivateHandler returns an empty handler using the given resolver.
func NewPrivateHandler(resolver *permission.Resolver) *PrivateHandler {
	return &PrivateHandler{
		commands: make(map[string]Command),
		resolver: resolver,
	}
}

// Register adds commands to the registry under each of their trigger
// expressions. The last registration for a duplicate expression wins.
func (h *PrivateHandler) Register(cmds ...Command) {
	for _, cmd := range cmds {
		for _, expr := range cmd.Expressions() {
			h.commands[expr] = cmd
		}
	}
}

// Get returns the command registered under the given expression.
func (h *PrivateHandler) Get(expr string) Command {
	return h.commands[expr]
}

// Commands returns the distinct registered commands.
func (h *PrivateHandler) Commands() []Command {
	seen := make(map[Command]bool)
	var list []Command
	for _, cmd := range h.commands {
		if seen[cmd] {
			continue
		}
		seen[cmd] = true
		list = append(list, cmd)
	}
	return list
}

// Dispatch resolves the event to a command and executes it if the author's
// any-guild permission level meets the command's default requirement.
func (h *PrivateHandler) Dispatch(ev *Event) (bool, error) {
	if ev == nil || ev.Command == "" {
		return false, nil
	}
	cmd := h.commands[ev.Command]
	if cmd == nil {
		return false, nil
	}
	level := h.resolver.ResolveAny(ev.AuthorID())
	if !cmd.IsValidPermission(level, nil) {
		return false, nil
	}
	return true, cmd.Execute(ev)
}
