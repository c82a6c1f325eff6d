// Package command implements the dispatch core: the Command contract with
// its per-guild guard state, the parsed command Event, and the guild and
// private command handlers.
package command

import (
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/bowtie/internal/guild"
	"github.com/keshon/bowtie/internal/permission"
)

// OverrideResult is the outcome of a permission override attempt.
type OverrideResult int

const (
	// CantOverride means the command does not allow overriding.
	CantOverride OverrideResult = iota
	// DefaultPermission means the level was reverted to the default.
	DefaultPermission
	// NewPermission means a new level was stored for the guild.
	NewPermission
)

func (r OverrideResult) String() string {
	switch r {
	case CantOverride:
		return "cant_override"
	case DefaultPermission:
		return "default_permission"
	case NewPermission:
		return "new_permission"
	}
	return "unknown"
}

// Scheduler schedules a deferred, single-shot callback. Used to clear
// cooldown flags after their delay.
type Scheduler interface {
	Once(delay time.Duration, fn func())
}

// Command is one invocable action. Base provides every method except
// Execute and Help; concrete commands embed *Base and add their behavior.
type Command interface {
	// Expressions returns the trigger words of this command.
	Expressions() []string
	// IsValidExpression reports whether expr is a trigger word. Case-sensitive.
	IsValidExpression(expr string) bool

	// DefaultPermission returns the level required absent any override.
	DefaultPermission() permission.Level
	// CanOverride reports whether the required level may be overridden.
	CanOverride() bool
	// PermissionOverride returns the effective required level on the guild.
	PermissionOverride(g *guild.Guild) permission.Level
	// OverridePermission replaces the required level for the guild.
	OverridePermission(level permission.Level, g *guild.Guild) OverrideResult
	// IsValidPermission reports whether level meets the effective
	// requirement on the guild. A nil guild compares against the default.
	IsValidPermission(level permission.Level, g *guild.Guild) bool

	// SetOnCooldown sets or clears the cooldown flag for the guild.
	SetOnCooldown(on bool, g *guild.Guild)
	// OnCooldown reports whether the command is on cooldown for the guild.
	OnCooldown(g *guild.Guild) bool

	// SetAlias registers a per-guild trigger alias, stored lower-cased.
	SetAlias(guildID, alias string)
	// Alias returns the alias for the guild, or "".
	Alias(guildID string) string

	// Execute runs the command. Invoked only after the permission and
	// cooldown checks passed.
	Execute(ev *Event) error
	// Help returns a descriptive embed for help listings.
	Help(g *guild.Guild) *discordgo.MessageEmbed
}

// Base carries the guard state shared by all commands: trigger expressions,
// the default permission, per-guild overrides, cooldown flags, and aliases.
// The per-guild maps are guarded by one lock; mutations are atomic per
// guild key.
type Base struct {
	expressions       []string
	defaultPermission permission.Level
	canOverride       bool

	mu        sync.RWMutex
	overrides map[int64]permission.Level
	cooldowns map[int64]bool
	aliases   map[string]string
}

// NewBase returns guard state for a command triggered by the given
// expressions and requiring the given level by default.
func NewBase(expressions []string, level permission.Level, canOverride bool) *Base {
	return &Base{
		expressions:       expressions,
		defaultPermission: level,
		canOverride:       canOverride,
		overrides:         make(map[int64]permission.Level),
		cooldowns:         make(map[int64]bool),
		aliases:           make(map[string]string),
	}
}

// Expressions returns the trigger words of this command.
func (b *Base) Expressions() []string { return b.expressions }

// IsValidExpression reports whether expr is one of the trigger words.
func (b *Base) IsValidExpression(expr string) bool {
	for _, e := range b.expressions {
		if e == expr {
			return true
		}
	}
	return false
}

// DefaultPermission returns the level required absent any override.
func (b *Base) DefaultPermission() permission.Level { return b.defaultPermission }

// CanOverride reports whether the required level may be overridden.
func (b *Base) CanOverride() bool { return b.canOverride }

// PermissionOverride returns the effective required level on the guild:
// the stored override if present, the default otherwise.
func (b *Base) PermissionOverride(g *guild.Guild) permission.Level {
	if g == nil {
		return b.defaultPermission
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if override, ok := b.overrides[g.ID()]; ok {
		return override
	}
	return b.defaultPermission
}

// OverridePermission replaces the required level for the guild. Overriding
// back to the default clears the stored override.
func (b *Base) OverridePermission(level permission.Level, g *guild.Guild) OverrideResult {
	if !b.canOverride || g == nil {
		return CantOverride
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if level == b.defaultPermission {
		delete(b.overrides, g.ID())
		return DefaultPermission
	}
	b.overrides[g.ID()] = level
	return NewPermission
}

// IsValidPermission reports whether level meets the effective requirement.
// Overrides require a guild scope; a nil guild compares against the default.
func (b *Base) IsValidPermission(level permission.Level, g *guild.Guild) bool {
	return level >= b.PermissionOverride(g)
}

// SetOnCooldown sets or clears the cooldown flag for the guild.
func (b *Base) SetOnCooldown(on bool, g *guild.Guild) {
	if g == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if on {
		b.cooldowns[g.ID()] = true
	} else {
		delete(b.cooldowns, g.ID())
	}
}

// OnCooldown reports whether the command is on cooldown for the guild.
func (b *Base) OnCooldown(g *guild.Guild) bool {
	if g == nil {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cooldowns[g.ID()]
}

// StartCooldown puts the command on cooldown for the guild and schedules
// the clear after the delay. A non-positive delay skips scheduling so the
// command never transitions through the blocked state.
func (b *Base) StartCooldown(s Scheduler, g *guild.Guild, delay time.Duration) {
	if g == nil || delay <= 0 {
		return
	}
	b.SetOnCooldown(true, g)
	s.Once(delay, func() {
		b.SetOnCooldown(false, g)
	})
}

// SetAlias registers a per-guild trigger alias, stored lower-cased.
func (b *Base) SetAlias(guildID, alias string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.aliases[guildID] = strings.ToLower(alias)
}

// Alias returns the alias for the guild, or "" if none is set.
func (b *Base) Alias(guildID string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.aliases[guildID]
}
