// Package guild holds the per-guild context of the bot: the elevated user
// sets, the command prefix, and a concurrent store of all connected guilds.
package guild

import (
	"slices"
	"strconv"
	"sync"
)

// Guild is the bot's view of one connected guild. Master and owner
// membership is guarded by an internal lock; a user ID is a member of at
// most one of the two sets at a time.
type Guild struct {
	id  int64
	sid string

	mu      sync.RWMutex
	prefix  string
	masters []string
	owners  []string
}

// New creates a guild context with the given command prefix.
func New(id int64, prefix string) *Guild {
	return &Guild{
		id:     id,
		sid:    strconv.FormatInt(id, 10),
		prefix: prefix,
	}
}

// ID returns the numeric guild ID.
func (g *Guild) ID() int64 { return g.id }

// StringID returns the guild ID in its string form.
func (g *Guild) StringID() string { return g.sid }

// Prefix returns the command prefix for this guild.
func (g *Guild) Prefix() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.prefix
}

// SetPrefix sets a new command prefix for this guild.
func (g *Guild) SetPrefix(prefix string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prefix = prefix
}

// AddMaster adds the user to the masters set. It reports false if the user
// is already a master or an owner.
func (g *Guild) AddMaster(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if slices.Contains(g.masters, userID) || slices.Contains(g.owners, userID) {
		return false
	}
	g.masters = append(g.masters, userID)
	return true
}

// RemoveMaster removes the user from the masters set.
func (g *Guild) RemoveMaster(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remove(&g.masters, userID)
}

// IsMaster reports whether the user is a master on this guild.
func (g *Guild) IsMaster(userID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Contains(g.masters, userID)
}

// AddOwner adds the user to the owners set, removing it from the masters
// set if present. It reports false if the user is already an owner.
func (g *Guild) AddOwner(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if slices.Contains(g.owners, userID) {
		return false
	}
	g.remove(&g.masters, userID)
	g.owners = append(g.owners, userID)
	return true
}

// RemoveOwner removes the user from the owners set.
func (g *Guild) RemoveOwner(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remove(&g.owners, userID)
}

// IsOwner reports whether the user is an owner on this guild.
func (g *Guild) IsOwner(userID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Contains(g.owners, userID)
}

// Masters returns a copy of the masters set.
func (g *Guild) Masters() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.masters)
}

// Owners returns a copy of the owners set.
func (g *Guild) Owners() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.owners)
}

// SetMasters replaces the masters set. Used by loaders at startup.
func (g *Guild) SetMasters(ids []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.masters = slices.Clone(ids)
}

// SetOwners replaces the owners set. Used by loaders at startup.
func (g *Guild) SetOwners(ids []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.owners = slices.Clone(ids)
}

// remove must be called with g.mu held.
func (g *Guild) remove(set *[]string, userID string) bool {
	i := slices.Index(*set, userID)
	if i < 0 {
		return false
	}
	*set = slices.Delete(*set, i, i+1)
	return true
}
