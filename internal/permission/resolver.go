package permission

import "github.com/keshon/bowtie/internal/guild"

// Directory exposes the process-wide user sets consulted during permission
// resolution. The bot root implements it.
type Directory interface {
	IsBanned(userID string) bool
	IsCreator(userID string) bool
	IsAppOwner(userID string) bool
}

// Resolver maps a user to a permission level, either scoped to a single
// guild or across all known guilds. It has no side effects and always
// yields a level.
type Resolver struct {
	dir    Directory
	guilds *guild.Store
}

// NewResolver returns a resolver backed by the given directory and guild store.
func NewResolver(dir Directory, guilds *guild.Store) *Resolver {
	return &Resolver{dir: dir, guilds: guilds}
}

// Resolve returns the permission level of the user on the given guild.
// A banned user is None regardless of any other status. A nil guild limits
// the result to the process-wide tiers; use ResolveAny for private messages.
func (r *Resolver) Resolve(userID string, g *guild.Guild) Level {
	switch {
	case r.dir.IsBanned(userID):
		return None
	case r.dir.IsCreator(userID):
		return Creator
	case r.dir.IsAppOwner(userID):
		return AppOwner
	case g != nil && g.IsOwner(userID):
		return Owner
	case g != nil && g.IsMaster(userID):
		return Master
	}
	return User
}

// ResolveAny returns the permission level of the user without guild scope.
// Master and owner status count if the user holds them on any registered
// guild. Meant for private message handling only.
func (r *Resolver) ResolveAny(userID string) Level {
	switch {
	case r.dir.IsBanned(userID):
		return None
	case r.dir.IsCreator(userID):
		return Creator
	case r.dir.IsAppOwner(userID):
		return AppOwner
	case r.anyGuild(func(g *guild.Guild) bool { return g.IsOwner(userID) }):
		return Owner
	case r.anyGuild(func(g *guild.Guild) bool { return g.IsMaster(userID) }):
		return Master
	}
	return User
}

func (r *Resolver) anyGuild(match func(*guild.Guild) bool) bool {
	for _, g := range r.guilds.All() {
		if match(g) {
			return true
		}
	}
	return false
}
