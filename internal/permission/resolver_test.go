package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keshon/bowtie/internal/guild"
)

type fakeDirectory struct {
	banned   map[string]bool
	creators map[string]bool
	appOwner string
}

func (d *fakeDirectory) IsBanned(userID string) bool   { return d.banned[userID] }
func (d *fakeDirectory) IsCreator(userID string) bool  { return d.creators[userID] }
func (d *fakeDirectory) IsAppOwner(userID string) bool { return userID == d.appOwner }

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		banned:   make(map[string]bool),
		creators: make(map[string]bool),
	}
}

func TestResolvePrecedence(t *testing.T) {
	dir := newFakeDirectory()
	dir.creators["creator"] = true
	dir.appOwner = "appowner"

	guilds := guild.NewStore()
	g := guilds.GetOrCreate(100, "!")
	g.AddOwner("owner")
	g.AddMaster("master")

	r := NewResolver(dir, guilds)

	assert.Equal(t, Creator, r.Resolve("creator", g))
	assert.Equal(t, AppOwner, r.Resolve("appowner", g))
	assert.Equal(t, Owner, r.Resolve("owner", g))
	assert.Equal(t, Master, r.Resolve("master", g))
	assert.Equal(t, User, r.Resolve("nobody", g))
}

func TestResolveBannedDominates(t *testing.T) {
	dir := newFakeDirectory()
	dir.banned["creator"] = true
	dir.creators["creator"] = true

	guilds := guild.NewStore()
	g := guilds.GetOrCreate(100, "!")
	g.AddOwner("creator")

	r := NewResolver(dir, guilds)
	assert.Equal(t, None, r.Resolve("creator", g))
	assert.Equal(t, None, r.ResolveAny("creator"))
}

func TestResolveNilGuild(t *testing.T) {
	dir := newFakeDirectory()
	guilds := guild.NewStore()
	g := guilds.GetOrCreate(100, "!")
	g.AddOwner("owner")

	r := NewResolver(dir, guilds)

	// Guild roles need guild scope.
	assert.Equal(t, User, r.Resolve("owner", nil))

	dir.creators["creator"] = true
	assert.Equal(t, Creator, r.Resolve("creator", nil))
}

func TestResolveAnyScansAllGuilds(t *testing.T) {
	dir := newFakeDirectory()
	guilds := guild.NewStore()
	g1 := guilds.GetOrCreate(1, "!")
	g2 := guilds.GetOrCreate(2, "!")
	g2.AddOwner("owner2")
	g1.AddMaster("master1")

	r := NewResolver(dir, guilds)

	// Scoped to g1 the user from g2 is a plain user, but the any-guild
	// form finds the role.
	assert.Equal(t, User, r.Resolve("owner2", g1))
	assert.Equal(t, Owner, r.ResolveAny("owner2"))
	assert.Equal(t, Master, r.ResolveAny("master1"))
	assert.Equal(t, User, r.ResolveAny("nobody"))
}
