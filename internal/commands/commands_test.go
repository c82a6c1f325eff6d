package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/bowtie/internal/command"
	"github.com/keshon/bowtie/internal/guild"
	"github.com/keshon/bowtie/internal/permission"
	"github.com/keshon/bowtie/internal/storage"
)

func newTestStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "guilds.json"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

type fakeSender struct {
	texts  []string
	embeds []*discordgo.MessageEmbed
}

func (s *fakeSender) SendText(channelID, text string) (*discordgo.Message, error) {
	s.texts = append(s.texts, text)
	return &discordgo.Message{}, nil
}

func (s *fakeSender) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	s.embeds = append(s.embeds, embed)
	return &discordgo.Message{}, nil
}

func (s *fakeSender) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.texts)
	return s.texts[len(s.texts)-1]
}

type fakeRegistry struct {
	cmds map[string]command.Command
}

func (r *fakeRegistry) Get(expr string) command.Command { return r.cmds[expr] }

func (r *fakeRegistry) Commands() []command.Command {
	var out []command.Command
	seen := make(map[command.Command]bool)
	for _, c := range r.cmds {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

type fakeModerator struct {
	banned map[string]bool
}

func (m *fakeModerator) BanUser(userID string) bool {
	if m.banned[userID] {
		return false
	}
	m.banned[userID] = true
	return true
}

func (m *fakeModerator) UnbanUser(userID string) bool {
	if !m.banned[userID] {
		return false
	}
	delete(m.banned, userID)
	return true
}

type immediateScheduler struct{}

func (immediateScheduler) Once(delay time.Duration, fn func()) { fn() }

func event(g *guild.Guild, content string, mentions ...*discordgo.User) *command.Event {
	prefix := "!"
	if g != nil {
		prefix = g.Prefix()
	}
	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		Content:   content,
		ChannelID: "chan",
		Author:    &discordgo.User{ID: "author"},
		Mentions:  mentions,
	}}
	return command.ParseEvent(m, g, prefix)
}

func TestPing(t *testing.T) {
	g := guild.New(1, "!")
	sender := &fakeSender{}
	ping := NewPing(sender, immediateScheduler{}, 3*time.Second)

	require.NoError(t, ping.Execute(event(g, "!ping")))
	assert.Equal(t, "Pong!", sender.lastText(t))
	// The immediate scheduler clears the cooldown synchronously.
	assert.False(t, ping.OnCooldown(g))
}

func TestHelpListsCommands(t *testing.T) {
	g := guild.New(1, "!")
	sender := &fakeSender{}
	ping := NewPing(sender, immediateScheduler{}, 0)
	reg := &fakeRegistry{cmds: map[string]command.Command{"ping": ping}}
	help := NewHelp(sender, reg)

	require.NoError(t, help.Execute(event(g, "!help")))
	require.Len(t, sender.embeds, 1)
	require.Len(t, sender.embeds[0].Fields, 1)
	assert.Equal(t, "ping", sender.embeds[0].Fields[0].Name)
	assert.Contains(t, sender.embeds[0].Fields[0].Value, "USER")
}

func TestPrefixShowsCurrent(t *testing.T) {
	g := guild.New(1, "!")
	sender := &fakeSender{}
	cmd := NewPrefix(sender, newTestStore(t))

	require.NoError(t, cmd.Execute(event(g, "!prefix")))
	assert.Contains(t, sender.lastText(t), "`!`")
}

func TestPrefixChanges(t *testing.T) {
	g := guild.New(1, "!")
	sender := &fakeSender{}
	store := newTestStore(t)
	cmd := NewPrefix(sender, store)

	require.NoError(t, cmd.Execute(event(g, "!prefix ?")))
	assert.Equal(t, "?", g.Prefix())

	rec, err := store.Guild("1")
	require.NoError(t, err)
	assert.Equal(t, "?", rec.Prefix)
}

func TestMasterAddRemoveList(t *testing.T) {
	g := guild.New(1, "!")
	sender := &fakeSender{}
	store := newTestStore(t)
	cmd := NewMaster(sender, store)

	target := &discordgo.User{ID: "u1"}
	require.NoError(t, cmd.Execute(event(g, "!master add <@u1>", target)))
	assert.True(t, g.IsMaster("u1"))

	rec, err := store.Guild("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, rec.Masters)

	// Duplicate grant is refused.
	require.NoError(t, cmd.Execute(event(g, "!master add <@u1>", target)))
	assert.Contains(t, sender.lastText(t), "already")

	require.NoError(t, cmd.Execute(event(g, "!master list")))
	assert.Contains(t, sender.lastText(t), "u1")

	require.NoError(t, cmd.Execute(event(g, "!master remove <@u1>", target)))
	assert.False(t, g.IsMaster("u1"))
}

func TestMasterAcceptsRawID(t *testing.T) {
	g := guild.New(1, "!")
	sender := &fakeSender{}
	cmd := NewMaster(sender, newTestStore(t))

	require.NoError(t, cmd.Execute(event(g, "!master add u9")))
	assert.True(t, g.IsMaster("u9"))
}

func TestOwnerPromotionDropsMaster(t *testing.T) {
	g := guild.New(1, "!")
	g.AddMaster("u1")
	sender := &fakeSender{}
	store := newTestStore(t)
	cmd := NewOwner(sender, store)

	require.NoError(t, cmd.Execute(event(g, "!owner add u1")))
	assert.True(t, g.IsOwner("u1"))
	assert.False(t, g.IsMaster("u1"))
}

func TestOverrideCommand(t *testing.T) {
	g := guild.New(1, "!")
	sender := &fakeSender{}
	ping := NewPing(sender, immediateScheduler{}, 0)
	reg := &fakeRegistry{cmds: map[string]command.Command{"ping": ping}}
	cmd := NewOverride(sender, reg)

	require.NoError(t, cmd.Execute(event(g, "!override ping master")))
	assert.Equal(t, permission.Master, ping.PermissionOverride(g))
	assert.Contains(t, sender.lastText(t), "MASTER")

	// Back to the default clears the override.
	require.NoError(t, cmd.Execute(event(g, "!override ping user")))
	assert.Equal(t, permission.User, ping.PermissionOverride(g))
	assert.Contains(t, sender.lastText(t), "default")
}

func TestOverrideRejections(t *testing.T) {
	g := guild.New(1, "!")
	sender := &fakeSender{}
	ban := NewBan(sender, &fakeModerator{banned: map[string]bool{}})
	reg := &fakeRegistry{cmds: map[string]command.Command{"ban": ban}}
	cmd := NewOverride(sender, reg)

	require.NoError(t, cmd.Execute(event(g, "!override ban user")))
	assert.Contains(t, sender.lastText(t), "does not allow")

	require.NoError(t, cmd.Execute(event(g, "!override nope user")))
	assert.Contains(t, sender.lastText(t), "Unknown command")

	require.NoError(t, cmd.Execute(event(g, "!override ban wizard")))
	assert.Contains(t, sender.lastText(t), "Unknown permission level")

	require.NoError(t, cmd.Execute(event(g, "!override")))
	assert.Contains(t, sender.lastText(t), "Usage")
}

func TestAliasCommand(t *testing.T) {
	g := guild.New(1, "!")
	sender := &fakeSender{}
	ping := NewPing(sender, immediateScheduler{}, 0)
	reg := &fakeRegistry{cmds: map[string]command.Command{"ping": ping}}
	store := newTestStore(t)
	cmd := NewAlias(sender, reg, store)

	require.NoError(t, cmd.Execute(event(g, "!alias ping PR")))
	assert.Equal(t, "pr", ping.Alias("1"))

	rec, err := store.Guild("1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ping": "pr"}, rec.Aliases)
}

func TestBanAndUnban(t *testing.T) {
	g := guild.New(1, "!")
	sender := &fakeSender{}
	mod := &fakeModerator{banned: map[string]bool{}}
	cmd := NewBan(sender, mod)

	require.NoError(t, cmd.Execute(event(g, "!ban u1")))
	assert.True(t, mod.banned["u1"])

	require.NoError(t, cmd.Execute(event(g, "!ban u1")))
	assert.Contains(t, sender.lastText(t), "already banned")

	require.NoError(t, cmd.Execute(event(g, "!unban u1")))
	assert.False(t, mod.banned["u1"])

	require.NoError(t, cmd.Execute(event(g, "!unban u1")))
	assert.Contains(t, sender.lastText(t), "was not banned")

	require.NoError(t, cmd.Execute(event(g, "!ban")))
	assert.Contains(t, sender.lastText(t), "Mention a user")
}
