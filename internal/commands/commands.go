package commands

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/bowtie/internal/command"
)

// Sender posts messages to a channel. The bot satisfies it with its
// rate-queued send path.
type Sender interface {
	SendText(channelID, text string) (*discordgo.Message, error)
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

// Registry looks up registered commands. Both handler kinds satisfy it.
type Registry interface {
	Get(expression string) command.Command
	Commands() []command.Command
}

// Moderator manages the global banned-user set.
type Moderator interface {
	BanUser(userID string) bool
	UnbanUser(userID string) bool
}
