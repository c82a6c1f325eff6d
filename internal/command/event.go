package command

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/bowtie/internal/guild"
)

// Parameter forms: -key="quoted text" and -key=value. The quoted pass runs
// first, the bare pass second; on a key collision the bare match wins
// because both passes write into the same map.
var (
	paramQuoted = regexp.MustCompile(`-(\w+)="([^"]+)"`)
	paramWord   = regexp.MustCompile(`-(\w+)=(\w+)`)
)

// Event is one inbound message parsed as a candidate command invocation.
// Constructed per message, discarded after dispatch returns.
type Event struct {
	// Guild is the originating guild context, nil for private messages.
	Guild *guild.Guild
	// Message is the raw inbound message.
	Message *discordgo.MessageCreate
	// Command is the lower-cased first token with the prefix removed.
	Command string
	// Params maps parameter keys to their values.
	Params map[string]string
	// FixedContent is the message content with only the first token
	// case-normalized.
	FixedContent string
	// FinalContent is FixedContent with the prefix and all parameter
	// tokens removed and whitespace normalized.
	FinalContent string
}

// ParseEvent parses the message into an Event. Parsing is permissive and
// never fails: a nil message leaves all derived fields empty, and malformed
// parameter syntax simply contributes no entries.
//
// The prefix is removed from the first token by substring removal, not
// anchored matching, so a prefix occurring elsewhere in the token is also
// removed. Known quirk, kept for compatibility.
func ParseEvent(m *discordgo.MessageCreate, g *guild.Guild, prefix string) *Event {
	ev := &Event{Guild: g, Message: m}
	if m == nil || m.Message == nil {
		return ev
	}

	parts := strings.Split(m.Content, " ")
	first := strings.ToLower(parts[0])
	ev.Command = strings.ReplaceAll(first, prefix, "")

	parts[0] = first
	ev.FixedContent = strings.TrimSpace(strings.Join(parts, " "))
	ev.Params = findParameters(ev.FixedContent)

	stripped := paramWord.ReplaceAllString(paramQuoted.ReplaceAllString(ev.FixedContent, ""), "")
	fields := strings.Fields(stripped)
	if len(fields) > 0 {
		fields[0] = ev.Command
	}
	ev.FinalContent = strings.TrimSpace(strings.Join(fields, " "))
	return ev
}

func findParameters(text string) map[string]string {
	params := make(map[string]string)
	for _, m := range paramQuoted.FindAllStringSubmatch(text, -1) {
		params[m[1]] = m[2]
	}
	for _, m := range paramWord.FindAllStringSubmatch(text, -1) {
		params[m[1]] = m[2]
	}
	return params
}

// Param returns the value of the given parameter, or "" if absent.
func (ev *Event) Param(key string) string {
	return ev.Params[key]
}

// AuthorID returns the ID of the message author, or "" if unknown.
func (ev *Event) AuthorID() string {
	if ev.Message == nil || ev.Message.Author == nil {
		return ""
	}
	return ev.Message.Author.ID
}

// ChannelID returns the originating channel ID, or "".
func (ev *Event) ChannelID() string {
	if ev.Message == nil {
		return ""
	}
	return ev.Message.ChannelID
}

// Mentions returns the users mentioned in the message.
func (ev *Event) Mentions() []*discordgo.User {
	if ev.Message == nil {
		return nil
	}
	return ev.Message.Mentions
}

// Args returns the whitespace-delimited tokens of FinalContent after the
// command word.
func (ev *Event) Args() []string {
	fields := strings.Fields(ev.FinalContent)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}
