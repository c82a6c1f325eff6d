package bot

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
)

// SendText sends a text message through the rate queue. A missing-permission
// failure is silently dropped: the returned message and error are both nil.
func (b *Bot) SendText(channelID, text string) (*discordgo.Message, error) {
	if channelID == "" {
		return nil, nil
	}
	var msg *discordgo.Message
	err := b.queue.Do(context.Background(), func() error {
		m, err := b.session.ChannelMessageSend(channelID, text)
		if err != nil {
			return err
		}
		msg = m
		return nil
	})
	if isPermissionDenied(err) {
		return nil, nil
	}
	return msg, err
}

// SendEmbed sends an embed through the rate queue with the same
// missing-permission semantics as SendText.
func (b *Bot) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	if channelID == "" {
		return nil, nil
	}
	var msg *discordgo.Message
	err := b.queue.Do(context.Background(), func() error {
		m, err := b.session.ChannelMessageSendEmbed(channelID, embed)
		if err != nil {
			return err
		}
		msg = m
		return nil
	})
	if isPermissionDenied(err) {
		return nil, nil
	}
	return msg, err
}

// SendTextFast sends a text message bypassing the rate queue. Meant for
// one-off replies where queue latency is unwanted.
func (b *Bot) SendTextFast(channelID, text string) (*discordgo.Message, error) {
	msg, err := b.session.ChannelMessageSend(channelID, text)
	if isPermissionDenied(err) {
		return nil, nil
	}
	return msg, err
}

// isRateLimited classifies errors that should be retried after backoff.
func isRateLimited(err error) bool {
	var rl *discordgo.RateLimitError
	return errors.As(err, &rl)
}

// isPermissionDenied matches REST failures caused by missing channel
// permissions or access.
func isPermissionDenied(err error) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Message == nil {
		return false
	}
	return rest.Message.Code == discordgo.ErrCodeMissingPermissions ||
		rest.Message.Code == discordgo.ErrCodeMissingAccess
}
