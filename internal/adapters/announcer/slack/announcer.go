// Package slack posts order announcements to a Slack channel.
package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type announcer struct {
	client    *slack.Client
	channelID string
}

// NewAnnouncer posts to channelID with a bot token. Message refs are the
// Slack message timestamps.
func NewAnnouncer(token, channelID string, options ...slack.Option) ports.Announcer {
	return &announcer{
		client:    slack.New(token, options...),
		channelID: channelID,
	}
}

func (a *announcer) Post(ctx context.Context, announcement domain.Announcement) (string, error) {
	_, ts, err := a.client.PostMessageContext(ctx, a.channelID, messageOptions(announcement)...)
	if err != nil {
		return "", fmt.Errorf("failed to post slack message: %w", err)
	}
	return ts, nil
}

func (a *announcer) Update(ctx context.Context, messageRef string, announcement domain.Announcement) error {
	_, _, _, err := a.client.UpdateMessageContext(ctx, a.channelID, messageRef, messageOptions(announcement)...)
	if err != nil {
		return fmt.Errorf("failed to update slack message %s: %w", messageRef, err)
	}
	return nil
}

func messageOptions(announcement domain.Announcement) []slack.MsgOption {
	return []slack.MsgOption{
		slack.MsgOptionText(FallbackText(announcement), false),
		slack.MsgOptionBlocks(Blocks(announcement)...),
	}
}
