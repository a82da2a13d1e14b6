package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/config"
)

// BotTransport sends targeted direct messages through the Slack Web API.
// Requires a bot token and a destination user id.
type BotTransport struct {
	client *slack.Client
	userID string
	log    *zap.Logger
}

// NewBotTransport creates the SDK-backed transport. Fails fast when the bot
// token or DM user id is missing.
func NewBotTransport(cfg config.Slack, log *zap.Logger) (*BotTransport, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN: %w", config.ErrNotConfigured)
	}
	if cfg.DMUserID == "" {
		return nil, fmt.Errorf("SLACK_DM_USER_ID: %w", config.ErrNotConfigured)
	}

	return &BotTransport{
		client: slack.New(cfg.BotToken),
		userID: cfg.DMUserID,
		log:    log,
	}, nil
}

// Name identifies the transport in logs and delivery results.
func (t *BotTransport) Name() string {
	return "slack_bot"
}

// Send posts the message as a DM with a single mrkdwn section block.
func (t *BotTransport) Send(ctx context.Context, message string) error {
	channel, ts, err := t.client.PostMessageContext(ctx, t.userID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionBlocks(
			slack.NewSectionBlock(
				slack.NewTextBlockObject(slack.MarkdownType, message, false, false),
				nil, nil,
			),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to post Slack message: %w", err)
	}

	t.log.Info("Slack message sent via SDK",
		zap.String("channel", channel),
		zap.String("timestamp", ts))
	return nil
}

// WebhookTransport posts to an incoming webhook. Fire-and-forget channel
// delivery; no per-user targeting.
type WebhookTransport struct {
	url string
	log *zap.Logger
}

// NewWebhookTransport creates the incoming-webhook transport. Fails fast
// when the webhook URL is missing.
func NewWebhookTransport(cfg config.Slack, log *zap.Logger) (*WebhookTransport, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("SLACK_WEBHOOK_URL: %w", config.ErrNotConfigured)
	}

	return &WebhookTransport{
		url: cfg.WebhookURL,
		log: log,
	}, nil
}

// Name identifies the transport in logs and delivery results.
func (t *WebhookTransport) Name() string {
	return "slack_webhook"
}

// Send posts the message to the configured webhook URL.
func (t *WebhookTransport) Send(ctx context.Context, message string) error {
	msg := &slack.WebhookMessage{
		Text: message,
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(
					slack.NewTextBlockObject(slack.MarkdownType, message, false, false),
					nil, nil,
				),
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, t.url, msg); err != nil {
		return fmt.Errorf("failed to post Slack webhook: %w", err)
	}

	t.log.Info("Slack message sent via webhook")
	return nil
}
