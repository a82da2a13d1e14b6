package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/backup"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/config"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/notify"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/processor"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/queue"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/sheets"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/slack"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/worker"
)

// NewRegistry wires every queue task name to its handler. Integration
// clients are constructed per invocation so that a missing credential fails
// that task alone instead of keeping the whole worker from starting.
func NewRegistry(proc *processor.EventProcessor, backupSvc *backup.Service, cfg *config.Config, log *zap.Logger) *worker.Registry {
	registry := worker.NewRegistry()

	registry.Register(queue.TaskProcessWebhookEvent, func(ctx context.Context, args map[string]string) error {
		eventID := args[queue.ArgEventID]
		if eventID == "" {
			return fmt.Errorf("missing %s argument", queue.ArgEventID)
		}
		return proc.Run(ctx, eventID)
	})

	registry.Register(queue.TaskBackupProcesses, func(ctx context.Context, args map[string]string) error {
		result, err := backupSvc.Run(ctx)
		if err != nil {
			return err
		}

		// Status notification is best-effort; a misconfigured or failing
		// Slack setup never fails the backup itself.
		dispatcher, err := EventNotificationDispatcher(cfg.Slack, log)
		if err != nil {
			log.Info("Skipping backup notification", zap.Error(err))
			return nil
		}
		message := notify.BackupResultMessage(result.Status,
			result.Created, result.Updated, result.Unchanged, result.Total)
		if _, err := dispatcher.Notify(ctx, message); err != nil {
			log.Warn("Failed to send backup notification", zap.Error(err))
		}
		return nil
	})

	registry.Register(queue.TaskSendSlackMessage, func(ctx context.Context, args map[string]string) error {
		message := args[queue.ArgMessage]
		if message == "" {
			return fmt.Errorf("missing %s argument", queue.ArgMessage)
		}

		// A user id targets a DM through the bot API; without one the
		// message is a broadcast and goes to the channel webhook first.
		var dispatcher *notify.Dispatcher
		var err error
		if userID := args[queue.ArgUserID]; userID != "" {
			slackCfg := cfg.Slack
			slackCfg.DMUserID = userID
			dispatcher, err = DirectMessageDispatcher(slackCfg, log)
		} else {
			dispatcher, err = EventNotificationDispatcher(cfg.Slack, log)
		}
		if err != nil {
			return err
		}
		result, err := dispatcher.Notify(ctx, message)
		if err != nil {
			return err
		}
		log.Info("Slack message delivered",
			zap.String("via", result.DeliveredVia))
		return nil
	})

	registry.Register(queue.TaskWriteToSheet, func(ctx context.Context, args map[string]string) error {
		worksheet := args[queue.ArgWorksheet]
		if worksheet == "" {
			worksheet = "Sheet1"
		}
		var row []interface{}
		if err := json.Unmarshal([]byte(args[queue.ArgRow]), &row); err != nil {
			return fmt.Errorf("invalid %s argument: %w", queue.ArgRow, err)
		}
		writer, err := sheets.NewWriter(ctx, cfg.Sheets, log)
		if err != nil {
			return err
		}
		return writer.AppendRow(ctx, worksheet, row)
	})

	return registry
}

// DirectMessageDispatcher targets a user: bot credential first, channel
// webhook as the fallback.
func DirectMessageDispatcher(cfg config.Slack, log *zap.Logger) (*notify.Dispatcher, error) {
	bot, err := slack.NewBotTransport(cfg, log)
	if err != nil {
		return nil, err
	}
	webhook, err := slack.NewWebhookTransport(cfg, log)
	if err != nil {
		return nil, err
	}
	return notify.NewDispatcher(bot, webhook, log), nil
}

// EventNotificationDispatcher posts to the channel webhook first and falls
// back to the bot DM. The two transports fail independently, hence the
// two-tier setup.
func EventNotificationDispatcher(cfg config.Slack, log *zap.Logger) (*notify.Dispatcher, error) {
	webhook, err := slack.NewWebhookTransport(cfg, log)
	if err != nil {
		return nil, err
	}
	bot, err := slack.NewBotTransport(cfg, log)
	if err != nil {
		return nil, err
	}
	return notify.NewDispatcher(webhook, bot, log), nil
}
