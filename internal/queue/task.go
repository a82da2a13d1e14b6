package queue

import (
	"encoding/json"
	"fmt"
)

// Task names recognized by the worker.
const (
	TaskProcessWebhookEvent = "process_webhook_event"
	TaskBackupProcesses     = "backup_processes"
	TaskSendSlackMessage    = "send_slack_message"
	TaskWriteToSheet        = "write_to_gsheet"
)

// Argument keys shared between publishers and handlers.
const (
	ArgEventID   = "event_id"
	ArgUserID    = "user_id"
	ArgMessage   = "message"
	ArgWorksheet = "worksheet_name"
	ArgRow       = "row"
)

// Task is the unit of asynchronous work carried on the queue: a registered
// handler name plus serializable string arguments.
type Task struct {
	Name string            `json:"task"`
	Args map[string]string `json:"args,omitempty"`
}

// ProcessEventTask builds the task that drives one event through its
// lifecycle.
func ProcessEventTask(eventID string) Task {
	return Task{
		Name: TaskProcessWebhookEvent,
		Args: map[string]string{ArgEventID: eventID},
	}
}

// SendSlackMessageTask builds the task that delivers one Slack notification.
func SendSlackMessageTask(message string) Task {
	return Task{
		Name: TaskSendSlackMessage,
		Args: map[string]string{ArgMessage: message},
	}
}

// Encode serializes the task for the wire.
func (t Task) Encode() ([]byte, error) {
	body, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}
	return body, nil
}

// DecodeTask parses a message body into a Task.
func DecodeTask(body []byte) (Task, error) {
	var t Task
	if err := json.Unmarshal(body, &t); err != nil {
		return Task{}, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	if t.Name == "" {
		return Task{}, fmt.Errorf("task name is empty")
	}
	return t, nil
}
