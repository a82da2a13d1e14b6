package notify

import (
	"fmt"
	"time"
)

// WelcomeMessage is the onboarding confirmation sent when the Slack
// integration is first configured.
func WelcomeMessage() string {
	return `:tada: *Welcome to the Webhook Event Service!*

This is an automated message to confirm that the Slack integration is working correctly.

*Features Available:*
• Webhook event receiving and processing
• Asynchronous task worker
• Google Sheets integration
• GitHub backup system

Have a great day! :rocket:`
}

// EventReceivedMessage announces a freshly ingested webhook event.
func EventReceivedMessage(source string, receivedAt time.Time) string {
	return fmt.Sprintf(`:incoming_envelope: *New Webhook Event Received*

*Source:* %s
*Time:* %s
*Status:* Processing...`, source, receivedAt.UTC().Format(time.RFC3339))
}

// BackupResultMessage summarizes a finished backup run.
func BackupResultMessage(status string, created, updated, unchanged, total int) string {
	return fmt.Sprintf(`:floppy_disk: *Process Backup Finished*

*Status:* %s
*Created:* %d  *Updated:* %d  *Unchanged:* %d  *Total:* %d`,
		status, created, updated, unchanged, total)
}
