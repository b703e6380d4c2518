package pkg

import (
	"fmt"
	"os"
	"time"

	"github.com/feederco/innobackup-showinfo/pkg/alerting"
)

// AlertingConfig sub-config type for alerting related
type AlertingConfig struct {
	Slack *alerting.SlackConfig `json:"slack"`
}

// AlertError reports a failed run to the system administrator.
// The error is always written to ErrorLog, Slack is only used when configured.
func AlertError(alertingConfig *AlertingConfig, message string, err error) {
	hostname, _ := os.Hostname()

	fullMessage := fmt.Sprintf("[*RESTORE PLAN FAILURE*] [%s] [host: `%s`] `%s` with error: `%s`\n", time.Now().Format(time.RFC3339), hostname, message, err)

	if alertingConfig != nil && alertingConfig.Slack != nil {
		slackErr := alerting.SlackLog(fullMessage, alertingConfig.Slack)

		if slackErr != nil {
			ErrorLog.Println("Warning: Could not alert to Slack.", slackErr)
		}
	}

	ErrorLog.Print(fullMessage)
}
