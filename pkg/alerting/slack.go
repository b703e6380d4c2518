package alerting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const slackDefaultUsername = "RestorePlanBot"
const slackDefaultIconEmoji = ":card_file_box:"

var slackClient = &http.Client{Timeout: 10 * time.Second}

// SlackConfig contains config values for slack config
type SlackConfig struct {
	WebhookURL string `json:"webhook_url"`
	Channel    string `json:"channel"`
	Username   string `json:"username"`
	IconEmoji  string `json:"icon_emoji"`
}

type slackWebhook struct {
	Username  string `json:"username"`
	Channel   string `json:"channel,omitempty"`
	Text      string `json:"text"`
	IconEmoji string `json:"icon_emoji"`
}

// SlackLog posts a message to the configured incoming webhook
func SlackLog(message string, config *SlackConfig) error {
	if config.WebhookURL == "" {
		return fmt.Errorf("slack webhook_url is not configured")
	}

	username := config.Username
	if username == "" {
		username = slackDefaultUsername
	}

	iconEmoji := config.IconEmoji
	if iconEmoji == "" {
		iconEmoji = slackDefaultIconEmoji
	}

	data := slackWebhook{
		Username:  username,
		Channel:   config.Channel,
		Text:      message,
		IconEmoji: iconEmoji,
	}

	payloadBytes, err := json.Marshal(data)
	if err != nil {
		return err
	}

	resp, err := slackClient.Post(config.WebhookURL, "application/json", bytes.NewReader(payloadBytes))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned %s", resp.Status)
	}

	return nil
}
