package alerting

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSlackLog(t *testing.T) {
	var received slackWebhook

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Error("Could not decode webhook body", err)
		}
	}))
	defer server.Close()

	err := SlackLog("restore plan failed", &SlackConfig{WebhookURL: server.URL, Channel: "#ops"})
	if err != nil {
		t.Fatal("No error expected", err)
	}

	if received.Text != "restore plan failed" {
		t.Errorf("Incorrect Text found: %s", received.Text)
	}
	if received.Username != slackDefaultUsername {
		t.Errorf("Incorrect Username found: %s", received.Username)
	}
	if received.IconEmoji != slackDefaultIconEmoji {
		t.Errorf("Incorrect IconEmoji found: %s", received.IconEmoji)
	}
	if received.Channel != "#ops" {
		t.Errorf("Incorrect Channel found: %s", received.Channel)
	}
}

func TestSlackLogFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	if err := SlackLog("hi", &SlackConfig{WebhookURL: server.URL}); err == nil {
		t.Error("Error expected for a non-200 response")
	}

	if err := SlackLog("hi", &SlackConfig{}); err == nil {
		t.Error("Error expected without a webhook URL")
	}
}
