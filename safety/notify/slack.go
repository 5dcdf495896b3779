package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jewel-voice/jewel/safety/store"
)

// Delivers emergency events to a slack channel via "incoming webhook",
// then records the delivery on the event row.
type SlackNotifier struct {
	SlackWebhookURL string
	Store           store.Store
}

var _ Notifier = (*SlackNotifier)(nil)

func (n *SlackNotifier) SendEmergency(ctx context.Context, evt *store.EmergencyEvent) error {
	msg := slackBody(evt)
	if err := n.sendSlackMsg(ctx, msg); err != nil {
		return err
	}
	// only the notifier flips this flag; the detector always writes false
	return n.Store.SetEmergencyNotified(ctx, evt.ID, true, evt.AuthoritiesContacted)
}

type SlackWebhookBody struct {
	Text string `json:"text"`
}

// Sends a simple slack message to a channel via "incoming webhook".
//
// The slack incoming webhook must be already configured in the slack workplace.
func (n *SlackNotifier) sendSlackMsg(ctx context.Context, msg string) error {
	body, err := json.Marshal(SlackWebhookBody{Text: msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.SlackWebhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	client := http.DefaultClient
	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	if resp.StatusCode != 200 || buf.String() != "ok" {
		return fmt.Errorf("failed slack webhook POST request. status=%d", resp.StatusCode)
	}
	return nil
}

func slackBody(evt *store.EmergencyEvent) string {
	msg := "🚨 Jewel Emergency Event 🚨\n"
	msg += fmt.Sprintf("Type: `%s`\n", evt.EventType)
	msg += fmt.Sprintf("User: `%s`\n", evt.UserID)
	msg += fmt.Sprintf("%s\n", evt.Description)
	if evt.AudioTranscript != "" {
		msg += fmt.Sprintf("Transcript: %s\n", evt.AudioTranscript)
	}
	if evt.VideoContext != "" {
		msg += fmt.Sprintf("Video context: %s\n", evt.VideoContext)
	}
	return msg
}
