package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"greenspark-backend/internal/models"
)

type SlackClient struct {
	webhookURL string
	client     *http.Client
}

type SlackMessage struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks"`
}

type Block struct {
	Type   string  `json:"type"`
	Text   *Text   `json:"text,omitempty"`
	Fields []*Text `json:"fields,omitempty"`
}

type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

var categoryEmoji = map[models.Category]string{
	models.CategoryCleanup:    "🧹",
	models.CategoryPlantation: "🌳",
	models.CategoryAwareness:  "📣",
	models.CategoryRecycling:  "♻️",
}

// NewSlackClient posts to an incoming webhook. An empty URL disables it.
func NewSlackClient(webhookURL string) *SlackClient {
	return &SlackClient{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *SlackClient) Enabled() bool {
	return c != nil && c.webhookURL != ""
}

// CampaignAlert tells the organizers' channel about a new campaign.
func (c *SlackClient) CampaignAlert(ctx context.Context, ev models.CampaignCreatedEvent) error {
	if !c.Enabled() {
		return nil
	}
	return c.sendMessage(ctx, buildCampaignMessage(ev))
}

func buildCampaignMessage(ev models.CampaignCreatedEvent) SlackMessage {
	emoji, ok := categoryEmoji[ev.Category]
	if !ok {
		emoji = "🌱"
	}

	return SlackMessage{
		Text: fmt.Sprintf("New campaign: %s", ev.Title),
		Blocks: []Block{
			{
				Type: "header",
				Text: &Text{
					Type:  "plain_text",
					Text:  fmt.Sprintf("%s New campaign: %s", emoji, ev.Title),
					Emoji: true,
				},
			},
			{
				Type: "section",
				Fields: []*Text{
					{Type: "mrkdwn", Text: "*Category:*\n" + string(ev.Category)},
					{Type: "mrkdwn", Text: "*Date:*\n" + ev.Date},
					{Type: "mrkdwn", Text: "*Location:*\n" + ev.Location},
					{Type: "mrkdwn", Text: "*Organizer:*\n" + ev.OrganizerName},
				},
			},
		},
	}
}

func (c *SlackClient) sendMessage(ctx context.Context, message SlackMessage) error {
	reqBody, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack error: %d %s", resp.StatusCode, string(body))
	}

	return nil
}
