// Package homeassistant publishes the watcher state as a Home Assistant sensor.
package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const DefaultEntity = "sensor.stockwatch"

type Config struct {
	BaseURL string
	Token   string
	Entity  string
}

func (c Config) Enabled() bool {
	return c.BaseURL != ""
}

type Client struct {
	conf   Config
	client *http.Client
}

func New(conf Config) *Client {
	if conf.Entity == "" {
		conf.Entity = DefaultEntity
	}
	return &Client{
		conf:   conf,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Report sets the sensor to status with the given attributes. A friendly name
// and an icon matching the status are added.
func (c *Client) Report(ctx context.Context, status string, attributes map[string]any) error {
	attrs := map[string]any{
		"friendly_name": "Stock watcher",
		"icon":          icon(status),
	}
	for k, v := range attributes {
		attrs[k] = v
	}
	payload := struct {
		State      string         `json:"state"`
		Attributes map[string]any `json:"attributes"`
	}{
		State:      status,
		Attributes: attrs,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}

	apiURL := fmt.Sprintf("%s/api/states/%s", c.conf.BaseURL, c.conf.Entity)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.conf.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("home assistant api returned status %d", resp.StatusCode)
	}

	return nil
}

func icon(status string) string {
	switch status {
	case "checking":
		return "mdi:web"
	case "error":
		return "mdi:alert"
	default:
		return "mdi:power"
	}
}
