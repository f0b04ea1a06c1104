// Package apiclient is the player-side client for the murph API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/murph-app/murph/internal/elevenlabs"
	"github.com/murph-app/murph/internal/playback"
)

// Client calls the voices and convert routes. It implements
// playback.Synthesizer.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Voices fetches the selectable voice catalog.
func (c *Client) Voices(ctx context.Context) ([]elevenlabs.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/tts/voices", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voices request failed (status %d)", resp.StatusCode)
	}

	var voices []elevenlabs.Voice
	if err := json.NewDecoder(resp.Body).Decode(&voices); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return voices, nil
}

// Synthesize converts text to playable audio via the convert route.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) (*playback.Audio, error) {
	payload := map[string]string{"text": text}
	if voiceID != "" {
		payload["voiceId"] = voiceID
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/tts/convert", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("convert request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("convert failed (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("convert failed (status %d)", resp.StatusCode)
	}

	var apiResp struct {
		Audio       string `json:"audio"`
		ContentType string `json:"contentType"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(apiResp.Audio)
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}

	return &playback.Audio{Data: audio, ContentType: apiResp.ContentType}, nil
}
