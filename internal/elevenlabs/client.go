package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fixed voice-quality parameters forwarded with every synthesis request.
const (
	stability       = 0.5
	similarityBoost = 0.75
)

// ContentTypeMP3 is the content type of all audio returned by the API.
const ContentTypeMP3 = "audio/mpeg"

// ErrMissingAPIKey is returned when a call requires the upstream
// credential and none is configured.
var ErrMissingAPIKey = errors.New("elevenlabs api key not configured")

// UpstreamError carries a non-success status from the speech API so
// callers can relay the code without exposing the raw body.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("elevenlabs request failed (status %d)", e.StatusCode)
}

// Voice is a named synthetic speaking persona offered by the provider.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Provider abstracts the upstream speech API so handlers can be tested
// with a mock implementation.
type Provider interface {
	Configured() bool
	ListVoices(ctx context.Context) ([]Voice, error)
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// ClientConfig holds configuration for the ElevenLabs backend.
type ClientConfig struct {
	APIKey         string
	BaseURL        string // default: "https://api.elevenlabs.io/v1"
	ModelID        string // default: "eleven_monolingual_v1"
	DefaultVoiceID string // default: Rachel
}

// Client calls the ElevenLabs REST API.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// NewClient creates a Client with sensible defaults applied.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_monolingual_v1"
	}
	if cfg.DefaultVoiceID == "" {
		cfg.DefaultVoiceID = DefaultVoiceID
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Configured reports whether the upstream credential is present.
func (c *Client) Configured() bool { return c.cfg.APIKey != "" }

// ListVoices fetches the voice catalog.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.cfg.BaseURL+"/voices", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voices request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var apiResp struct {
		Voices []struct {
			VoiceID  string `json:"voice_id"`
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"voices"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	voices := make([]Voice, 0, len(apiResp.Voices))
	for _, v := range apiResp.Voices {
		voices = append(voices, Voice{ID: v.VoiceID, Name: v.Name, Category: v.Category})
	}
	return voices, nil
}

// Synthesize converts text to MP3 audio using the given voice. An empty
// voiceID selects the configured default voice.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}
	if voiceID == "" {
		voiceID = c.cfg.DefaultVoiceID
	}

	payload := map[string]any{
		"text":     text,
		"model_id": c.cfg.ModelID,
		"voice_settings": map[string]any{
			"stability":        stability,
			"similarity_boost": similarityBoost,
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/text-to-speech/"+voiceID, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", ContentTypeMP3)
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}
