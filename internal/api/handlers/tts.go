package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/murph-app/murph/internal/cache"
	"github.com/murph-app/murph/internal/elevenlabs"
)

// TTSHandler serves the two proxy routes: voice listing and text
// conversion.
type TTSHandler struct {
	provider       elevenlabs.Provider
	audioCache     *cache.AudioCache
	maxTextChars   int
	modelID        string
	defaultVoiceID string
}

func NewTTSHandler(provider elevenlabs.Provider, audioCache *cache.AudioCache, maxTextChars int, modelID, defaultVoiceID string) *TTSHandler {
	if maxTextChars <= 0 {
		maxTextChars = 5000
	}
	if modelID == "" {
		modelID = "eleven_monolingual_v1"
	}
	if defaultVoiceID == "" {
		defaultVoiceID = elevenlabs.DefaultVoiceID
	}
	return &TTSHandler{
		provider:       provider,
		audioCache:     audioCache,
		maxTextChars:   maxTextChars,
		modelID:        modelID,
		defaultVoiceID: defaultVoiceID,
	}
}

// Voices lists the selectable voices. Listing is advisory, so a missing
// credential or any upstream failure degrades to the static catalog and
// the route still answers 200.
func (h *TTSHandler) Voices(w http.ResponseWriter, r *http.Request) {
	if !h.provider.Configured() {
		writeJSON(w, http.StatusOK, elevenlabs.FallbackVoices())
		return
	}

	voices, err := h.provider.ListVoices(r.Context())
	if err != nil {
		slog.Warn("voice listing failed, serving fallback", "error", err)
		writeJSON(w, http.StatusOK, elevenlabs.FallbackVoices())
		return
	}

	writeJSON(w, http.StatusOK, voices)
}

type convertRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId,omitempty"`
}

type convertResponse struct {
	Audio       string `json:"audio"`
	ContentType string `json:"contentType"`
}

// Convert synthesizes speech for the posted text and returns the audio
// base64-encoded.
func (h *TTSHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	if !h.provider.Configured() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "speech provider not configured"})
		return
	}

	// Oversized input is truncated, not rejected: trailing content is
	// dropped so a long document still produces audio.
	text := truncateRunes(req.Text, h.maxTextChars)

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = h.defaultVoiceID
	}

	key := cache.Key(h.modelID, voiceID, text)
	if audio, ok := h.audioCache.Get(r.Context(), key); ok {
		writeJSON(w, http.StatusOK, convertResponse{
			Audio:       base64.StdEncoding.EncodeToString(audio),
			ContentType: elevenlabs.ContentTypeMP3,
		})
		return
	}

	audio, err := h.provider.Synthesize(r.Context(), text, voiceID)
	if err != nil {
		var ue *elevenlabs.UpstreamError
		switch {
		case errors.As(err, &ue):
			// Raw upstream bodies stay in the logs; callers get the
			// status code and a generic message.
			slog.Warn("synthesis upstream error", "status", ue.StatusCode, "body", ue.Body)
			writeJSON(w, ue.StatusCode, map[string]string{"error": "speech synthesis failed"})
		case errors.Is(err, elevenlabs.ErrMissingAPIKey):
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "speech provider not configured"})
		default:
			slog.Error("synthesis failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "speech synthesis failed"})
		}
		return
	}

	if err := h.audioCache.Set(r.Context(), key, audio); err != nil {
		slog.Warn("audio cache write failed", "error", err)
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Audio:       base64.StdEncoding.EncodeToString(audio),
		ContentType: elevenlabs.ContentTypeMP3,
	})
}

// truncateRunes limits s to n characters, not bytes, so a multi-byte
// rune is never split.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
