package apiclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSynthesizeRoundTrip(t *testing.T) {
	audio := []byte{0xFF, 0xFB, 0x01, 0x02}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tts/convert" || r.Method != "POST" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["text"] != "hello" || req["voiceId"] != "v1" {
			t.Errorf("request body = %v", req)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"audio":       base64.StdEncoding.EncodeToString(audio),
			"contentType": "audio/mpeg",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.Synthesize(context.Background(), "hello", "v1")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(got.Data, audio) {
		t.Fatalf("audio = %v, want %v", got.Data, audio)
	}
	if got.ContentType != "audio/mpeg" {
		t.Fatalf("contentType = %q", got.ContentType)
	}
}

func TestSynthesizeErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "text is required"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Synthesize(context.Background(), "x", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "text is required") {
		t.Fatalf("err = %v, want server message surfaced", err)
	}
}

func TestVoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tts/voices" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":"a","name":"Alpha","category":"premade"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	voices, err := c.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices: %v", err)
	}
	if len(voices) != 1 || voices[0].Name != "Alpha" {
		t.Fatalf("voices = %+v", voices)
	}
}
