package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/murph-app/murph/internal/api/handlers"
	"github.com/murph-app/murph/internal/api/middleware"
	"github.com/murph-app/murph/internal/cache"
	"github.com/murph-app/murph/internal/config"
	"github.com/murph-app/murph/internal/elevenlabs"
)

type Router struct {
	mux      *chi.Mux
	redis    *redis.Client
	cfg      *config.Config
	provider elevenlabs.Provider
}

// NewRouter wires the API routes. rdb may be nil, which disables the
// synthesis cache.
func NewRouter(rdb *redis.Client, provider elevenlabs.Provider, cfg *config.Config) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		redis:    rdb,
		cfg:      cfg,
		provider: provider,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	rl := middleware.NewRateLimiter(rt.cfg.RateLimit.RPS, rt.cfg.RateLimit.Burst)
	r.Use(rl.Limit)

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"method not allowed"}` + "\n"))
	})

	// Health endpoints
	health := handlers.NewHealthHandler(rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	var audioCache *cache.AudioCache
	if rt.redis != nil {
		audioCache = cache.New(rt.redis, time.Duration(rt.cfg.Synthesis.CacheTTLSecs)*time.Second)
	}

	ttsH := handlers.NewTTSHandler(
		rt.provider,
		audioCache,
		rt.cfg.Synthesis.MaxTextChars,
		rt.cfg.ElevenLabs.ModelID,
		rt.cfg.ElevenLabs.DefaultVoiceID,
	)
	r.Get("/api/tts/voices", ttsH.Voices)
	r.Post("/api/tts/convert", ttsH.Convert)

	return r
}
