package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/service/hub"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/usecase"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/logging"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/safe"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	hub    *hub.Hub
}

// New builds the HTTP surface: the chat WebSocket endpoint and a synchronous
// health probe.
func New(uc *usecase.UseCases, h *hub.Hub) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		hub:    h,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Health probe for external orchestration; must never block.
	r.Get("/health", healthHandler)

	// Chat endpoint
	r.Get("/ws", s.serveWS)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(map[string]string{
		"status":  "ok",
		"message": "interview scheduler is running",
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, data)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
