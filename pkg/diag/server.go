package diag

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultAddr matches the port the asset server has always used.
const DefaultAddr = ":3000"

// Stats is reported by /health.
type Stats struct {
	State  string  `json:"state"`
	Frames uint64  `json:"frames"`
	FPS    float64 `json:"fps"`
}

// StatsFunc returns the current stats. It must be safe to call from any goroutine.
type StatsFunc func() Stats

// Server serves static files at /, the readout stream at /diag and a JSON
// health report at /health.
type Server struct {
	srv       *http.Server
	startTime time.Time
	stats     StatsFunc
}

// NewServer builds a server for files in assets. hub and stats may be nil.
func NewServer(addr string, assets fs.FS, hub *Hub, stats StatsFunc) *Server {
	s := &Server{startTime: time.Now(), stats: stats}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(assets)))
	if hub != nil {
		mux.Handle("/diag", hub)
	}
	mux.HandleFunc("/health", s.handleHealth)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log.Info().Str("component", "Server").Str("addr", ln.Addr().String()).Msg("App running on port")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":   "ok",
		"uptime_s": time.Since(s.startTime).Seconds(),
	}
	if s.stats != nil {
		st := s.stats()
		resp["state"] = st.State
		resp["frames"] = st.Frames
		resp["fps"] = st.FPS
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
