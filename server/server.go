// Package server exposes the fetch→simulate→render pipeline over HTTP. It
// is stateless: every /generate request builds its own engine, and the
// wall-clock timeout lives here at the service boundary, never inside the
// rule engine.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ghlife/ghlife/contrib"
	"github.com/ghlife/ghlife/game"
	"github.com/ghlife/ghlife/model"
	"github.com/ghlife/ghlife/render"
	"github.com/ghlife/ghlife/utils"
)

// Version reported by the health and root endpoints.
const Version = "0.1.0"

const maxUsernameLength = 255

// Server handles GIF generation requests.
type Server struct {
	cfg    utils.Config
	source contrib.Source
	mux    *http.ServeMux
}

// New wires a Server from its configuration and a contribution source.
func New(cfg utils.Config, source contrib.Source) *Server {
	s := &Server{
		cfg:    cfg,
		source: source,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/generate", s.handleGenerate)
	s.mux.HandleFunc("/", s.handleRoot)
	return s
}

// Handler returns the routing handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe blocks serving requests until the listener fails or ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	httpSrv := &http.Server{Addr: addr, Handler: s.mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	log.Printf("listening on %s", addr)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "[ListenAndServe] server failed")
	case <-ctx.Done():
		return errors.Wrap(httpSrv.Shutdown(context.Background()), "[ListenAndServe] shutdown failed")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "Game of Life GIF Generator API",
		"version": Version,
		"endpoints": map[string]string{
			"health":   "/health",
			"generate": "/generate?username=<github-username>&frames=20&strategy=void",
		},
	})
}

type generateResult struct {
	data []byte
	err  error
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	if len(username) > maxUsernameLength {
		writeError(w, http.StatusBadRequest, "username too long")
		return
	}

	frames := s.cfg.Sim.Frames
	if raw := r.URL.Query().Get("frames"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "frames must be an integer")
			return
		}
		frames = parsed
	}
	if frames < 1 || frames > s.cfg.Sim.MaxFrames {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("frames must be in [1,%d]", s.cfg.Sim.MaxFrames))
		return
	}

	strategyValue := r.URL.Query().Get("strategy")
	if strategyValue == "" {
		strategyValue = s.cfg.Sim.Strategy
	}
	strategy, err := game.ParseBoundaryStrategy(strategyValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "strategy must be 'void' or 'loop'")
		return
	}

	// The whole pipeline runs in a worker; on timeout the handler answers
	// 504 and the worker's result is discarded.
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ServerTimeout())
	defer cancel()

	resultCh := make(chan generateResult, 1)
	go func() {
		data, err := s.generate(ctx, username, frames, strategy)
		resultCh <- generateResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		writeError(w, http.StatusGatewayTimeout,
			fmt.Sprintf("generation timeout after %d seconds, try with fewer frames", s.cfg.Server.TimeoutSeconds))
	case res := <-resultCh:
		if res.err != nil {
			status := http.StatusInternalServerError
			if isBadInput(res.err) {
				status = http.StatusBadRequest
			}
			log.Printf("generate failed for %q: %v", username, res.err)
			writeError(w, status, res.err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/gif")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%s-game-of-life.gif", username))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.data)
	}
}

// generate runs fetch → grid → evolve → encode and returns the GIF bytes.
func (s *Server) generate(ctx context.Context, username string, frames int, strategy game.BoundaryStrategy) ([]byte, error) {
	counts, err := s.source.Contributions(ctx, username)
	if err != nil {
		return nil, errors.Wrapf(err, "[generate] failed to fetch contributions for %+v", username)
	}
	grid, err := contrib.GridFromCounts(counts)
	if err != nil {
		return nil, errors.Wrapf(err, "[generate] failed to build grid for %+v", username)
	}

	g, err := game.NewWithStrategy(strategy)
	if err != nil {
		return nil, errors.Wrap(err, "[generate] failed to build game")
	}
	history, err := g.Evolve(grid, frames)
	if err != nil {
		return nil, errors.Wrap(err, "[generate] evolution failed")
	}

	renderer, err := render.NewGifRenderer(render.Options{
		CellSize:     s.cfg.Render.CellSize,
		CellGap:      s.cfg.Render.CellGap,
		FrameDelayMS: s.cfg.Render.FrameDelayMS,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[generate] failed to build renderer")
	}
	var buf bytes.Buffer
	if err := renderer.EncodeGIF(&buf, history); err != nil {
		return nil, errors.Wrap(err, "[generate] failed to encode gif")
	}
	return buf.Bytes(), nil
}

// isBadInput reports whether the failure is the caller's fault.
func isBadInput(err error) bool {
	return errors.Is(err, contrib.ErrUsername) ||
		errors.Is(err, contrib.ErrNegativeCount) ||
		errors.Is(err, game.ErrStrategy) ||
		errors.Is(err, game.ErrGenerations) ||
		errors.Is(err, model.ErrDimension) ||
		errors.Is(err, model.ErrCellState)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
