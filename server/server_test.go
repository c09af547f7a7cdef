package server

import (
	"context"
	"encoding/json"
	"image/gif"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghlife/ghlife/model"
	"github.com/ghlife/ghlife/utils"
)

// stubSource serves a fixed count matrix, or blocks until cancelled.
type stubSource struct {
	counts [][]int
	block  bool
}

func (s *stubSource) Contributions(ctx context.Context, username string) ([][]int, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.counts, nil
}

func blinkerCounts() [][]int {
	counts := make([][]int, model.Rows)
	for r := range counts {
		counts[r] = make([]int, model.Cols)
	}
	counts[3][25] = 1
	counts[3][26] = 1
	counts[3][27] = 1
	return counts
}

func testServer(source *stubSource) *Server {
	cfg := utils.DefaultConfig()
	cfg.Render.CellSize = 2
	return New(cfg, source)
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(&stubSource{counts: blinkerCounts()})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("health body must be JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %q", body["status"])
	}
}

func TestRootEndpoint(t *testing.T) {
	srv := testServer(&stubSource{counts: blinkerCounts()})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGenerateRequiresUsername(t *testing.T) {
	srv := testServer(&stubSource{counts: blinkerCounts()})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateRejectsBadStrategy(t *testing.T) {
	srv := testServer(&stubSource{counts: blinkerCounts()})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/generate?username=octocat&strategy=torus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateRejectsBadFrames(t *testing.T) {
	srv := testServer(&stubSource{counts: blinkerCounts()})
	for _, query := range []string{"frames=0", "frames=-1", "frames=101", "frames=ten"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/generate?username=octocat&"+query, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, rec.Code)
		}
	}
}

func TestGenerateRejectsNonGet(t *testing.T) {
	srv := testServer(&stubSource{counts: blinkerCounts()})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/generate?username=octocat", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestGenerateReturnsGIF(t *testing.T) {
	srv := testServer(&stubSource{counts: blinkerCounts()})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/generate?username=octocat&frames=4&strategy=loop", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/gif" {
		t.Fatalf("expected image/gif, got %q", ct)
	}
	decoded, err := gif.DecodeAll(rec.Body)
	if err != nil {
		t.Fatalf("body must be a valid gif: %v", err)
	}
	// 4 generations plus the initial grid
	if len(decoded.Image) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(decoded.Image))
	}
}

func TestGenerateReportsBadUpstreamData(t *testing.T) {
	counts := blinkerCounts()
	counts[0] = counts[0][:10] // wrong shape reaches the grid chokepoint
	srv := testServer(&stubSource{counts: counts})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/generate?username=octocat", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGenerateTimesOut(t *testing.T) {
	cfg := utils.DefaultConfig()
	cfg.Server.TimeoutSeconds = 1
	srv := New(cfg, &stubSource{block: true})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/generate?username=octocat", nil))
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", rec.Code)
	}
}
