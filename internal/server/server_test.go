package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/sim"
	"github.com/san-kum/driftfield/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	st := storage.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, field.Params{}, log.New(io.Discard)), st
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestFrameSVG(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/frame.svg?width=800&height=600&seed=3&frames=10&mode=dark&px=400&py=300")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("expected svg content type, got %s", ct)
	}
	body := w.Body.String()
	if n := strings.Count(body, "<circle"); n != 32 {
		t.Errorf("expected 32 circles, got %d", n)
	}
	if !strings.Contains(body, "fill:rgb(195,66,19)") {
		t.Error("expected dark particle color")
	}
}

func TestFrameSVGDeterministic(t *testing.T) {
	s, _ := newTestServer(t)
	a := get(t, s, "/frame.svg?seed=9&frames=5").Body.String()
	b := get(t, s, "/frame.svg?seed=9&frames=5").Body.String()
	if a != b {
		t.Error("same query should render the same frame")
	}
}

func TestFramePNG(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/frame.png?width=120&height=90&frames=2")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "\x89PNG") {
		t.Error("expected a png body")
	}
}

func TestFrameBadQuery(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []string{
		"/frame.svg?width=abc",
		"/frame.svg?width=100000",
		"/frame.svg?frames=0",
		"/frame.svg?mode=sepia",
		"/frame.svg?px=10",
		"/frame.svg?seed=x",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			if w := get(t, s, target); w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestRunsAPI(t *testing.T) {
	s, st := newTestServer(t)

	w := get(t, s, "/api/runs")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %d %s", w.Code, w.Body.String())
	}

	result := &sim.Result{
		Frames:    []sim.FrameStat{{Frame: 0, Particles: 32, Links: 12}},
		Metrics:   map[string]float64{"link_density": 12},
		FramesRun: 1,
	}
	id, err := st.Save(storage.RunMetadata{Name: "api", Seed: 4}, result, []byte("<svg/>"))
	if err != nil {
		t.Fatal(err)
	}

	w = get(t, s, "/api/runs")
	var runs []storage.RunMetadata
	if err := json.Unmarshal(w.Body.Bytes(), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != id {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	w = get(t, s, "/api/runs/"+id)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var data storage.ExportData
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Run.Seed != 4 || len(data.Frames) != 1 {
		t.Errorf("unexpected run payload: %+v", data)
	}

	if w := get(t, s, "/api/runs/"+id+"/final.svg"); w.Body.String() != "<svg/>" {
		t.Errorf("unexpected final svg %q", w.Body.String())
	}
	if w := get(t, s, "/api/runs/missing_1"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if w := get(t, s, "/api/runs/.."); w.Code != http.StatusBadRequest && w.Code != http.StatusNotFound && w.Code != http.StatusMovedPermanently {
		t.Errorf("unexpected status for dot-dot id: %d", w.Code)
	}
}

func TestRunsWithoutStore(t *testing.T) {
	s := New(nil, field.Params{}, log.New(io.Discard))
	if w := get(t, s, "/api/runs"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestPresets(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(t, s, "/api/presets")

	var out []struct {
		Name   string       `json:"name"`
		Params field.Params `json:"params"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 4 || out[0].Name != "calm" {
		t.Fatalf("unexpected presets: %+v", out)
	}
	if out[0].Params.LinkDistance != 100 {
		t.Errorf("calm link distance should be 100, got %f", out[0].Params.LinkDistance)
	}
}
