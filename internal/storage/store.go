package storage

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/sim"
	_ "modernc.org/sqlite"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	finalFile    = "final.svg"
	catalogFile  = "catalog.db"
)

var (
	ErrNotFound  = errors.New("storage: run not found")
	ErrInvalidID = errors.New("storage: invalid run id")
)

// Store keeps one directory per run under baseDir and indexes them in a
// SQLite catalog.
type Store struct {
	baseDir string
	db      *sql.DB
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(s.baseDir, catalogFile))
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		mode TEXT NOT NULL,
		frames INTEGER NOT NULL,
		metrics TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return fmt.Errorf("create catalog: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Mode      field.Mode         `json:"mode"`
	Frames    int                `json:"frames"`
	Preset    string             `json:"preset,omitempty"`
	Params    field.Params       `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory and records it in the catalog. ID,
// Timestamp, Frames and Metrics in meta are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result, finalSVG []byte) (id string, err error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	if meta.Name == "" {
		meta.Name = "run"
	}
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d", sanitize(meta.Name), meta.Timestamp.UnixNano())
	meta.Frames = result.FramesRun
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	// a run missing from the catalog would never be listed
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	if len(finalSVG) > 0 {
		if err := os.WriteFile(filepath.Join(runDir, finalFile), finalSVG, 0644); err != nil {
			return "", err
		}
	}

	metricsJSON, err := json.Marshal(meta.Metrics)
	if err != nil {
		return "", err
	}
	_, err = s.db.Exec(`
		INSERT INTO runs (id, name, created_at, seed, width, height, mode, frames, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, meta.ID, meta.Name, meta.Timestamp.UnixNano(), meta.Seed, meta.Width, meta.Height,
		meta.Mode.String(), meta.Frames, string(metricsJSON))
	if err != nil {
		return "", fmt.Errorf("catalog insert: %w", err)
	}

	return meta.ID, nil
}

// List returns catalogued runs, newest first. Params are not kept in the
// catalog; Load a run for its full metadata.
func (s *Store) List() ([]RunMetadata, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, name, created_at, seed, width, height, mode, frames, metrics
		FROM runs ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var (
			meta      RunMetadata
			createdAt int64
			mode      string
			metrics   string
		)
		if err := rows.Scan(&meta.ID, &meta.Name, &createdAt, &meta.Seed, &meta.Width,
			&meta.Height, &mode, &meta.Frames, &metrics); err != nil {
			return nil, err
		}
		meta.Timestamp = time.Unix(0, createdAt)
		meta.Mode, _ = field.ParseMode(mode)
		if err := json.Unmarshal([]byte(metrics), &meta.Metrics); err != nil {
			return nil, fmt.Errorf("run %s metrics: %w", meta.ID, err)
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.readRunFile(runID, metadataFile)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.FrameStat, error) {
	path, err := s.runPath(runID, framesFile)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, notFound(runID, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.FrameStat{}, nil
	}

	frames := make([]sim.FrameStat, 0, len(records)-1)
	for i, record := range records[1:] {
		st, err := parseFrame(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, i+2, err)
		}
		frames = append(frames, st)
	}
	return frames, nil
}

// FinalSVG returns the last frame saved with the run.
func (s *Store) FinalSVG(runID string) ([]byte, error) {
	return s.readRunFile(runID, finalFile)
}

func (s *Store) readRunFile(runID, name string) ([]byte, error) {
	path, err := s.runPath(runID, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(runID, err)
	}
	return data, nil
}

func (s *Store) runPath(runID, name string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, runID)
	}
	return filepath.Join(s.baseDir, runID, name), nil
}

func notFound(runID string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return err
}

var framesHeader = []string{"frame", "particles", "links", "repelled", "mean_displacement", "pointer_active"}

func writeFrames(path string, frames []sim.FrameStat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(framesHeader); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Frame),
			strconv.Itoa(f.Particles),
			strconv.Itoa(f.Links),
			strconv.Itoa(f.Repelled),
			strconv.FormatFloat(f.MeanDisplacement, 'f', 6, 64),
			strconv.FormatBool(f.PointerActive),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func parseFrame(record []string) (sim.FrameStat, error) {
	var st sim.FrameStat
	if len(record) != len(framesHeader) {
		return st, fmt.Errorf("expected %d columns, got %d", len(framesHeader), len(record))
	}
	ints := []*int{&st.Frame, &st.Particles, &st.Links, &st.Repelled}
	for i, dst := range ints {
		v, err := strconv.Atoi(record[i])
		if err != nil {
			return st, err
		}
		*dst = v
	}
	d, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return st, err
	}
	st.MeanDisplacement = d
	active, err := strconv.ParseBool(record[5])
	if err != nil {
		return st, err
	}
	st.PointerActive = active
	return st, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
