package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/driftfield/internal/sim"
)

type ExportData struct {
	Run    *RunMetadata    `json:"run"`
	Frames []sim.FrameStat `json:"frames"`
}

// ExportJSON writes a run and its frame history as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.FrameStat) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Frames: frames})
}

func ExportJSONFile(path string, meta *RunMetadata, frames []sim.FrameStat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, frames)
}

// Export loads a stored run and writes it with ExportJSON.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, meta, frames)
}
