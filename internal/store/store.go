// Package store persists headless simulation runs as a directory per run
// holding metadata.json, the config as config.yaml and a per-tick trace.csv.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/mosaicfx/internal/config"
	"github.com/san-kum/mosaicfx/internal/sim"
	"github.com/san-kum/mosaicfx/internal/transition"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	GridSize  int                `json:"grid_size"`
	Seed      uint64             `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Image     string             `json:"image,omitempty"`
	Steps     int                `json:"steps"`
	Covered   []uint64           `json:"covered,omitempty"`
	Completed []uint64           `json:"completed,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

var traceHeader = []string{"time", "energy", "peak", "progress", "phase", "run"}

func (s *Store) Save(name string, cfg *config.Config, run sim.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		GridSize:  cfg.Grid.Size,
		Seed:      cfg.Timing.Seed,
		Dt:        run.Dt,
		Duration:  run.Duration,
		Image:     cfg.Image,
		Steps:     result.StepsTaken,
		Covered:   result.Covered,
		Completed: result.Completed,
		Metrics:   result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, "config.yaml"), cfg); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteTrace(f, result.Samples); err != nil {
		return "", err
	}
	return runID, f.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// WriteTrace writes samples as CSV with a header row.
func WriteTrace(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.FormatFloat(s.Energy, 'g', 10, 64),
			strconv.FormatFloat(s.Peak, 'g', 10, 64),
			strconv.FormatFloat(s.Progress, 'f', 6, 64),
			s.Phase.String(),
			strconv.FormatUint(s.Run, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, "config.yaml"))
}

// LoadTrace reads trace.csv back. Malformed rows are skipped.
func (s *Store) LoadTrace(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(traceHeader) {
			continue
		}
		var vals [4]float64
		ok := true
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(rec[j], 64); err != nil {
				ok = false
				break
			}
		}
		run, err := strconv.ParseUint(rec[5], 10, 64)
		if !ok || err != nil {
			continue
		}
		samples = append(samples, sim.Sample{
			Time:     vals[0],
			Energy:   vals[1],
			Peak:     vals[2],
			Progress: vals[3],
			Phase:    transition.ParsePhase(rec[4]),
			Run:      run,
		})
	}
	return samples, nil
}

// ExportJSON writes a run's metadata and trace as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*RunMetadata
		Samples []sim.Sample `json:"samples"`
	}{meta, samples})
}
