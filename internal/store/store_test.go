package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mosaicfx/internal/config"
	"github.com/san-kum/mosaicfx/internal/sim"
	"github.com/san-kum/mosaicfx/internal/transition"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Time: 0.1, Energy: 0.5, Peak: 1.2, Progress: 0, Phase: transition.Idle},
			{Time: 0.2, Energy: 0.4, Peak: 1.0, Progress: 0.25, Phase: transition.Appearing, Run: 1},
		},
		Metrics:    map[string]float64{"energy": 1.5},
		StepsTaken: 2,
		Covered:    []uint64{1},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Timing.Seed = 42
	runID, err := st.Save("test", cfg, sim.Config{Dt: 0.1, Duration: 0.2}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", meta.Name)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.GridSize != config.DefaultSize {
		t.Errorf("expected grid size %d, got %d", config.DefaultSize, meta.GridSize)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}
	if len(meta.Covered) != 1 || meta.Covered[0] != 1 {
		t.Errorf("expected covered [1], got %v", meta.Covered)
	}

	samples, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1].Phase != transition.Appearing || samples[1].Run != 1 {
		t.Errorf("expected appearing run 1, got %v run %d", samples[1].Phase, samples[1].Run)
	}
	if samples[1].Progress != 0.25 {
		t.Errorf("expected progress 0.25, got %f", samples[1].Progress)
	}

	loaded, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if loaded.Timing.Seed != 42 {
		t.Errorf("expected stored seed 42, got %d", loaded.Timing.Seed)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for _, name := range []string{"first", "second"} {
		if _, err := st.Save(name, config.DefaultConfig(), sim.Config{Dt: 0.1, Duration: 0.2}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "broken"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "first" || runs[1].Name != "second" {
		t.Errorf("expected oldest first, got %s, %s", runs[0].Name, runs[1].Name)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	runID, err := st.Save("test", config.DefaultConfig(), sim.Config{Dt: 0.1, Duration: 0.2}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "trace.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestWriteTraceHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrace(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "time,energy,peak,progress,phase,run\n" {
		t.Errorf("unexpected header %q", got)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := st.Save("export", config.DefaultConfig(), sim.Config{Dt: 0.1, Duration: 0.2}, testResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var doc struct {
		ID      string           `json:"id"`
		Samples []map[string]any `json:"samples"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.ID != runID {
		t.Errorf("expected id %s, got %s", runID, doc.ID)
	}
	if len(doc.Samples) != 2 {
		t.Errorf("expected 2 samples, got %d", len(doc.Samples))
	}
}

func TestExportMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if err := st.ExportJSON(&bytes.Buffer{}, "nope"); err == nil {
		t.Error("expected error for missing run")
	}
}
