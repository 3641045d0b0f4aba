package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	d "github.com/san-kum/oscillator/internal/dimensioned"
	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/physics"
	"github.com/san-kum/oscillator/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		States: []dynamo.State{
			{1.0, 0.0},
			{0.9, -0.1},
		},
		Times:     []float64{0.0, 0.05},
		Intervals: 1,
		Metrics: map[string]float64{
			"energy": 1.5,
		},
	}
}

func testMeta() RunMetadata {
	return RunMetadata{System: "oscillator", Solver: "RKDP45", Duration: 0.05, Interval: 0.05, RelTol: 1e-4}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testMeta(), nil, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "oscillator_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Solver != "RKDP45" {
		t.Errorf("expected solver RKDP45, got %s", meta.Solver)
	}
	if meta.Intervals != 1 {
		t.Errorf("expected 1 interval, got %d", meta.Intervals)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 samples, got %d states %d times", len(states), len(times))
	}
	if states[1][1] != -0.1 || times[1] != 0.05 {
		t.Errorf("sample not preserved exactly: %v at %v", states[1], times[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := st.Save(testMeta(), nil, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	props := physics.Properties{
		Mass:                d.NewScalar("mass", d.DimMass, 1),
		EquilibriumPosition: d.NewVector("equilibriumPosition", d.DimLength, d.Vec3{}),
		LinearSpring:        d.NewDiagTensor("linearSpring", d.DimStiffness, d.Vec3{1, 2, 3}),
		LinearDamping:       d.NewDiagTensor("linearDamping", d.DimDamping, d.Vec3{}),
		Xrel:                d.NewVector("Xrel", d.DimLength, d.Vec3{0.1, 0, 0}),
		U:                   d.NewVector("U", d.DimVelocity, d.Vec3{}),
		Uold:                d.NewVector("Uold", d.DimVelocity, d.Vec3{}),
		Force:               d.NewVector("force", d.DimForce, d.Vec3{}),
	}

	runID, err := st.Save(testMeta(), &props, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "states.csv", "properties.yaml"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	loaded, err := st.LoadProperties(runID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded != props {
		t.Errorf("properties mismatch:\n%+v\n%+v", loaded, props)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(testMeta(), nil, testResult())
	if err != nil {
		t.Fatal(err)
	}

	var csvOut bytes.Buffer
	if err := st.ExportCSV(&csvOut, runID); err != nil {
		t.Fatal(err)
	}
	expected := "x,y0,y1\n0,1,0\n0.05,0.9,-0.1\n"
	if csvOut.String() != expected {
		t.Errorf("csv export:\n%s\nwant:\n%s", csvOut.String(), expected)
	}

	var jsonOut bytes.Buffer
	if err := st.ExportJSON(&jsonOut, runID); err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(jsonOut.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Samples != 2 || data.Run.ID != runID {
		t.Errorf("unexpected export %+v", data)
	}
}

func TestWriteFileReportsClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	err := writeFile(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, "data\n"); err != nil {
			return err
		}
		return w.(*os.File).Close()
	})
	if !errors.Is(err, os.ErrClosed) {
		t.Errorf("expected close error, got %v", err)
	}

	werr := errors.New("write failed")
	err = writeFile(path, func(w io.Writer) error {
		w.(*os.File).Close()
		return werr
	})
	if err != werr {
		t.Errorf("write error should win over close error, got %v", err)
	}

	if err := writeFile(filepath.Join(path, "nested"), func(io.Writer) error { return nil }); err == nil {
		t.Error("expected create error under a regular file")
	}
}
