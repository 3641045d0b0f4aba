package storage

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

	"github.com/google/uuid"
	"github.com/san-kum/oscillator/internal/physics"
	"github.com/san-kum/oscillator/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	statesFile     = "states.csv"
	propertiesFile = "properties.yaml"
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
	ID          string             `json:"id"`
	System      string             `json:"system"`
	Solver      string             `json:"solver"`
	Timestamp   time.Time          `json:"timestamp"`
	Duration    float64            `json:"duration"`
	Interval    float64            `json:"interval"`
	RelTol      float64            `json:"rel_tol"`
	Intervals   int                `json:"intervals"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding the metadata, the sampled states and,
// when props is non-nil, the dictionary the run started from.
func (s *Store) Save(meta RunMetadata, props *physics.Properties, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%s", meta.System, uuid.NewString()[:8])
	meta.Timestamp = now
	meta.Intervals = result.Intervals
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if props != nil {
		err := writeFile(filepath.Join(runDir, propertiesFile), func(w io.Writer) error {
			_, err := props.WriteTo(w)
			return err
		})
		if err != nil {
			return "", err
		}
	}

	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// writeFile creates path and hands it to write. A failed Close is
// reported when write itself succeeded.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func writeJSON(path string, v interface{}) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeStates(path string, result *sim.Result) error {
	return writeFile(path, func(f io.Writer) error {
		w := csv.NewWriter(f)
		if len(result.States) > 0 {
			if err := w.Write(Header(len(result.States[0]))); err != nil {
				return err
			}
		}
		for i, state := range result.States {
			if err := w.Write(Row(result.Times[i], state)); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

// Header names the columns of a states table with n state components.
func Header(n int) []string {
	header := []string{"x"}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	return header
}

func Row(x float64, state []float64) []string {
	row := []string{strconv.FormatFloat(x, 'g', -1, 64)}
	for _, val := range state {
		row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
	}
	return row
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadProperties reads the dictionary saved with a run.
func (s *Store) LoadProperties(runID string) (physics.Properties, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, propertiesFile))
	if err != nil {
		return physics.Properties{}, err
	}
	return physics.DecodeProperties(data)
}

func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		x, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", statesFile, i+2, err)
		}

		state := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", statesFile, i+2, err)
			}
			state = append(state, val)
		}

		times = append(times, x)
		states = append(states, state)
	}

	return states, times, nil
}
