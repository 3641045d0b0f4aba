package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

type ExportData struct {
	Run     RunMetadata `json:"run"`
	Times   []float64   `json:"times"`
	States  [][]float64 `json:"states"`
	Samples int         `json:"samples"`
}

// ExportJSON writes a saved run, metadata and samples, as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		Run:     *meta,
		Times:   times,
		States:  states,
		Samples: len(times),
	})
}

// ExportCSV writes the sampled states of a saved run.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s: no data to export", runID)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header(len(states[0]))); err != nil {
		return err
	}
	for i := range states {
		if err := cw.Write(Row(times[i], states[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
