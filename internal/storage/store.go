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

	"github.com/san-kum/ecasim/internal/automaton"
	"github.com/san-kum/ecasim/internal/sim"
)

// Store keeps finished run records under baseDir, one directory per run.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes how a stored run was produced and how it ended.
type RunMetadata struct {
	ID          string             `json:"id"`
	Rule        int                `json:"rule"`
	Width       int                `json:"width"`
	Iterations  int                `json:"iterations"`
	Boundary    string             `json:"boundary"`
	Seed        string             `json:"seed"`
	Timestamp   time.Time          `json:"timestamp"`
	Generations int                `json:"generations"`
	Outcome     string             `json:"outcome"`
	Final       string             `json:"final"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and rows.csv for result. meta.ID, Timestamp and
// the result-derived fields are filled in here.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("rule%d_%d", meta.Rule, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Generations = result.Generations
	meta.Outcome = result.Outcome.String()
	meta.Final = result.Final.String()
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	if err := Export(metaFile, &meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "rows.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"generation", "density", "cells"}); err != nil {
		return "", err
	}
	for g, row := range result.Rows {
		rec := []string{
			strconv.Itoa(g),
			strconv.FormatFloat(row.Density(), 'f', 6, 64),
			row.String(),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the stored runs, oldest first. Directories without readable
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadRows reads back the rows of a stored run in generation order.
func (s *Store) LoadRows(runID string) ([]automaton.Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "rows.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []automaton.Row{}, nil
	}

	rows := make([]automaton.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := automaton.ParseRow(rec[2])
		if err != nil {
			return nil, fmt.Errorf("run %s: generation %d: %w", runID, i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Export writes meta as indented JSON.
func Export(w io.Writer, meta *RunMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
