package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fuzzypend/internal/config"
	"github.com/san-kum/fuzzypend/internal/experiment"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
)

var ErrRunNotFound = errors.New("run not found")

var historyHeader = []string{"time", "angle_deg", "velocity_deg_s", "force_n"}

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
	ID              string             `json:"id"`
	Timestamp       time.Time          `json:"timestamp"`
	Integrator      string             `json:"integrator"`
	Controller      string             `json:"controller"`
	Physics         config.Physics     `json:"physics"`
	InitialAngle    float64            `json:"initial_angle_deg"`
	InitialVelocity float64            `json:"initial_velocity"`
	Params          map[string]float64 `json:"controller_params,omitempty"`
	ClipInputs      bool               `json:"clip_inputs"`
	Steps           int                `json:"steps"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Save writes a run as <id>/metadata.json and <id>/history.csv. ID,
// Timestamp, Steps and Metrics are filled in from the clock and h.
func (s *Store) Save(meta RunMetadata, h *experiment.History) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Controller, now.UnixNano())
	meta.Timestamp = now
	meta.Steps = h.Len()
	meta.Metrics = h.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, historyFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, h); err != nil {
		return "", err
	}
	return meta.ID, csvFile.Close()
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

// List returns saved runs, oldest first. Directories without readable
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// LoadHistory reads the recorded trace back, with metrics from the
// metadata.
func (s *Store) LoadHistory(runID string) (*experiment.History, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty history file", runID)
	}

	n := len(records) - 1
	h := &experiment.History{
		Times:      make([]float64, n),
		Angles:     make([]float64, n),
		Velocities: make([]float64, n),
		Forces:     make([]float64, n),
		Metrics:    meta.Metrics,
	}
	cols := [][]float64{h.Times, h.Angles, h.Velocities, h.Forces}

	for i, record := range records[1:] {
		if len(record) != len(cols) {
			return nil, fmt.Errorf("%s: row %d has %d fields", runID, i+1, len(record))
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", runID, i+1, err)
			}
			cols[j][i] = v
		}
	}
	return h, nil
}
