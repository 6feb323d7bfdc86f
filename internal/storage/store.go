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

	"github.com/google/uuid"

	"github.com/san-kum/randplay/internal/metrics"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
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
	ID              string             `json:"id"`
	Env             string             `json:"env"`
	Timestamp       time.Time          `json:"timestamp"`
	Seed            *int64             `json:"seed,omitempty"`
	Steps           int                `json:"steps"`
	StepsTaken      int                `json:"steps_taken"`
	MaxEpisodeSteps int                `json:"max_episode_steps"`
	Integrator      string             `json:"integrator,omitempty"`
	Interrupted     bool               `json:"interrupted"`
	Elapsed         time.Duration      `json:"elapsed"`
	Metrics         map[string]float64 `json:"metrics"`
}

func newRunID(env string) string {
	return fmt.Sprintf("%s_%s", env, uuid.NewString()[:8])
}

// Save writes the run's metadata and per-step records under a fresh run ID.
func (s *Store) Save(meta RunMetadata, records []metrics.Record) (string, error) {
	meta.ID = newRunID(meta.Env)
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.StepsTaken = len(records)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, stepsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"step", "episode", "reward", "terminated", "truncated"}); err != nil {
		return "", err
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Step),
			strconv.Itoa(rec.Episode),
			strconv.FormatFloat(rec.Reward, 'f', 6, 64),
			strconv.FormatBool(rec.Terminated),
			strconv.FormatBool(rec.Truncated),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSteps(runID string) ([]metrics.Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, stepsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 5

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return []metrics.Record{}, nil
	}

	records := make([]metrics.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("steps.csv line %d: %w", i+2, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRecord(row []string) (metrics.Record, error) {
	var rec metrics.Record
	var err error
	if rec.Step, err = strconv.Atoi(row[0]); err != nil {
		return rec, err
	}
	if rec.Episode, err = strconv.Atoi(row[1]); err != nil {
		return rec, err
	}
	if rec.Reward, err = strconv.ParseFloat(row[2], 64); err != nil {
		return rec, err
	}
	if rec.Terminated, err = strconv.ParseBool(row[3]); err != nil {
		return rec, err
	}
	if rec.Truncated, err = strconv.ParseBool(row[4]); err != nil {
		return rec, err
	}
	return rec, nil
}
