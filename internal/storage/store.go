package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/markservo/internal/servo"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
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
	ID         string    `json:"id"`
	Preset     string    `json:"preset,omitempty"`
	Source     string    `json:"source"`
	Dictionary string    `json:"dictionary"`
	TargetID   int       `json:"target_id"`
	Timestamp  time.Time `json:"timestamp"`
	Frames     int       `json:"frames"`
	// MinDt is stored in nanoseconds.
	MinDt           time.Duration      `json:"min_dt_ns"`
	SettleThreshold float64            `json:"settle_threshold"`
	Axes            []AxisMetadata     `json:"axes"`
	Metrics         map[string]float64 `json:"metrics"`
}

type AxisMetadata struct {
	Name          string  `json:"name"`
	Feature       string  `json:"feature"`
	SetPoint      float64 `json:"set_point"`
	Kp            float64 `json:"kp"`
	Ki            float64 `json:"ki"`
	Kd            float64 `json:"kd"`
	IntegralLimit float64 `json:"integral_limit"`
	Invert        bool    `json:"invert"`
}

// Save writes metadata.json and trace.csv into a new run directory and
// returns the run id. Measured and error cells are left empty for frames
// without the marker.
func (s *Store) Save(meta RunMetadata, trace *servo.Trace) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("run_%s", now.Format("20060102_150405.000000"))
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = len(trace.Samples)
	meta.Metrics = trace.Metrics

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

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := []string{"time", "frame", "found", "marker_id", "held"}
	for _, axis := range trace.Axes {
		header = append(header, axis+"_measured", axis+"_error", axis+"_output")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, sample := range trace.Samples {
		row := []string{
			formatFloat(sample.Time),
			strconv.Itoa(sample.Frame),
			strconv.FormatBool(sample.Found),
			strconv.Itoa(sample.MarkerID),
			strconv.FormatBool(sample.Held),
		}
		for i := range trace.Axes {
			measured, errCell := "", ""
			if sample.Found {
				measured = formatFloat(at(sample.Measured, i))
				errCell = formatFloat(at(sample.Errors, i))
			}
			row = append(row, measured, errCell, formatFloat(at(sample.Outputs, i)))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return runID, w.Error()
}

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

// Columns is a trace loaded back from disk, keyed by csv header.
type Columns struct {
	Header []string
	Values map[string][]float64
}

// Column returns the named column, or nil if absent. Empty cells are NaN.
func (c *Columns) Column(name string) []float64 {
	return c.Values[name]
}

// LoadTrace reads trace.csv. Boolean columns load as 0/1, empty or
// unparsable cells as NaN.
func (s *Store) LoadTrace(runID string) (*Columns, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
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
	if len(records) == 0 {
		return nil, errors.New("storage: trace has no header")
	}

	cols := &Columns{
		Header: records[0],
		Values: make(map[string][]float64, len(records[0])),
	}
	for _, name := range cols.Header {
		cols.Values[name] = make([]float64, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		for j, name := range cols.Header {
			v := math.NaN()
			if j < len(record) {
				v = parseCell(record[j])
			}
			cols.Values[name] = append(cols.Values[name], v)
		}
	}

	return cols, nil
}

func parseCell(s string) float64 {
	switch s {
	case "true":
		return 1
	case "false":
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
