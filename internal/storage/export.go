package storage

import (
	"encoding/json"
	"io"
	"math"
)

// ExportData is a run as one JSON document. Empty trace cells export as
// null.
type ExportData struct {
	Run     RunMetadata           `json:"run"`
	Columns []string              `json:"columns"`
	Values  map[string][]*float64 `json:"values"`
}

// ExportJSON writes a stored run, metadata and trace, as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	cols, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:     *meta,
		Columns: cols.Header,
		Values:  make(map[string][]*float64, len(cols.Values)),
	}
	for name, values := range cols.Values {
		out := make([]*float64, len(values))
		for i, v := range values {
			if !math.IsNaN(v) {
				out[i] = &values[i]
			}
		}
		data.Values[name] = out
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
