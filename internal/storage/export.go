package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/fuzzypend/internal/experiment"
)

type ExportData struct {
	Run     RunMetadata         `json:"run"`
	History *experiment.History `json:"history"`
}

func ExportJSON(w io.Writer, meta RunMetadata, h *experiment.History) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, History: h})
}

// WriteCSV writes one row per history entry. Values are printed with the
// shortest representation that parses back to the same float.
func WriteCSV(w io.Writer, h *experiment.History) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}

	row := make([]string, len(historyHeader))
	for i := 0; i < h.Len(); i++ {
		row[0] = formatFloat(h.Times[i])
		row[1] = formatFloat(h.Angles[i])
		row[2] = formatFloat(h.Velocities[i])
		row[3] = formatFloat(h.Forces[i])
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
