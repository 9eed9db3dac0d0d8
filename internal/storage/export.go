package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/revsim/internal/powertrain"
)

type ExportData struct {
	Run       RunMetadata            `json:"run"`
	Telemetry []powertrain.Telemetry `json:"telemetry"`
}

// ExportJSON writes a run and its telemetry as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, tels []powertrain.Telemetry) error {
	data := ExportData{
		Run:       meta,
		Telemetry: tels,
	}
	if data.Telemetry == nil {
		data.Telemetry = []powertrain.Telemetry{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
