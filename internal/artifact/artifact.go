// Package artifact exports a processed batch as downloadable files.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/zeroml/internal/dataset"
	"github.com/KaramelBytes/zeroml/internal/result"
)

// File names written by Write.
const (
	CleanedDataFile = "cleaned_data.csv"
	ModelInfoFile   = "model_info.json"
	ModelScriptFile = "model_script.py"
)

// Write exports the cleaned dataset, model metadata and training script
// into dir, creating it if needed. It returns the paths written.
func Write(dir string, agg *result.AggregateResult) ([]string, error) {
	if agg == nil {
		return nil, fmt.Errorf("nothing to export")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	info, err := PrettyJSON(agg.Model.Info())
	if err != nil {
		return nil, err
	}
	outputs := []struct {
		name string
		data []byte
	}{
		{CleanedDataFile, []byte(agg.Cleaning.UpdatedData.Join())},
		{ModelInfoFile, info},
		{ModelScriptFile, []byte(agg.Model.Code)},
	}
	paths := make([]string, 0, len(outputs))
	for _, o := range outputs {
		p := filepath.Join(dir, o.name)
		if err := SafeWriteFile(p, o.data); err != nil {
			return paths, fmt.Errorf("write %s: %w", o.name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// WriteCSV writes ds as delimited text. Cells are not quoted.
func WriteCSV(path string, ds dataset.Dataset) error {
	return SafeWriteFile(path, []byte(ds.Join()))
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}
