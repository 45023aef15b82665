package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Dataset file names written by WriteDataset.
const (
	NodesFile     = "nodes.json"
	LotsFile      = "lots.json"
	MovementsFile = "movements.json"
)

// WriteDataset serializes the dataset into nodes.json, lots.json and
// movements.json under the provided directory.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name string
		data any
	}{
		{NodesFile, dataset.Nodes},
		{LotsFile, dataset.Lots},
		{MovementsFile, dataset.Movements},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(dir, f.name), f.data); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}
