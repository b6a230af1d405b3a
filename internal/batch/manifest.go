package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one scene in the output manifest.
type ManifestEntry struct {
	Name      string `json:"name"`
	Curve     string `json:"curve"`
	Image     string `json:"image,omitempty"`
	Vertices  int    `json:"vertices"`
	Triangles int    `json:"triangles"`
	Error     string `json:"error,omitempty"`
}

// WriteManifest writes the per-scene results as indented JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:      r.Name,
			Curve:     r.Curve,
			Image:     r.Image,
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
			Error:     r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write manifest: %w", err)
	}
	return nil
}
