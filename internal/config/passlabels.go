package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// defaultPassLabels is materialized when no stored configuration exists.
var defaultPassLabels = []string{"Cap_On"}

type passLabelsFile struct {
	PassLabels []string `json:"pass_labels"`
}

// LoadPassLabels reads the set of labels considered "good" from the
// JSON store at path. When the file does not exist the default set is
// written out and returned. The set is immutable for the process
// lifetime; changing it requires a restart.
func LoadPassLabels(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return writeDefaultPassLabels(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pass labels config: %w", err)
	}

	var cfg passLabelsFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse pass labels config: %w", err)
	}

	return toSet(cfg.PassLabels), nil
}

func writeDefaultPassLabels(path string) (map[string]struct{}, error) {
	data, err := json.MarshalIndent(passLabelsFile{PassLabels: defaultPassLabels}, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode default pass labels: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write default pass labels config: %w", err)
	}

	return toSet(defaultPassLabels), nil
}

func toSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		set[label] = struct{}{}
	}
	return set
}
