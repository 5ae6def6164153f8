package transformer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// ConfigFile is the Hugging Face model config inside the transformer model directory
const ConfigFile = "config.json"

// ModelConfig is the subset of a Hugging Face config.json the service needs
type ModelConfig struct {
	ModelType             string            `json:"model_type"`
	ID2Label              map[string]string `json:"id2label"`
	MaxPositionEmbeddings int               `json:"max_position_embeddings"`
}

// LoadModelConfig reads and validates config.json from dir
func LoadModelConfig(dir string) (*ModelConfig, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("model directory not found at %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("model path %s is not a directory", dir)
	}

	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var cfg ModelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ConfigFile, err)
	}

	if len(cfg.ID2Label) == 0 {
		return nil, fmt.Errorf("%s has no id2label mapping", ConfigFile)
	}
	for id := range cfg.ID2Label {
		if n, err := strconv.Atoi(id); err != nil || strconv.Itoa(n) != id {
			return nil, fmt.Errorf("%s: invalid label id %q", ConfigFile, id)
		}
	}

	return &cfg, nil
}

// Labels returns the label names ordered by label id
func (c *ModelConfig) Labels() []string {
	ids := make([]int, 0, len(c.ID2Label))
	for id := range c.ID2Label {
		n, _ := strconv.Atoi(id)
		ids = append(ids, n)
	}
	sort.Ints(ids)

	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = c.ID2Label[strconv.Itoa(id)]
	}
	return labels
}
