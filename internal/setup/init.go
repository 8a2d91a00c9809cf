// Package setup initializes the assistant's data directory.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/guilhermexp/lifebetter/internal/model"
	"github.com/guilhermexp/lifebetter/internal/yamlutil"
)

const dataDirName = ".lifebetter"

// configFile is config.yaml plus the schema header carried by every data
// file in the directory.
type configFile struct {
	SchemaVersion int    `yaml:"schema_version"`
	FileType      string `yaml:"file_type"`
	Created       string `yaml:"created"`
	model.Config  `yaml:",inline"`
}

// Run creates the .lifebetter/ directory under baseDir with a default
// config and an empty task store.
func Run(baseDir string) (string, error) {
	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve base dir: %w", err)
	}

	base := filepath.Join(absDir, dataDirName)
	if _, err := os.Stat(base); err == nil {
		return "", fmt.Errorf("%s already exists", base)
	}

	for _, d := range []string{"locks", "logs", "quarantine"} {
		if err := os.MkdirAll(filepath.Join(base, d), 0755); err != nil {
			return "", fmt.Errorf("create directory %s: %w", d, err)
		}
	}

	cfg := configFile{
		SchemaVersion: yamlutil.CurrentSchemaVersion,
		FileType:      yamlutil.FileTypeConfig,
		Created:       time.Now().Format(time.RFC3339),
		Config:        model.DefaultConfig(),
	}
	if err := yamlutil.AtomicWrite(filepath.Join(base, "config.yaml"), cfg); err != nil {
		return "", fmt.Errorf("write config.yaml: %w", err)
	}

	if err := yamlutil.GenerateSkeleton(filepath.Join(base, cfg.Store.Path), yamlutil.FileTypeTaskStore); err != nil {
		return "", fmt.Errorf("write task store: %w", err)
	}

	return base, nil
}

// FindDataDir searches for .lifebetter/ in dir and its ancestors,
// returning "" when none exists.
func FindDataDir(dir string) string {
	for {
		candidate := filepath.Join(dir, dataDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadConfig reads config.yaml from the data directory and fills in
// defaults for anything unset.
func LoadConfig(dataDir string) (model.Config, error) {
	path := filepath.Join(dataDir, "config.yaml")
	if err := yamlutil.ValidateSchemaHeader(path, yamlutil.FileTypeConfig); err != nil {
		return model.Config{}, fmt.Errorf("config.yaml: %w", err)
	}
	var cf configFile
	if err := yamlutil.ReadInto(path, &cf); err != nil {
		return model.Config{}, err
	}
	cfg := cf.Config
	cfg.ApplyDefaults()
	return cfg, nil
}
