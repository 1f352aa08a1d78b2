package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional YAML application manifest (conventionally
// nest.yaml), the file-based counterpart of Config for deployments that
// prefer declarative bootstrap settings.
//
//	name: orders
//	addr: 0.0.0.0:8080
//	discovery:
//	  baseDir: app
//	  patterns:
//	    - "**/*.go"
//	  strict: true
type Manifest struct {
	Name      string   `yaml:"name"`
	Addr      string   `yaml:"addr"`
	EnvFiles  []string `yaml:"envFiles"`
	Discovery struct {
		BaseDir  string   `yaml:"baseDir"`
		Patterns []string `yaml:"patterns"`
		Exclude  []string `yaml:"exclude"`
		Strict   bool     `yaml:"strict"`
	} `yaml:"discovery"`
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("app: parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// apply fills unset Config fields from the manifest. Explicit Config values
// win over manifest values.
func (m *Manifest) apply(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = m.Addr
	}
	if len(cfg.EnvFiles) == 0 {
		cfg.EnvFiles = m.EnvFiles
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = m.Discovery.BaseDir
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = m.Discovery.Patterns
	}
	if len(cfg.Exclude) == 0 {
		cfg.Exclude = m.Discovery.Exclude
	}
	if !cfg.Strict {
		cfg.Strict = m.Discovery.Strict
	}
}
