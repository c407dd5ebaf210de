// Package cppcheck assembles the static-analyzer configuration: the
// suppression catalog and the compiler dialect probe.
package cppcheck

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed suppressions.yaml
var defaultCatalog []byte

// SuppressionEntry tells the analyzer to ignore one diagnostic class,
// optionally scoped to a single file.
type SuppressionEntry struct {
	Key  string `yaml:"key"`
	File string `yaml:"file,omitempty"`
}

// Catalog is the fixed set of suppression entries for a project
type Catalog struct {
	Suppressions []SuppressionEntry `yaml:"suppressions"`
}

// DefaultCatalog parses the embedded suppression catalog
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog override from a YAML file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path from validated config
	if err != nil {
		return nil, fmt.Errorf("failed to read suppression catalog: %w", err)
	}
	return parseCatalog(data)
}

// parseCatalog unmarshals and validates catalog YAML
func parseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse suppression catalog: %w", err)
	}
	for i, entry := range catalog.Suppressions {
		if entry.Key == "" {
			return nil, fmt.Errorf("suppression entry %d has an empty key", i+1)
		}
	}
	return &catalog, nil
}

// BuildArgs serializes the catalog to analyzer arguments. One
// unmatchedSuppression entry is generated per tracked source file so
// that catalog keys not applying to a particular file never trigger a
// meta-warning themselves. Serialization to the flag format happens
// only here, at the analyzer boundary.
func (c *Catalog) BuildArgs(trackedFiles []string) []string {
	args := make([]string, 0, len(c.Suppressions)+len(trackedFiles))
	for _, entry := range c.Suppressions {
		if entry.File != "" {
			args = append(args, fmt.Sprintf("--suppress=%s:%s", entry.Key, entry.File))
		} else {
			args = append(args, "--suppress="+entry.Key)
		}
	}
	for _, file := range trackedFiles {
		args = append(args, fmt.Sprintf("--suppress=unmatchedSuppression:%s", file))
	}
	return args
}
