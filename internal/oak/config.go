// Package oak models the boundary the interpreter core shares with the
// Oak package manager (§6 "Package manager protocol"). Oak's CLI,
// config persistence, registry backend, and semver resolver are out of
// scope (§1); this package only carries the three items a collaborator
// hands the core before evaluation starts: search paths, an alias map,
// and a dependency package set.
package oak

import (
	"github.com/goccy/go-yaml"
)

// Package names one resolved dependency Oak has already fetched.
type Package struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Path    string `yaml:"path"`
}

// Config is the fully-loaded configuration the core receives. The core
// never parses an oak.yaml file itself; a collaborator decodes it and
// hands over this struct.
type Config struct {
	SearchPaths []string          `yaml:"searchPaths"`
	Aliases     map[string]string `yaml:"aliases"`
	Packages    []Package         `yaml:"packages"`
}

// DecodeConfig parses raw YAML into a Config. It performs no file I/O
// and no registry/semver resolution — those belong to the Oak CLI.
func DecodeConfig(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Encode renders cfg back to YAML, mainly useful for tests asserting a
// round trip.
func (c *Config) Encode() ([]byte, error) {
	return yaml.Marshal(c)
}

// PackagePaths returns each dependency package's Path, in declaration
// order, ready to append to a module loader's search paths.
func (c *Config) PackagePaths() []string {
	paths := make([]string, len(c.Packages))
	for i, p := range c.Packages {
		paths[i] = p.Path
	}
	return paths
}
