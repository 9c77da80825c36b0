// Package metadata exposes the tool's identity, baked into the binary from
// metadata.yml at build time.
package metadata

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed metadata.yml
var raw []byte

// Info describes the tool and the template it scaffolds from.
type Info struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	TemplateURL string `yaml:"template_url"`
}

var (
	once sync.Once
	info Info
)

// Get returns the embedded metadata, parsed once on first access.
func Get() Info {
	once.Do(func() {
		// Hard defaults in case the embedded file is damaged
		info = Info{
			Name:        "create-silica",
			Version:     "0.0.0-dev",
			Description: "Scaffold a new Silica Framework bot",
			TemplateURL: "https://github.com/cborac/Silica-Framework.git",
		}
		info = Parse(raw, info)
	})
	return info
}

// Parse overlays the YAML document data onto defaults. Unknown keys are
// ignored and a malformed document leaves defaults untouched.
func Parse(data []byte, defaults Info) Info {
	parsed := defaults
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return defaults
	}
	return parsed
}
