package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// ManifestFile is the name of the package manifest
const ManifestFile = "package.json"

const defaultMain = "index.js"

// TemplateManifest holds the fields of the template's package.json that
// carry over into the new project. Values are kept as raw JSON so they are
// copied exactly as the template wrote them.
type TemplateManifest struct {
	Main            string          `json:"main"`
	Dependencies    json.RawMessage `json:"dependencies"`
	DevDependencies json.RawMessage `json:"devDependencies"`
	Engines         json.RawMessage `json:"engines"`
	Scripts         json.RawMessage `json:"scripts"`
}

// Manifest is the package.json written for a new project. The field order
// here is the order in the written file.
type Manifest struct {
	Name            string          `json:"name"`
	Version         string          `json:"version"`
	Description     string          `json:"description"`
	Author          string          `json:"author"`
	License         string          `json:"license"`
	Main            string          `json:"main"`
	Dependencies    json.RawMessage `json:"dependencies"`
	DevDependencies json.RawMessage `json:"devDependencies"`
	Engines         json.RawMessage `json:"engines"`
	Scripts         json.RawMessage `json:"scripts"`
}

// ManifestDefaults are the values every new manifest starts with
type ManifestDefaults struct {
	Version     string
	Description string
	Author      string
	License     string
}

// ReadTemplateManifest reads and parses the manifest at path
func ReadTemplateManifest(path string) (*TemplateManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var tm TemplateManifest
	if err := json.Unmarshal(data, &tm); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &tm, nil
}

// BuildManifest creates the manifest of a project called name from the
// template's manifest. Everything else the template declared is dropped.
func BuildManifest(name string, tm *TemplateManifest, defaults ManifestDefaults) Manifest {
	main := tm.Main
	if main == "" {
		main = defaultMain
	}

	return Manifest{
		Name:            name,
		Version:         defaults.Version,
		Description:     defaults.Description,
		Author:          defaults.Author,
		License:         defaults.License,
		Main:            main,
		Dependencies:    objectOrEmpty(tm.Dependencies),
		DevDependencies: objectOrEmpty(tm.DevDependencies),
		Engines:         objectOrEmpty(tm.Engines),
		Scripts:         objectOrEmpty(tm.Scripts),
	}
}

// WriteManifest writes m to path as two-space indented JSON, replacing any
// existing file.
func WriteManifest(path string, m Manifest) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// objectOrEmpty returns raw unless it is absent or null
func objectOrEmpty(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}
	return raw
}
