package sprite

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed samples/*.yaml
var samplesFS embed.FS

// fileSpec is the on-disk layout of a sprite document. Frames/Duration expand
// into Durations when no explicit per-frame list is given.
type fileSpec struct {
	Name     string `yaml:"name"`
	Frames   int    `yaml:"frames"`
	Duration int    `yaml:"duration"`
	Sprite   `yaml:",inline"`
}

// Parse decodes a YAML sprite document.
func Parse(name string, data []byte) (*Document, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("sprite: unmarshal %s: %w", name, err)
	}

	s := spec.Sprite
	if len(s.Durations) == 0 && spec.Frames > 0 {
		d := spec.Duration
		if d <= 0 {
			d = DefaultFrameDuration
		}
		s.Durations = make([]int, spec.Frames)
		for i := range s.Durations {
			s.Durations[i] = d
		}
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("sprite: parse %s: %w", name, err)
	}

	docName := spec.Name
	if docName == "" {
		docName = strings.TrimSuffix(path.Base(filepath.ToSlash(name)), path.Ext(name))
	}
	return NewDocument(docName, &s), nil
}

// Load reads a sprite document from disk.
func Load(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("sprite: load %s: %w", filename, err)
	}
	doc, err := Parse(filename, data)
	if err != nil {
		return nil, err
	}
	doc.Path = filename
	return doc, nil
}

// LoadSample opens one of the embedded sample documents by base name.
func LoadSample(name string) (*Document, error) {
	clean := strings.TrimSuffix(name, ".yaml") + ".yaml"
	data, err := fs.ReadFile(samplesFS, path.Join("samples", clean))
	if err != nil {
		return nil, fmt.Errorf("sprite: load sample %s: %w", name, err)
	}
	return Parse(clean, data)
}

// Samples lists the embedded sample names without extension.
func Samples() []string {
	entries, err := fs.ReadDir(samplesFS, "samples")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
