package version

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed manifests/*.yaml
var manifestFS embed.FS

// Manifest declares, per record type, the minimum release that supports
// it. The exporter consults the manifest for its type-level gate; record
// types missing from the manifest are assumed available everywhere.
type Manifest struct {
	Description string             `yaml:"description"`
	Types       map[string]Release `yaml:"types"`
}

var (
	manifestMu sync.RWMutex
	manifest   *Manifest
)

// LoadManifest loads the embedded release capability manifest. The
// manifest is parsed once and cached for the process lifetime.
func LoadManifest() (*Manifest, error) {
	manifestMu.RLock()
	if manifest != nil {
		defer manifestMu.RUnlock()
		return manifest, nil
	}
	manifestMu.RUnlock()

	data, err := manifestFS.ReadFile("manifests/releases.yaml")
	if err != nil {
		return nil, fmt.Errorf("release manifest not found: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing release manifest: %w", err)
	}
	for typ, rel := range m.Types {
		if !rel.Valid() {
			return nil, fmt.Errorf("release manifest: type %s has unknown release %q", typ, rel)
		}
	}

	manifestMu.Lock()
	manifest = &m
	manifestMu.Unlock()
	return &m, nil
}

// SupportsType reports whether the record type exists at the release.
func (m *Manifest) SupportsType(typ string, r Release) bool {
	min, ok := m.Types[typ]
	if !ok {
		return true
	}
	return r.AtLeast(min)
}

// MinRelease returns the minimum release for a record type and whether
// the manifest pins one.
func (m *Manifest) MinRelease(typ string) (Release, bool) {
	min, ok := m.Types[typ]
	return min, ok
}

// GatedTypes returns the record types the manifest pins, sorted.
func (m *Manifest) GatedTypes() []string {
	out := make([]string, 0, len(m.Types))
	for typ := range m.Types {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}
