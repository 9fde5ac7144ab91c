// Package overlays manages the catalog of named overlay assets (logo images
// and fonts) that effects refer to by name instead of by path.
package overlays

import (
	"fmt"
	"sort"

	"audioviz/pkg/util"
)

// Kind distinguishes asset categories.
type Kind string

const (
	Image Kind = "image"
	Font  Kind = "font"
)

// Asset is a named file on disk.
type Asset struct {
	Name string
	Path string
	Kind Kind
}

// Registry manages available overlay assets
type Registry struct {
	assets map[string]Asset
}

// NewRegistry creates a new asset registry
func NewRegistry() *Registry {
	return &Registry{
		assets: make(map[string]Asset),
	}
}

// Register adds an asset to the registry. The file must exist.
func (r *Registry) Register(name, path string, kind Kind) error {
	if !util.FileExists(path) {
		return fmt.Errorf("asset file not found: %s", path)
	}
	r.assets[name] = Asset{Name: name, Path: path, Kind: kind}
	return nil
}

// Get retrieves an asset by name
func (r *Registry) Get(name string) (Asset, bool) {
	a, ok := r.assets[name]
	return a, ok
}

// List returns all registered asset names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.assets))
	for name := range r.assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadMaps registers image and font assets from name→path maps, typically
// straight out of the config file. Missing files are reported as errors.
func (r *Registry) LoadMaps(images, fonts map[string]string) error {
	for name, path := range images {
		if err := r.Register(name, path, Image); err != nil {
			return err
		}
	}
	for name, path := range fonts {
		if err := r.Register(name, path, Font); err != nil {
			return err
		}
	}
	return nil
}
