package project

import (
	"fmt"
	"path/filepath"
)

// Project is a loaded project directory.
type Project struct {
	Root   string
	Config Config
	Scenes []Scene
}

// Open loads the configuration under root and discovers its scenes.
func Open(root string) (*Project, error) {
	cfg, err := LoadConfig(filepath.Join(root, ConfigFile))
	if err != nil {
		return nil, err
	}
	scenes, err := Discover(filepath.Join(root, cfg.Scenes))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", root, err)
	}
	return &Project{Root: root, Config: cfg, Scenes: scenes}, nil
}

// DatabasePath returns the store path, resolved against the project root.
func (p *Project) DatabasePath() string {
	if p.Config.Database == "" || filepath.IsAbs(p.Config.Database) {
		return p.Config.Database
	}
	return filepath.Join(p.Root, p.Config.Database)
}

// Find returns the scene with the given name or folder name.
func (p *Project) Find(name string) (Scene, bool) {
	for _, s := range p.Scenes {
		if s.Name == name || s.Dir == name {
			return s, true
		}
	}
	return Scene{}, false
}

// Names returns the scene names in order.
func (p *Project) Names() []string {
	names := make([]string, len(p.Scenes))
	for i, s := range p.Scenes {
		names[i] = s.Name
	}
	return names
}
