package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
	"github.com/Nareshtt/motion-dom-canvas/internal/script"
)

// Scene source file names. A folder holding both uses the Go source.
const (
	GoSource   = "scene.go"
	YAMLSource = "scene.yaml"
)

// SourceKind says how a scene's flow is written.
type SourceKind string

const (
	SourceGo   SourceKind = "go"
	SourceYAML SourceKind = "yaml"
)

// Scene is a discovered scene folder.
type Scene struct {
	Folder
	Kind SourceKind `json:"kind"`
	// Path is the scene source file.
	Path string `json:"path"`
}

// Discover lists the scene folders under dir in scene order. Folders without
// a scene source are skipped; the rest must follow the numbering rules.
func Discover(dir string) ([]Scene, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenes: %w", err)
	}

	sources := make(map[string]Scene)
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		s, ok, err := sceneSource(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		sources[e.Name()] = s
		dirs = append(dirs, e.Name())
	}

	folders, err := Order(dirs)
	if err != nil {
		return nil, err
	}

	scenes := make([]Scene, len(folders))
	for i, f := range folders {
		s := sources[f.Dir]
		s.Folder = f
		scenes[i] = s
	}
	return scenes, nil
}

func sceneSource(folder string) (Scene, bool, error) {
	for _, c := range []struct {
		name string
		kind SourceKind
	}{{GoSource, SourceGo}, {YAMLSource, SourceYAML}} {
		path := filepath.Join(folder, c.name)
		_, err := os.Stat(path)
		if err == nil {
			return Scene{Kind: c.kind, Path: path}, true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Scene{}, false, fmt.Errorf("failed to stat scene source: %w", err)
		}
	}
	return Scene{}, false, nil
}

// ReadSource returns the scene's source text.
func (s Scene) ReadSource() ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", s.Dir, err)
	}
	return data, nil
}

// EstimateSource analyses scene source of the given kind. It never fails.
func EstimateSource(kind SourceKind, filename string, src []byte) analyzer.Estimate {
	switch kind {
	case SourceYAML:
		return script.Estimate(src)
	default:
		return analyzer.EstimateGo(filename, src)
	}
}
