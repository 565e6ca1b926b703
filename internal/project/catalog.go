package project

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Nareshtt/motion-dom-canvas/internal/motion"
	"github.com/Nareshtt/motion-dom-canvas/internal/script"
	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
)

// Entry is a runnable scene: its flow and the elements it animates.
type Entry struct {
	Scene    motion.SceneFunc
	Elements []sink.ElementSpec
}

// Catalog holds the Go scenes compiled into the binary, keyed by scene name.
// YAML scenes are read from disk instead.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Register adds a Go scene. Registering a name twice or a nil scene panics.
func (c *Catalog) Register(name string, e Entry) {
	if e.Scene == nil {
		panic(fmt.Sprintf("project: Register %q: nil scene", name))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.entries[name]; dup {
		panic(fmt.Sprintf("project: Register %q: already registered", name))
	}
	c.entries[name] = e
}

// Lookup returns the Go scene registered under name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

// Names returns the registered scene names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Suggest returns registered names close to name, best match first.
func (c *Catalog) Suggest(name string) []string {
	ranks := fuzzy.RankFindFold(name, c.Names())
	sort.Sort(ranks)
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

// Resolve returns the runnable entry for a discovered scene. YAML scenes
// are parsed from disk; Go scenes must be registered under the folder name.
func (c *Catalog) Resolve(s Scene) (Entry, error) {
	if s.Kind == SourceYAML {
		sc, err := script.ParseFile(s.Path)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Scene: sc.Scene(), Elements: sc.Elements}, nil
	}

	if e, ok := c.Lookup(s.Name); ok {
		return e, nil
	}
	if hints := c.Suggest(s.Name); len(hints) > 0 {
		return Entry{}, fmt.Errorf("scene %q is not compiled in (did you mean %q?)", s.Name, hints[0])
	}
	return Entry{}, fmt.Errorf("scene %q is not compiled in", s.Name)
}
