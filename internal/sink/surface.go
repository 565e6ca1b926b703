// Package sink holds the host side of the engine: an in-memory render surface
// that remembers applied values, and apply sinks that fan updates out to logs,
// recorders and MQTT.
package sink

import (
	"sort"
	"strings"
	"sync"

	"github.com/Nareshtt/motion-dom-canvas/internal/resolve"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// Applier receives serialized property values. It has the same shape as
// motion.Sink.
type Applier interface {
	Apply(targetID string, property style.Property, value string)
}

// ElementSpec declares one render target on a Surface.
type ElementSpec struct {
	ID string `yaml:"id" json:"id"`
	// Classes is a space-separated list of active style tokens.
	Classes string `yaml:"classes,omitempty" json:"classes,omitempty"`
	// Computed holds environment values keyed by property name. Entries
	// override the values derived from Classes.
	Computed map[string]string `yaml:"computed,omitempty" json:"computed,omitempty"`
}

type element struct {
	classes  []string
	computed map[style.Property]string
	inline   map[style.Property]string
}

// Surface is an in-memory render target table. It implements
// resolve.Environment and Applier: values written through Apply are read
// back as inline values.
//
// Thread-safety: all methods are safe for concurrent use.
type Surface struct {
	mu       sync.RWMutex
	elements map[string]*element
}

// NewSurface creates a surface holding the given elements.
func NewSurface(specs ...ElementSpec) *Surface {
	s := &Surface{elements: make(map[string]*element)}
	for _, spec := range specs {
		s.Define(spec)
	}
	return s
}

// Define adds or replaces an element.
func (s *Surface) Define(spec ElementSpec) {
	el := &element{
		classes: strings.Fields(spec.Classes),
		inline:  make(map[style.Property]string),
	}
	el.computed = classValues(el.classes)
	for k, v := range spec.Computed {
		el.computed[style.Property(k)] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[spec.ID] = el
}

// classValues derives the values a host computes from active style tokens.
// Translate axes share one "x y" value and filter functions are joined, as
// they are when a stylesheet applies them. Tokens that do not parse are
// skipped.
func classValues(classes []string) map[style.Property]string {
	out := make(map[style.Property]string)
	var tx, ty float64
	var translated bool
	var filters []string
	for _, class := range classes {
		d, ok := style.Parse(class)
		if !ok {
			continue
		}
		q := resolve.End(d)
		switch d.Property {
		case style.Translate:
			translated = true
			if d.Axis() == "x" {
				tx = q.Scalar
			} else {
				ty = q.Scalar
			}
		case style.Filter:
			_, v := style.Format(d, q)
			filters = append(filters, v)
		default:
			p, v := style.Format(d, q)
			out[p] = v
		}
	}
	if translated {
		out[style.Translate] = style.FormatNumber(tx) + "px " + style.FormatNumber(ty) + "px"
	}
	if len(filters) > 0 {
		out[style.Filter] = strings.Join(filters, " ")
	}
	return out
}

// Element implements resolve.Environment.
func (s *Surface) Element(id string) (resolve.Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.elements[id]; !ok {
		return nil, false
	}
	return elementView{s: s, id: id}, true
}

// Apply records value as the inline value of property. Unknown ids are
// ignored.
func (s *Surface) Apply(id string, p style.Property, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.elements[id]; ok {
		el.inline[p] = value
	}
}

// Value returns the inline value of property on id.
func (s *Surface) Value(id string, p style.Property) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.elements[id]
	if !ok {
		return "", false
	}
	v, ok := el.inline[p]
	return v, ok
}

// Snapshot copies every inline value, keyed by element id then property.
func (s *Surface) Snapshot() map[string]map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string]string, len(s.elements))
	for id, el := range s.elements {
		if len(el.inline) == 0 {
			continue
		}
		m := make(map[string]string, len(el.inline))
		for p, v := range el.inline {
			m[string(p)] = v
		}
		out[id] = m
	}
	return out
}

// IDs returns the element ids in sorted order.
func (s *Surface) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.elements))
	for id := range s.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reset forgets every applied value, returning elements to their declared
// state. Replays call it before rebuilding a flow.
func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, el := range s.elements {
		clear(el.inline)
	}
}

type elementView struct {
	s  *Surface
	id string
}

func (v elementView) Inline(p style.Property) (string, bool) {
	return v.s.Value(v.id, p)
}

func (v elementView) Computed(p style.Property) (string, bool) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	el, ok := v.s.elements[v.id]
	if !ok {
		return "", false
	}
	val, ok := el.computed[p]
	return val, ok
}

func (v elementView) Classes() []string {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	el, ok := v.s.elements[v.id]
	if !ok {
		return nil
	}
	return append([]string(nil), el.classes...)
}
