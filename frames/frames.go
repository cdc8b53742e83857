// Package frames holds the per-version catalog of ID3v2 frame identifiers.
package frames

import (
	"fmt"
	"sync"
)

// Version is the ID3v2 major version a catalog belongs to
type Version byte

const (
	V22 Version = 2
	V23 Version = 3
	V24 Version = 4
)

func (v Version) String() string {
	switch v {
	case V22, V23, V24:
		return fmt.Sprintf("ID3v2.%d", byte(v))
	}
	return fmt.Sprintf("ID3v2.?(%d)", byte(v))
}

// Valid reports whether v is a version this package has a catalog for
func (v Version) Valid() bool {
	return v == V22 || v == V23 || v == V24
}

// IDLength is the length of a frame identifier in this version
func (v Version) IDLength() int {
	if v == V22 {
		return 3
	}
	return 4
}

// Descriptor describes one frame identifier
type Descriptor struct {
	ID                 string
	Description        string
	Multiple           bool
	DiscardOnFileAlter bool
}

// Registry is an immutable lookup table for one tag version
type Registry struct {
	version Version
	byID    map[string]Descriptor
	order   []string
}

type entry struct {
	id          string
	description string
}

func newRegistry(v Version, entries []entry, multiple, discard []string) *Registry {
	r := &Registry{
		version: v,
		byID:    make(map[string]Descriptor, len(entries)),
		order:   make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		r.byID[e.id] = Descriptor{ID: e.id, Description: e.description}
		r.order = append(r.order, e.id)
	}
	for _, id := range multiple {
		d := r.byID[id]
		d.Multiple = true
		r.byID[id] = d
	}
	for _, id := range discard {
		d := r.byID[id]
		d.DiscardOnFileAlter = true
		r.byID[id] = d
	}
	return r
}

var (
	once       sync.Once
	registries map[Version]*Registry
)

func load() {
	registries = map[Version]*Registry{
		V22: newRegistry(V22, v22Entries, v22Multiple, v22Discard),
		V23: newRegistry(V23, v23Entries, v23Multiple, v23Discard),
		V24: newRegistry(V24, v24Entries, v24Multiple, v24Discard),
	}
}

// For returns the registry of version v, or nil for an unknown version.
// Registries are built on first use and never modified afterwards.
func For(v Version) *Registry {
	once.Do(load)
	return registries[v]
}

func (r *Registry) Version() Version { return r.version }

func (r *Registry) Lookup(id string) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Description returns the human readable name of id, empty when unknown
func (r *Registry) Description(id string) string {
	return r.byID[id].Description
}

func (r *Registry) IsMultipleAllowed(id string) bool {
	return r.byID[id].Multiple
}

func (r *Registry) IsDiscardOnFileAlter(id string) bool {
	return r.byID[id].DiscardOnFileAlter
}

// IDs returns the catalog in declaration order
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// MultipleAllowed reports whether any version allows more than one frame with id.
func MultipleAllowed(id string) bool {
	for _, v := range []Version{V22, V23, V24} {
		if For(v).IsMultipleAllowed(id) {
			return true
		}
	}
	return false
}

// IsValidID reports whether id has the shape of a frame identifier for v:
// the right length and only upper case letters and digits.
func IsValidID(v Version, id string) bool {
	if len(id) != v.IDLength() {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
