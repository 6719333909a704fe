package reconcile

import (
	"sort"

	"github.com/alturath/hr-audit/internal/pkg/namekey"
)

// Directory links display names to employee IDs seen anywhere in a run, so
// that name-only sources can join ID-carrying ones. It never guesses: a name
// shared by several IDs stays unresolved and is reported as ambiguous.
type Directory struct {
	idsByName map[string]map[string]struct{}
	display   map[string]string
	names     map[string]string
	ambiguous map[string]struct{}
}

func NewDirectory() *Directory {
	return &Directory{
		idsByName: make(map[string]map[string]struct{}),
		display:   make(map[string]string),
		names:     make(map[string]string),
		ambiguous: make(map[string]struct{}),
	}
}

// Add records that id is known under name. Either may be empty.
func (d *Directory) Add(id, name string) {
	folded := namekey.Fold(name)
	if id == "" || folded == "" {
		return
	}
	ids, ok := d.idsByName[folded]
	if !ok {
		ids = make(map[string]struct{})
		d.idsByName[folded] = ids
		d.display[folded] = name
	}
	ids[id] = struct{}{}
	if _, ok := d.names[id]; !ok {
		d.names[id] = name
	}
}

// Resolve returns the ID for an observation. An empty ID is filled in only
// when exactly one ID carries the folded name.
func (d *Directory) Resolve(id, name string) string {
	if id != "" {
		return id
	}
	folded := namekey.Fold(name)
	ids := d.idsByName[folded]
	switch len(ids) {
	case 0:
		return ""
	case 1:
		for only := range ids {
			return only
		}
	}
	d.ambiguous[folded] = struct{}{}
	return ""
}

// Name returns the first display name recorded for id.
func (d *Directory) Name(id string) string {
	return d.names[id]
}

// Ambiguous lists the display names that matched more than one ID.
func (d *Directory) Ambiguous() []string {
	out := make([]string, 0, len(d.ambiguous))
	for folded := range d.ambiguous {
		out = append(out, d.display[folded])
	}
	sort.Strings(out)
	return out
}
