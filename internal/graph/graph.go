package graph

import (
	"github.com/avetrov/crosswalk/internal/model"
)

// Graph is the in-memory standards graph: every accreditor's standards in
// load order, addressable by accreditor code. Built once by the loader and
// treated as read-only after publication; reloads build a fresh graph and
// swap it in whole.
type Graph struct {
	order   []string
	entries map[string]*accreditorEntry
}

type accreditorEntry struct {
	info      model.AccreditorInfo
	index     map[string]int // standard id -> position in standards
	standards []model.Standard
}

// NewGraph creates an empty standards graph
func NewGraph() *Graph {
	return &Graph{
		entries: make(map[string]*accreditorEntry),
	}
}

// AddAccreditor registers an accreditor's metadata and all of its standards.
// Standards are added through AddStandardHierarchy so re-adding an accreditor
// replaces its entries in place.
func (g *Graph) AddAccreditor(acc model.Accreditor) {
	entry := g.entry(acc.Code)
	entry.info.Name = acc.Name
	entry.info.Version = acc.Version
	entry.info.Scope = acc.Scope

	for _, std := range acc.Standards {
		g.AddStandardHierarchy(acc.Code, std)
	}
}

// AddStandardHierarchy adds one standard (with its clauses) under an
// accreditor. Adding an id that already exists replaces the stored standard
// in place, keeping its original position.
func (g *Graph) AddStandardHierarchy(code string, std model.Standard) {
	entry := g.entry(code)
	if pos, ok := entry.index[std.ID]; ok {
		entry.standards[pos] = std
		return
	}
	entry.index[std.ID] = len(entry.standards)
	entry.standards = append(entry.standards, std)
	entry.info.StandardCount = len(entry.standards)
}

// entry returns the accreditor bucket, creating it on first use
func (g *Graph) entry(code string) *accreditorEntry {
	if e, ok := g.entries[code]; ok {
		return e
	}
	e := &accreditorEntry{
		info:  model.AccreditorInfo{Accreditor: code},
		index: make(map[string]int),
	}
	g.entries[code] = e
	g.order = append(g.order, code)
	return e
}

// AccreditorStandards returns the accreditor's standards in load order.
// Unknown codes yield an empty slice, never an error. The returned slice is
// a copy; nested fields are shared and must be treated as read-only.
func (g *Graph) AccreditorStandards(code string) []model.Standard {
	entry, ok := g.entries[code]
	if !ok {
		return []model.Standard{}
	}
	out := make([]model.Standard, len(entry.standards))
	copy(out, entry.standards)
	return out
}

// Standard looks up a single standard by its globally unique id
func (g *Graph) Standard(code, id string) (model.Standard, bool) {
	entry, ok := g.entries[code]
	if !ok {
		return model.Standard{}, false
	}
	pos, ok := entry.index[id]
	if !ok {
		return model.Standard{}, false
	}
	return entry.standards[pos], true
}

// Accreditors returns the accreditor codes in load order
func (g *Graph) Accreditors() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Metadata returns per-accreditor metadata. StandardCount always equals the
// number of standards AccreditorStandards returns for that code.
func (g *Graph) Metadata() map[string]model.AccreditorInfo {
	out := make(map[string]model.AccreditorInfo, len(g.entries))
	for code, entry := range g.entries {
		out[code] = entry.info
	}
	return out
}

// StandardCount returns the total number of standards across all accreditors
func (g *Graph) StandardCount() int {
	total := 0
	for _, entry := range g.entries {
		total += len(entry.standards)
	}
	return total
}
