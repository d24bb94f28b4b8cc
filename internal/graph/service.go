package graph

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/avetrov/crosswalk/internal/cache"
	"github.com/avetrov/crosswalk/internal/corpus"
	"github.com/avetrov/crosswalk/internal/model"
)

// matchCacheTTL bounds how long memoized match results live. Entries are
// keyed by graph generation, so a reload makes them unreachable immediately;
// the TTL just keeps the cache from accumulating dead generations.
const matchCacheTTL = 15 * time.Minute

// MatchFinder finds cross-accreditor equivalences on a graph snapshot
type MatchFinder interface {
	FindMatches(g *Graph, source, target string, threshold float64, topK int) []model.MatchResult
}

// ScopeFunc classifies an accreditor code into a scope
type ScopeFunc func(code string) model.Scope

// Service owns the published standards graph. Readers always see a complete
// graph: Load and Reload build a new one off to the side and swap the
// pointer under the write lock.
type Service struct {
	mu         sync.RWMutex
	graph      *Graph
	generation uint64

	dir        string
	loader     *corpus.Loader
	scope      ScopeFunc
	finder     MatchFinder
	matchCache cache.Cache // nil disables memoization
}

// NewService creates a graph service over the given corpus directory. The
// scope func and match cache may be nil.
func NewService(dir string, loader *corpus.Loader, scope ScopeFunc, finder MatchFinder, matchCache cache.Cache) *Service {
	return &Service{
		graph:      NewGraph(),
		dir:        dir,
		loader:     loader,
		scope:      scope,
		finder:     finder,
		matchCache: matchCache,
	}
}

// Load builds the graph from the corpus directory and publishes it. Per-file
// failures are reported in the result, not as the error; the error is
// reserved for an unreadable directory.
func (s *Service) Load() (*corpus.LoadResult, error) {
	return s.Reload()
}

// Reload rebuilds the graph from disk and swaps it in atomically. When every
// definition file fails the previous graph keeps serving; the result still
// carries the errors so callers can report them.
func (s *Service) Reload() (*corpus.LoadResult, error) {
	result, err := s.loader.LoadDir(s.dir)
	if err != nil {
		return nil, err
	}

	// All files broken means a corpus mid-edit, not an empty corpus. Keep
	// the previous graph serving.
	if len(result.Accreditors) == 0 && len(result.Errors) > 0 {
		return result, fmt.Errorf("no accreditors loaded from %s (%d failed)", s.dir, len(result.Errors))
	}

	next := NewGraph()
	for _, acc := range result.Accreditors {
		if s.scope != nil && acc.Scope == "" {
			acc.Scope = s.scope(acc.Code)
		}
		next.AddAccreditor(acc)
	}

	s.mu.Lock()
	s.graph = next
	s.generation++
	s.mu.Unlock()

	return result, nil
}

// Graph returns the current published graph. The graph is read-only; hold no
// lock while using it.
func (s *Service) Graph() *Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// Generation returns the publish counter. It increases on every successful
// load or reload.
func (s *Service) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// snapshot returns the current graph and its generation in one read
func (s *Service) snapshot() (*Graph, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph, s.generation
}

// Accreditors returns the loaded accreditor codes in load order
func (s *Service) Accreditors() []string {
	return s.Graph().Accreditors()
}

// Metadata returns per-accreditor metadata for the current graph
func (s *Service) Metadata() map[string]model.AccreditorInfo {
	return s.Graph().Metadata()
}

// AccreditorStandards returns a copy of the accreditor's standards in load
// order, empty for unknown codes
func (s *Service) AccreditorStandards(code string) []model.Standard {
	return s.Graph().AccreditorStandards(code)
}

// FindCrossAccreditorMatches runs the matcher against the current graph,
// memoizing results per (generation, source, target, threshold, topK) so
// repeated queries are free until the next reload.
func (s *Service) FindCrossAccreditorMatches(source, target string, threshold float64, topK int) []model.MatchResult {
	g, gen := s.snapshot()

	var key string
	if s.matchCache != nil {
		key = cache.Key("match",
			strconv.FormatUint(gen, 10),
			source, target,
			strconv.FormatFloat(threshold, 'f', -1, 64),
			strconv.Itoa(topK),
		)
		if data, ok := s.matchCache.Get(key); ok {
			var cached []model.MatchResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached
			}
		}
	}

	results := s.finder.FindMatches(g, source, target, threshold, topK)

	if s.matchCache != nil {
		if data, err := json.Marshal(results); err == nil {
			_ = s.matchCache.Set(key, data, matchCacheTTL)
		}
	}

	return results
}
