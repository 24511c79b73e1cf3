// Package dependencies keeps a set of ordered pairs (s, t) of string keys.
//
// For a pair (s, t), t is a dependent of s and s is a dependee of t. The graph
// knows nothing about cells or formulas; callers decide what an edge means.
package dependencies

import (
	"errors"
	"sort"
)

var ErrInvalidKey = errors.New("invalid key")

type keySet map[string]struct{}

// DependencyGraph stores every edge twice, once in each direction, so that
// neighbour queries for a key never scan the whole edge set.
//
// Neither index ever holds an empty set: a missing key means "no edges".
type DependencyGraph struct {
	dependents map[string]keySet
	dependees  map[string]keySet
	size       int
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		dependents: map[string]keySet{},
		dependees:  map[string]keySet{},
	}
}

// Clone returns a deep copy of g. Later changes to either graph are not
// visible in the other.
func (g *DependencyGraph) Clone() *DependencyGraph {
	clone := &DependencyGraph{
		dependents: cloneIndex(g.dependents),
		dependees:  cloneIndex(g.dependees),
		size:       g.size,
	}

	return clone
}

// Size is the number of distinct edges.
func (g *DependencyGraph) Size() int {
	return g.size
}

func (g *DependencyGraph) HasDependents(s string) (bool, error) {
	if s == "" {
		return false, ErrInvalidKey
	}

	_, ok := g.dependents[s]
	return ok, nil
}

func (g *DependencyGraph) HasDependees(t string) (bool, error) {
	if t == "" {
		return false, ErrInvalidKey
	}

	_, ok := g.dependees[t]
	return ok, nil
}

// Dependents returns a sorted snapshot of every t such that (s, t) is an edge.
func (g *DependencyGraph) Dependents(s string) ([]string, error) {
	if s == "" {
		return nil, ErrInvalidKey
	}

	return g.dependents[s].sorted(), nil
}

// Dependees returns a sorted snapshot of every s such that (s, t) is an edge.
func (g *DependencyGraph) Dependees(t string) ([]string, error) {
	if t == "" {
		return nil, ErrInvalidKey
	}

	return g.dependees[t].sorted(), nil
}

// AddEdge inserts (s, t) and reports whether the edge set grew.
func (g *DependencyGraph) AddEdge(s string, t string) (bool, error) {
	if s == "" || t == "" {
		return false, ErrInvalidKey
	}

	return g.addEdge(s, t), nil
}

// RemoveEdge deletes (s, t) and reports whether it was present.
func (g *DependencyGraph) RemoveEdge(s string, t string) (bool, error) {
	if s == "" || t == "" {
		return false, ErrInvalidKey
	}

	return g.removeEdge(s, t), nil
}

// ReplaceDependents removes every edge (s, *) and then adds (s, t) for each t
// in newDependents. Duplicates in newDependents collapse into a single edge.
func (g *DependencyGraph) ReplaceDependents(s string, newDependents []string) error {
	if s == "" || containsInvalidKey(newDependents) {
		return ErrInvalidKey
	}

	for t := range g.dependents[s] {
		g.removeEdge(s, t)
	}

	for _, t := range newDependents {
		g.addEdge(s, t)
	}

	return nil
}

// ReplaceDependees removes every edge (*, t) and then adds (s, t) for each s
// in newDependees.
func (g *DependencyGraph) ReplaceDependees(t string, newDependees []string) error {
	if t == "" || containsInvalidKey(newDependees) {
		return ErrInvalidKey
	}

	for s := range g.dependees[t] {
		g.removeEdge(s, t)
	}

	for _, s := range newDependees {
		g.addEdge(s, t)
	}

	return nil
}

func (g *DependencyGraph) addEdge(s string, t string) bool {
	if _, ok := g.dependents[s][t]; ok {
		return false
	}

	insert(g.dependents, s, t)
	insert(g.dependees, t, s)
	g.size++

	return true
}

func (g *DependencyGraph) removeEdge(s string, t string) bool {
	if _, ok := g.dependents[s][t]; !ok {
		return false
	}

	prune(g.dependents, s, t)
	prune(g.dependees, t, s)
	g.size--

	return true
}

func insert(index map[string]keySet, key string, value string) {
	set, ok := index[key]
	if !ok {
		set = keySet{}
		index[key] = set
	}

	set[value] = struct{}{}
}

// prune drops value from index[key] and removes the entry once it is empty.
func prune(index map[string]keySet, key string, value string) {
	set := index[key]
	delete(set, value)

	if len(set) == 0 {
		delete(index, key)
	}
}

func (set keySet) sorted() []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

func cloneIndex(index map[string]keySet) map[string]keySet {
	clone := make(map[string]keySet, len(index))
	for key, set := range index {
		copied := make(keySet, len(set))
		for value := range set {
			copied[value] = struct{}{}
		}
		clone[key] = copied
	}

	return clone
}

func containsInvalidKey(keys []string) bool {
	for _, key := range keys {
		if key == "" {
			return true
		}
	}

	return false
}
