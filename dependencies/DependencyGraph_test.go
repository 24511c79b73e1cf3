package dependencies

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyGraph_AddEdge(t *testing.T) {
	t.Run("single_edge", func(t *testing.T) {
		graph := NewDependencyGraph()

		added, err := graph.AddEdge("a", "b")
		assert.NoError(t, err)
		assert.True(t, added)
		assert.Equal(t, 1, graph.Size())

		hasDependents, _ := graph.HasDependents("a")
		hasDependees, _ := graph.HasDependees("b")
		assert.True(t, hasDependents)
		assert.True(t, hasDependees)

		dependents, _ := graph.Dependents("a")
		dependees, _ := graph.Dependees("b")
		assert.Equal(t, []string{"b"}, dependents)
		assert.Equal(t, []string{"a"}, dependees)
	})

	t.Run("duplicate_edge", func(t *testing.T) {
		graph := NewDependencyGraph()

		_, _ = graph.AddEdge("a", "b")
		added, err := graph.AddEdge("a", "b")

		assert.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, 1, graph.Size())
	})

	t.Run("self_loop", func(t *testing.T) {
		graph := NewDependencyGraph()

		_, err := graph.AddEdge("a", "a")
		assert.NoError(t, err)

		dependents, _ := graph.Dependents("a")
		dependees, _ := graph.Dependees("a")
		assert.Equal(t, []string{"a"}, dependents)
		assert.Equal(t, []string{"a"}, dependees)
		assert.Equal(t, 1, graph.Size())
	})
}

func TestDependencyGraph_RemoveEdge(t *testing.T) {
	graph := NewDependencyGraph()
	_, _ = graph.AddEdge("a", "b")
	_, _ = graph.AddEdge("a", "c")
	_, _ = graph.AddEdge("d", "c")

	removed, err := graph.RemoveEdge("a", "b")
	assert.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 2, graph.Size())

	hasDependees, _ := graph.HasDependees("b")
	assert.False(t, hasDependees)

	removed, err = graph.RemoveEdge("a", "b")
	assert.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, graph.Size())

	removed, _ = graph.RemoveEdge("unknown", "c")
	assert.False(t, removed)

	dependees, _ := graph.Dependees("c")
	assert.Equal(t, []string{"a", "d"}, dependees)

	_, _ = graph.RemoveEdge("a", "c")
	hasDependents, _ := graph.HasDependents("a")
	assert.False(t, hasDependents)
	assert.Equal(t, 1, graph.Size())
}

func TestDependencyGraph_Empty(t *testing.T) {
	graph := NewDependencyGraph()

	assert.Equal(t, 0, graph.Size())

	hasDependents, err := graph.HasDependents("a")
	assert.NoError(t, err)
	assert.False(t, hasDependents)

	dependents, err := graph.Dependents("a")
	assert.NoError(t, err)
	assert.Empty(t, dependents)

	dependees, err := graph.Dependees("a")
	assert.NoError(t, err)
	assert.Empty(t, dependees)
}

func TestDependencyGraph_SnapshotIsIndependent(t *testing.T) {
	graph := NewDependencyGraph()
	_, _ = graph.AddEdge("a", "b")

	dependents, _ := graph.Dependents("a")
	dependents[0] = "changed"

	actual, _ := graph.Dependents("a")
	assert.Equal(t, []string{"b"}, actual)
	assert.Equal(t, 1, graph.Size())
}

func TestDependencyGraph_ReplaceDependents(t *testing.T) {
	t.Run("replace_existing", func(t *testing.T) {
		graph := NewDependencyGraph()
		_, _ = graph.AddEdge("a", "b")
		_, _ = graph.AddEdge("a", "c")
		_, _ = graph.AddEdge("x", "c")

		err := graph.ReplaceDependents("a", []string{"d", "e", "d"})
		assert.NoError(t, err)

		dependents, _ := graph.Dependents("a")
		assert.Equal(t, []string{"d", "e"}, dependents)

		dependees, _ := graph.Dependees("c")
		assert.Equal(t, []string{"x"}, dependees)

		hasDependees, _ := graph.HasDependees("b")
		assert.False(t, hasDependees)
		assert.Equal(t, 3, graph.Size())
	})

	t.Run("replace_with_empty", func(t *testing.T) {
		graph := NewDependencyGraph()
		_, _ = graph.AddEdge("a", "b")

		assert.NoError(t, graph.ReplaceDependents("a", nil))

		hasDependents, _ := graph.HasDependents("a")
		assert.False(t, hasDependents)
		assert.Equal(t, 0, graph.Size())
	})

	t.Run("replace_on_unknown_key", func(t *testing.T) {
		graph := NewDependencyGraph()

		assert.NoError(t, graph.ReplaceDependents("a", []string{"b", "b", "b"}))

		dependents, _ := graph.Dependents("a")
		assert.Equal(t, []string{"b"}, dependents)
		assert.Equal(t, 1, graph.Size())
	})

	t.Run("replace_with_same_set", func(t *testing.T) {
		graph := NewDependencyGraph()
		_, _ = graph.AddEdge("a", "b")
		_, _ = graph.AddEdge("a", "c")

		assert.NoError(t, graph.ReplaceDependents("a", []string{"c", "b"}))

		dependents, _ := graph.Dependents("a")
		assert.Equal(t, []string{"b", "c"}, dependents)
		assert.Equal(t, 2, graph.Size())
	})
}

func TestDependencyGraph_ReplaceDependees(t *testing.T) {
	graph := NewDependencyGraph()
	_, _ = graph.AddEdge("a", "t")
	_, _ = graph.AddEdge("b", "t")
	_, _ = graph.AddEdge("b", "u")

	assert.NoError(t, graph.ReplaceDependees("t", []string{"c", "b"}))

	dependees, _ := graph.Dependees("t")
	assert.Equal(t, []string{"b", "c"}, dependees)

	hasDependents, _ := graph.HasDependents("a")
	assert.False(t, hasDependents)

	dependents, _ := graph.Dependents("b")
	assert.Equal(t, []string{"t", "u"}, dependents)
	assert.Equal(t, 3, graph.Size())

	assert.NoError(t, graph.ReplaceDependees("t", []string{}))
	assert.Equal(t, 1, graph.Size())
}

func TestDependencyGraph_InvalidKey(t *testing.T) {
	graph := NewDependencyGraph()
	_, _ = graph.AddEdge("a", "b")

	_, err := graph.AddEdge("", "b")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = graph.AddEdge("a", "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = graph.RemoveEdge("", "b")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = graph.HasDependents("")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = graph.HasDependees("")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = graph.Dependents("")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = graph.Dependees("")
	assert.ErrorIs(t, err, ErrInvalidKey)

	// no partial change when one of the new keys is invalid
	assert.ErrorIs(t, graph.ReplaceDependents("a", []string{"c", ""}), ErrInvalidKey)
	assert.ErrorIs(t, graph.ReplaceDependees("", []string{"c"}), ErrInvalidKey)

	dependents, _ := graph.Dependents("a")
	assert.Equal(t, []string{"b"}, dependents)
	assert.Equal(t, 1, graph.Size())
}

func TestDependencyGraph_Clone(t *testing.T) {
	graph := NewDependencyGraph()
	_, _ = graph.AddEdge("a", "b")
	_, _ = graph.AddEdge("a", "c")

	clone := graph.Clone()
	assert.Equal(t, 2, clone.Size())

	_, _ = clone.AddEdge("a", "d")
	_, _ = clone.RemoveEdge("a", "b")
	_ = clone.ReplaceDependees("c", []string{"z"})

	dependents, _ := graph.Dependents("a")
	assert.Equal(t, []string{"b", "c"}, dependents)
	assert.Equal(t, 2, graph.Size())

	_, _ = graph.AddEdge("q", "r")
	hasDependents, _ := clone.HasDependents("q")
	assert.False(t, hasDependents)
}

func TestDependencyGraph_SizeAfterAddAndRemove(t *testing.T) {
	graph := NewDependencyGraph()

	const n = 300
	for i := 0; i < n; i++ {
		_, _ = graph.AddEdge("s"+strconv.Itoa(i%17), "t"+strconv.Itoa(i))
	}
	require.Equal(t, n, graph.Size())

	removed := 0
	for i := 0; i < n; i += 3 {
		_, _ = graph.RemoveEdge("s"+strconv.Itoa(i%17), "t"+strconv.Itoa(i))
		removed++
	}
	assert.Equal(t, n-removed, graph.Size())
	assert.Equal(t, graph.Size(), _countEdges(graph))
}

// Mirrors a dense graph built, thinned and rewired, checked against a plain model.
func TestDependencyGraph_Stress(t *testing.T) {
	const size = 400

	graph := NewDependencyGraph()
	keys := make([]string, size)
	for i := range keys {
		keys[i] = "k" + strconv.Itoa(i)
	}

	dependents := make([]map[string]bool, size)
	dependees := make([]map[string]bool, size)
	index := map[string]int{}
	for i := range keys {
		dependents[i] = map[string]bool{}
		dependees[i] = map[string]bool{}
		index[keys[i]] = i
	}

	for i := 0; i < size; i++ {
		for j := i + 1; j < size; j++ {
			_, _ = graph.AddEdge(keys[i], keys[j])
			dependents[i][keys[j]] = true
			dependees[j][keys[i]] = true
		}
	}

	for i := 0; i < size; i++ {
		for j := i + 2; j < size; j += 3 {
			_, _ = graph.RemoveEdge(keys[i], keys[j])
			delete(dependents[i], keys[j])
			delete(dependees[j], keys[i])
		}
	}

	for i := 0; i < size; i += 2 {
		newDependees := make([]string, 0)
		for j := 0; j < size; j += 9 {
			newDependees = append(newDependees, keys[j])
		}
		require.NoError(t, graph.ReplaceDependees(keys[i], newDependees))

		for s := range dependees[i] {
			delete(dependents[index[s]], keys[i])
		}
		dependees[i] = map[string]bool{}
		for _, s := range newDependees {
			dependents[index[s]][keys[i]] = true
			dependees[i][s] = true
		}
	}

	clone := graph.Clone()
	expectedSize := 0
	for i := 0; i < size; i++ {
		expectedSize += len(dependents[i])

		actualDependents, _ := clone.Dependents(keys[i])
		actualDependees, _ := clone.Dependees(keys[i])
		assert.ElementsMatch(t, _keysOf(dependents[i]), actualDependents, keys[i])
		assert.ElementsMatch(t, _keysOf(dependees[i]), actualDependees, keys[i])
	}

	assert.Equal(t, expectedSize, graph.Size())
	assert.Equal(t, expectedSize, _countEdges(graph))
}

func _keysOf(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	return keys
}

func _countEdges(graph *DependencyGraph) int {
	count := 0
	for _, set := range graph.dependents {
		count += len(set)
	}

	reverse := 0
	for _, set := range graph.dependees {
		reverse += len(set)
	}

	if count != reverse {
		return -1
	}
	return count
}
