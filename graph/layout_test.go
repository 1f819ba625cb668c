package graph

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, k Kind) Node {
	return Node{ID: id, Type: k}
}

func edge(source, target string) Edge {
	return Edge{ID: EdgeID(source, target), Source: source, Target: target}
}

func positions(nodes []Node) map[string]Position {
	res := make(map[string]Position, len(nodes))
	for _, n := range nodes {
		res[n.ID] = n.Position
	}

	return res
}

func TestApplyTreeLayout_Centering(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
		want  map[string]Position
	}{
		{
			name: "children span wider than the parent",
			nodes: []Node{
				node("billing-A", KindBillingAccount),
				node("project-a", KindProject),
				node("project-b", KindProject),
			},
			edges: []Edge{edge("billing-A", "project-a"), edge("billing-A", "project-b")},
			want: map[string]Position{
				// span = 280 + 40 + 280 = 600, parent centered over it
				"billing-A": {X: 40 + (600-260)/2, Y: 40},
				"project-a": {X: 40, Y: 208},
				"project-b": {X: 360, Y: 208},
			},
		},
		{
			name: "parent wider than its only child",
			nodes: []Node{
				node("project-a", KindProject),
				node("apikey-k", KindAPIKey),
			},
			edges: []Edge{edge("project-a", "apikey-k")},
			want: map[string]Position{
				"project-a": {X: 40, Y: 40},
				"apikey-k":  {X: 70, Y: 252},
			},
		},
		{
			name: "descendants shift with a narrow child",
			nodes: []Node{
				node("project-a", KindProject),
				node("service-a-x", KindService),
				node("other", "unknown"),
			},
			edges: []Edge{edge("project-a", "service-a-x"), edge("service-a-x", "other")},
			want: map[string]Position{
				"project-a":   {X: 40, Y: 40},
				"service-a-x": {X: 80, Y: 252},
				"other":       {X: 80, Y: 396},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := positions(ApplyTreeLayout(tt.nodes, tt.edges))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ApplyTreeLayout() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// fanOut builds billing -> projects -> keys with the given branching.
func fanOut(branching int) ([]Node, []Edge) {
	nodes := []Node{node("billing-A", KindBillingAccount)}

	var edges []Edge

	for p := 0; p < branching; p++ {
		pid := fmt.Sprintf("project-%d", p)
		nodes = append(nodes, node(pid, KindProject))
		edges = append(edges, edge("billing-A", pid))

		for k := 0; k < branching; k++ {
			kid := fmt.Sprintf("apikey-%d-%d", p, k)
			nodes = append(nodes, node(kid, KindAPIKey))
			edges = append(edges, edge(pid, kid))
		}
	}

	return nodes, edges
}

// subtreeBounds returns the horizontal extent of id and everything below it.
func subtreeBounds(id string, pos map[string]Node, children map[string][]string) (float64, float64) {
	n := pos[id]
	lo, hi := n.Position.X, n.Position.X+SizeOf(n.Type).Width

	for _, c := range children[id] {
		clo, chi := subtreeBounds(c, pos, children)
		if clo < lo {
			lo = clo
		}

		if chi > hi {
			hi = chi
		}
	}

	return lo, hi
}

func TestApplyTreeLayout_SiblingsNeverOverlap(t *testing.T) {
	for _, branching := range []int{2, 3, 5} {
		t.Run(fmt.Sprintf("branching %d", branching), func(t *testing.T) {
			nodes, edges := fanOut(branching)
			laid := ApplyTreeLayout(nodes, edges)

			byID := make(map[string]Node)
			for _, n := range laid {
				byID[n.ID] = n
			}

			children := make(map[string][]string)
			for _, e := range edges {
				children[e.Source] = append(children[e.Source], e.Target)
			}

			for parent, kids := range children {
				for i := 1; i < len(kids); i++ {
					_, prevHi := subtreeBounds(kids[i-1], byID, children)
					lo, _ := subtreeBounds(kids[i], byID, children)
					assert.LessOrEqual(t, prevHi, lo, "siblings under %s overlap", parent)
				}

				// parent centered over the children's span
				firstLo, _ := subtreeBounds(kids[0], byID, children)
				_, lastHi := subtreeBounds(kids[len(kids)-1], byID, children)
				p := byID[parent]
				assert.InDelta(t, (firstLo+lastHi)/2, p.Position.X+SizeOf(p.Type).Width/2, 1e-9)
			}
		})
	}
}

func TestApplyTreeLayout_Deterministic(t *testing.T) {
	nodes, edges := fanOut(4)
	nodes = append(nodes, node("billing-Z", KindBillingAccount), node("project-lonely", KindProject))

	first := ApplyTreeLayout(nodes, edges)
	second := ApplyTreeLayout(nodes, edges)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("layout is not deterministic (-first +second):\n%s", diff)
	}

	for _, n := range nodes {
		assert.Equal(t, Position{}, n.Position, "input nodes are not modified")
	}
}

func TestApplyTreeLayout_RootOrderAndOrphans(t *testing.T) {
	nodes := []Node{
		node("project-z", KindProject),
		node("apikey-z", KindAPIKey),
		node("billing-B", KindBillingAccount),
		node("project-b", KindProject),
		node("billing-A", KindBillingAccount),
		node("project-a", KindProject),
		node("billing-orphan", KindBillingAccount),
		node("project-orphan-1", KindProject),
		node("project-orphan-2", KindProject),
		node("project-orphan-3", KindProject),
	}
	edges := []Edge{
		edge("project-z", "apikey-z"),
		edge("billing-B", "project-b"),
		edge("billing-A", "project-a"),
	}

	got := positions(ApplyTreeLayout(nodes, edges))

	// billing roots first, by id, then the project root; each tree is 280 wide
	assert.Equal(t, 40.0, got["project-a"].X)
	assert.Equal(t, 40.0+280+80, got["project-b"].X)
	assert.Equal(t, 40.0+2*(280+80), got["project-z"].X)

	// the tallest tree ends at 40 + 88 + 80 + 132 = 340
	orphanTop := 340.0 + 120
	assert.Equal(t, Position{X: 40, Y: orphanTop}, got["billing-orphan"])
	assert.Equal(t, Position{X: 40 + 340, Y: orphanTop}, got["project-orphan-1"])
	assert.Equal(t, Position{X: 40 + 680, Y: orphanTop}, got["project-orphan-2"])
	assert.Equal(t, Position{X: 40, Y: orphanTop + 132 + 50}, got["project-orphan-3"])
}

func TestApplyTreeLayout_OnlyOrphans(t *testing.T) {
	got := ApplyTreeLayout([]Node{node("billing-A", KindBillingAccount), node("billing-B", KindBillingAccount)}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, Position{X: 40, Y: 40}, got[0].Position)
	assert.Equal(t, Position{X: 380, Y: 40}, got[1].Position)
}

func TestApplyTreeLayout_UnexpectedShapes(t *testing.T) {
	t.Run("cycle without a root falls back to the grid", func(t *testing.T) {
		nodes := []Node{node("a", KindProject), node("b", KindProject)}
		edges := []Edge{edge("a", "b"), edge("b", "a")}

		got := positions(ApplyTreeLayout(nodes, edges))
		assert.Equal(t, Position{X: 40, Y: 40}, got["a"])
		assert.Equal(t, Position{X: 380, Y: 40}, got["b"])
	})

	t.Run("shared child is laid out under its first parent", func(t *testing.T) {
		nodes := []Node{
			node("billing-A", KindBillingAccount),
			node("billing-B", KindBillingAccount),
			node("project-shared", KindProject),
		}
		edges := []Edge{edge("billing-A", "project-shared"), edge("billing-B", "project-shared")}

		got := positions(ApplyTreeLayout(nodes, edges))
		assert.Equal(t, Position{X: 40, Y: 208}, got["project-shared"])
		assert.Equal(t, Position{X: 50, Y: 40}, got["billing-A"])
	})

	t.Run("edges to unknown nodes are ignored", func(t *testing.T) {
		got := positions(ApplyTreeLayout([]Node{node("project-a", KindProject)}, []Edge{edge("billing-X", "project-a")}))
		assert.Equal(t, Position{X: 40, Y: 40}, got["project-a"])
	})
}
