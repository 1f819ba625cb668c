package graph

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	margin     = 40.0
	rankGap    = 80.0
	nodeGap    = 40.0
	treeGap    = 80.0
	orphanGapY = 120.0

	orphanCols     = 3
	orphanColWidth = 280.0
	orphanColGap   = 60.0
	orphanRowGap   = 50.0
)

type Size struct {
	Width  float64
	Height float64
}

var (
	nodeSizes = map[Kind]Size{
		KindBillingAccount: {Width: 260, Height: 88},
		KindProject:        {Width: 280, Height: 132},
		KindAPIKey:         {Width: 220, Height: 84},
		KindService:        {Width: 200, Height: 64},
	}
	fallbackSize = Size{Width: 200, Height: 80}
)

// SizeOf is the nominal size used to space nodes of a kind.
func SizeOf(k Kind) Size {
	if s, ok := nodeSizes[k]; ok {
		return s
	}

	return fallbackSize
}

type treeLayout struct {
	nodes    []Node
	index    map[string]int
	children map[string][]string
	tree     map[string][]string
	claimed  map[string]bool
	width    map[string]float64
	span     map[string]float64
	placed   map[string]bool
}

// ApplyTreeLayout returns a copy of nodes with positions assigned. Trees hang from roots (nodes
// with outgoing edges and no incoming edge), billing account roots first, then by id, tiled left
// to right. Nodes with no edges go to a grid below the trees. The result depends only on the
// input.
func ApplyTreeLayout(nodes []Node, edges []Edge) []Node {
	l := &treeLayout{
		nodes:    slices.Clone(nodes),
		index:    make(map[string]int, len(nodes)),
		children: make(map[string][]string),
		tree:     make(map[string][]string),
		claimed:  make(map[string]bool),
		width:    make(map[string]float64),
		span:     make(map[string]float64),
		placed:   make(map[string]bool),
	}

	for i, n := range l.nodes {
		if _, ok := l.index[n.ID]; !ok {
			l.index[n.ID] = i
		}
	}

	hasParent := make(map[string]bool)
	connected := make(map[string]bool)

	for _, e := range edges {
		_, okSource := l.index[e.Source]
		_, okTarget := l.index[e.Target]

		if !okSource || !okTarget {
			continue
		}

		l.children[e.Source] = append(l.children[e.Source], e.Target)
		hasParent[e.Target] = true
		connected[e.Source] = true
		connected[e.Target] = true
	}

	var roots []string

	for id := range l.index {
		if connected[id] && !hasParent[id] {
			roots = append(roots, id)
		}
	}

	slices.SortFunc(roots, func(a, b string) int {
		aBilling := l.node(a).Type == KindBillingAccount
		bBilling := l.node(b).Type == KindBillingAccount

		if aBilling != bBilling {
			if aBilling {
				return -1
			}

			return 1
		}

		return strings.Compare(a, b)
	})

	cursorX := margin
	maxBottom := 0.0

	for _, root := range roots {
		l.claim(root)
		l.measure(root)
		l.place(root, cursorX, margin)
		cursorX += l.width[root] + treeGap
	}

	for id := range l.placed {
		n := l.node(id)
		maxBottom = math.Max(maxBottom, n.Position.Y+SizeOf(n.Type).Height)
	}

	top := margin
	if len(roots) > 0 {
		top = maxBottom + orphanGapY
	}

	// orphans, and any node a cycle kept out of every tree
	col := 0
	row := 0

	for i := range l.nodes {
		n := &l.nodes[i]
		if l.index[n.ID] != i || l.placed[n.ID] {
			continue
		}

		n.Position = Position{
			X: margin + float64(col)*(orphanColWidth+orphanColGap),
			Y: top + float64(row)*(SizeOf(n.Type).Height+orphanRowGap),
		}
		l.placed[n.ID] = true

		col++
		if col == orphanCols {
			col = 0
			row++
		}
	}

	return l.nodes
}

func (l *treeLayout) node(id string) *Node {
	return &l.nodes[l.index[id]]
}

// claim fixes the tree shape depth first. A node reachable from several parents belongs to the
// first one that reaches it, so every node is laid out at most once.
func (l *treeLayout) claim(id string) {
	l.claimed[id] = true

	for _, child := range l.children[id] {
		if l.claimed[child] {
			continue
		}

		l.tree[id] = append(l.tree[id], child)
		l.claim(child)
	}
}

// measure computes subtree widths bottom up without touching positions.
func (l *treeLayout) measure(id string) float64 {
	own := SizeOf(l.node(id).Type).Width
	children := l.tree[id]

	if len(children) == 0 {
		l.width[id] = own
		l.span[id] = own

		return own
	}

	span := nodeGap * float64(len(children)-1)
	for _, child := range children {
		span += l.measure(child)
	}

	l.span[id] = span
	l.width[id] = math.Max(own, span)

	return l.width[id]
}

// place writes positions top down. The node is centered over its subtree width and the
// children's span is centered under the node.
func (l *treeLayout) place(id string, left, top float64) {
	n := l.node(id)
	size := SizeOf(n.Type)

	n.Position = Position{X: left + (l.width[id]-size.Width)/2, Y: top}
	l.placed[id] = true

	childLeft := left + (l.width[id]-l.span[id])/2
	childTop := top + size.Height + rankGap

	for _, child := range l.tree[id] {
		l.place(child, childLeft, childTop)
		childLeft += l.width[child] + nodeGap
	}
}
