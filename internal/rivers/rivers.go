// Package rivers generates a sparse network of river sites and rasterizes
// their Voronoi diagram.
package rivers

import (
	"cmp"
	"errors"
	"fmt"
	"image/color"
	stdmath "math"
	"math/rand/v2"
	"slices"

	"github.com/pzsz/voronoi"
	"go.uber.org/multierr"

	"github.com/Faultbox/terragen/internal/raster"
	"github.com/Faultbox/terragen/pkg/math"
)

// Generator errors.
var (
	ErrTooFewSites = errors.New("rivers: need at least 3 sites")
	ErrInvalidSize = errors.New("rivers: raster size must be positive")
)

// Overlay colors.
var (
	VertexColor = color.RGBA{R: 255, G: 100, B: 100, A: 255}
	SiteColor   = color.RGBA{R: 100, G: 100, B: 255, A: 255}
	Background  = color.RGBA{A: 255}
)

// NoParent marks a river node without an upstream node.
const NoParent = -1

// RiverNode is one site of the river network.
// Z is reserved for elevation coupling and Parent for downhill routing;
// neither is read by the rasterizer yet.
type RiverNode struct {
	Parent int
	Coord  math.Vec3
}

// LandNode is a land point together with the three river sites nearest to it.
type LandNode struct {
	Coord         math.Vec3
	RiverSupports [3]int
}

// Cell is a pixel coordinate.
type Cell struct {
	X, Y int
}

// PixelMap marks special pixels; anything unmapped renders as Background.
type PixelMap map[Cell]color.RGBA

// Generator builds river networks.
type Generator struct {
	Seed   uint64
	Sites  int
	Width  int
	Height int
}

// Network is a generated site set, its diagram vertices and the pixel overlay.
type Network struct {
	Nodes    []RiverNode
	Vertices []math.Vec2
	Overlay  PixelMap
	Width    int
	Height   int
}

// Generate draws the sites, builds the diagram and marks the overlay.
func (g Generator) Generate() (*Network, error) {
	if g.Sites < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSites, g.Sites)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, g.Width, g.Height)
	}

	rng := rand.New(rand.NewPCG(g.Seed, g.Seed))
	nodes := make([]RiverNode, g.Sites)
	for i := range nodes {
		nodes[i] = RiverNode{
			Parent: NoParent,
			Coord:  math.Vec3{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()},
		}
	}

	n := &Network{
		Nodes:    nodes,
		Vertices: diagramVertices(nodes),
		Overlay:  make(PixelMap),
		Width:    g.Width,
		Height:   g.Height,
	}
	for _, v := range n.Vertices {
		n.mark(v, VertexColor)
	}
	// Sites go last so they win over any vertex sharing their pixel
	for _, node := range n.Nodes {
		n.mark(node.Coord.XY(), SiteColor)
	}
	return n, nil
}

func (n *Network) mark(p math.Vec2, c color.RGBA) {
	x, y := p.Pixel(n.Width, n.Height)
	n.Overlay[Cell{x, y}] = c
}

// diagramVertices returns the distinct Voronoi vertices of the XY projection
// of nodes, clipped to the unit square and sorted by X then Y.
func diagramVertices(nodes []RiverNode) []math.Vec2 {
	sites := make([]voronoi.Vertex, len(nodes))
	for i, node := range nodes {
		sites[i] = voronoi.Vertex{X: node.Coord.X, Y: node.Coord.Y}
	}
	diagram := voronoi.ComputeDiagram(sites, voronoi.NewBBox(0, 1, 0, 1), true)

	seen := make(map[math.Vec2]bool)
	var out []math.Vec2
	add := func(v voronoi.Vertex) {
		if stdmath.IsInf(v.X, 0) || stdmath.IsInf(v.Y, 0) {
			return
		}
		p := math.Vec2{X: v.X, Y: v.Y}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, e := range diagram.Edges {
		add(e.Va.Vertex)
		add(e.Vb.Vertex)
	}

	slices.SortFunc(out, func(a, b math.Vec2) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	return out
}

// Render writes the overlay as a dense raster in row-major order and flushes.
func (n *Network) Render(s raster.Sink) error {
	for y := 0; y < n.Height; y++ {
		for x := 0; x < n.Width; x++ {
			c, ok := n.Overlay[Cell{x, y}]
			if !ok {
				c = Background
			}
			if err := s.WritePixel(c); err != nil {
				return multierr.Append(fmt.Errorf("pixel (%d,%d): %w", x, y, err), s.Abort())
			}
		}
	}
	if err := s.Flush(); err != nil {
		return multierr.Append(err, s.Abort())
	}
	return nil
}

// Closest3 returns the indices of the three sites nearest to p, ranked by
// distance with ties going to the lower index, then sorted by index.
func (n *Network) Closest3(p math.Vec2) ([3]int, error) {
	if len(n.Nodes) < 3 {
		return [3]int{}, fmt.Errorf("%w: got %d", ErrTooFewSites, len(n.Nodes))
	}
	dist := make([]float64, len(n.Nodes))
	idx := make([]int, len(n.Nodes))
	for i, node := range n.Nodes {
		dist[i] = node.Coord.XY().Distance(p)
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(dist[a], dist[b])
	})
	answer := [3]int{idx[0], idx[1], idx[2]}
	slices.Sort(answer[:])
	return answer, nil
}

// LandAt returns the land node at p with its supporting river sites.
func (n *Network) LandAt(p math.Vec2) (LandNode, error) {
	supports, err := n.Closest3(p)
	if err != nil {
		return LandNode{}, err
	}
	return LandNode{Coord: p.XY0(), RiverSupports: supports}, nil
}

// Count returns how many overlay pixels inside the raster carry color c.
func (n *Network) Count(c color.RGBA) int {
	total := 0
	for cell, got := range n.Overlay {
		if got == c && cell.X >= 0 && cell.X < n.Width && cell.Y >= 0 && cell.Y < n.Height {
			total++
		}
	}
	return total
}
