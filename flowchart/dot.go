// Package flowchart renders a Model's Plain-actor mirror to Graphviz DOT
// and stitches multi-level sub-system diagrams into an HTML drill-down.
// Rendering is a pure function over plainmodel.Graph: it is never on
// the scheduling hot path.
package flowchart

import (
	"os"
	"sync"

	"github.com/emicklei/dot"
	"github.com/gmt-dos/actors/errorset"
	"github.com/gmt-dos/actors/plainmodel"
)

// Theme selects the palette used for node/edge coloring.
type Theme string

const (
	ThemeScreen Theme = "screen" // dark, default
	ThemePaper  Theme = "paper"  // light
)

// Layout selects the Graphviz layout engine.
type Layout string

const (
	LayoutNeato Layout = "neato" // default
	LayoutDot   Layout = "dot"
	LayoutFdp   Layout = "fdp"
)

// palette8 is the 8-color rate palette recycled across edges.
// Screen and paper share hues, tuned for each background.
var palette8 = map[Theme][8]string{
	ThemeScreen: {"#8ab4f8", "#f28b82", "#fdd663", "#81c995", "#c58af9", "#78d9ec", "#f6aea9", "#fcc934"},
	ThemePaper:  {"#1a73e8", "#d93025", "#f9ab00", "#188038", "#8430ce", "#12828f", "#c5221f", "#e37400"},
}

// colorMap is the process-wide mutex-guarded assignment of rate -> color
// index, touched only at model construction.
var colorMap = struct {
	mu   sync.Mutex
	byRate map[int]int
	next int
}{byRate: make(map[int]int)}

func colorFor(theme Theme, rate int) string {
	colorMap.mu.Lock()
	idx, ok := colorMap.byRate[rate]
	if !ok {
		idx = colorMap.next % 8
		colorMap.byRate[rate] = idx
		colorMap.next++
	}
	colorMap.mu.Unlock()
	return palette8[theme][idx]
}

// Options configures one rendering pass.
type Options struct {
	Theme  Theme
	Layout Layout
}

// FromEnv builds Options from FLOWCHART_THEME / FLOWCHART, defaulting
// to the dark neato layout.
func FromEnv() Options {
	opt := Options{Theme: ThemeScreen, Layout: LayoutNeato}
	if t := os.Getenv("FLOWCHART_THEME"); t == string(ThemePaper) {
		opt.Theme = ThemePaper
	}
	switch os.Getenv("FLOWCHART") {
	case string(LayoutDot):
		opt.Layout = LayoutDot
	case string(LayoutFdp):
		opt.Layout = LayoutFdp
	}
	return opt
}

// DOT renders g to a Graphviz DOT document: one box-rounded, filled node
// per actor, one edge per (output hash, fan-out arm) pair colored by
// rate, solid for a regular channel, bold for bootstrap, dashed for
// unbounded.
func DOT(g plainmodel.Graph, opt Options) string {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("layout", string(opt.Layout))
	if g.Name != "" {
		graph.Attr("label", g.Name)
	}
	bg, fg := "#1e1e1e", "#ffffff"
	if opt.Theme == ThemePaper {
		bg, fg = "#ffffff", "#111111"
	}
	graph.Attr("bgcolor", bg)

	nodes := make(map[string]dot.Node, len(g.Actors))
	byHash := make(map[uint64]string, len(g.Actors))
	kindByHash := make(map[uint64]string, len(g.Actors))

	for _, a := range g.Actors {
		n := graph.Node(a.Client).
			Attr("shape", "box").
			Attr("style", "rounded,filled").
			Attr("fillcolor", bg).
			Attr("fontcolor", fg).
			Attr("label", a.Client)
		nodes[a.Client] = n
		for _, out := range a.Outputs {
			byHash[out.Hash] = a.Client
			kindByHash[out.Hash] = out.Kind
		}
	}

	for _, a := range g.Actors {
		dst := nodes[a.Client]
		for _, in := range a.Inputs {
			src, ok := nodes[byHash[in.Hash]]
			if !ok {
				continue // dangling at render time; validation would have already rejected this model
			}
			e := graph.Edge(src, dst).Attr("color", colorFor(opt.Theme, in.Rate))
			// Bootstrap/unbounded are properties of the producing output,
			// not the consuming input, so the edge style comes from the
			// output side's Kind.
			switch kindByHash[in.Hash] {
			case "bootstrap":
				e.Attr("style", "bold")
			case "unbounded":
				e.Attr("style", "dashed")
			default:
				e.Attr("style", "solid")
			}
			e.Attr("arrowhead", "normal")
		}
	}
	return graph.String()
}

// WriteDOT renders g and writes it to <dataRepo>/<name>.dot, the
// location TO_DOT names for its output.
func WriteDOT(dataRepo, name string, g plainmodel.Graph, opt Options) error {
	body := DOT(g, opt)
	path := dataRepo + string(os.PathSeparator) + name + ".dot"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return &errorset.IOError{Op: "write", Path: path, Wrapped: err}
	}
	return nil
}
