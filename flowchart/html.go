package flowchart

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/gmt-dos/actors/errorset"
)

// Level is one node of the sub-system drill-down tree: a name, the
// rendered SVG for that level's diagram, and the names of any nested
// sub-systems reachable from it.
type Level struct {
	Name     string
	SVG      string
	Children []string
}

// RenderSVG shells out to the configured layout engine (dot/neato/fdp) to
// turn a DOT document into SVG. Graphviz is an optional, diagnostic-only
// dependency, never reimplemented faithfully if the target environment
// lacks it: a missing binary is reported as
// *errorset.IOError, never a panic, and callers may simply skip the HTML
// drill-down if it occurs.
func RenderSVG(ctx context.Context, dotDoc string, layout Layout) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	bin := string(layout)
	if bin == "" {
		bin = string(LayoutNeato)
	}
	cmd := exec.CommandContext(ctx, bin, "-Tsvg")
	cmd.Stdin = strings.NewReader(dotDoc)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return "", &errorset.IOError{Op: "render-svg", Path: bin, Wrapped: fmt.Errorf("%w: %s", err, errBuf.String())}
	}
	return out.String(), nil
}

// StitchHTML combines a set of rendered Levels into one self-contained
// HTML document: click a sub-system node to descend into its SVG, Esc to
// return one level, Home to return to the root.
func StitchHTML(root string, levels map[string]Level) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">\n")
	b.WriteString("<style>body{margin:0;background:#1e1e1e} .level{display:none} .level.active{display:block} svg{width:100%;height:100vh}</style>\n")
	b.WriteString("</head><body>\n")
	for name, lvl := range levels {
		active := ""
		if name == root {
			active = " active"
		}
		fmt.Fprintf(&b, "<div class=\"level%s\" id=\"level-%s\">\n%s\n</div>\n", active, htmlID(name), lvl.SVG)
	}
	b.WriteString("<script>\n")
	fmt.Fprintf(&b, "var ROOT=%q;\nvar stack=[ROOT];\n", root)
	b.WriteString(`
function show(name) {
  document.querySelectorAll('.level').forEach(function(el){ el.classList.remove('active'); });
  var el = document.getElementById('level-' + name);
  if (el) { el.classList.add('active'); }
}
document.addEventListener('click', function(ev) {
  var g = ev.target.closest('g.node');
  if (!g) { return; }
  var title = g.querySelector('title');
  if (!title) { return; }
  var name = title.textContent;
  if (document.getElementById('level-' + name)) {
    stack.push(name);
    show(name);
  }
});
document.addEventListener('keydown', function(ev) {
  if (ev.key === 'Escape' && stack.length > 1) {
    stack.pop();
    show(stack[stack.length - 1]);
  } else if (ev.key === 'Home') {
    stack = [ROOT];
    show(ROOT);
  }
});
show(ROOT);
`)
	b.WriteString("</script>\n</body></html>\n")
	return b.String()
}

func htmlID(name string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' {
			return '-'
		}
		return r
	}, name)
}

// WriteHTML renders html to <dataRepo>/flowchart.html.
func WriteHTML(dataRepo, html string) error {
	path := dataRepo + string(os.PathSeparator) + "flowchart.html"
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return &errorset.IOError{Op: "write", Path: path, Wrapped: err}
	}
	return nil
}
