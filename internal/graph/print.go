package graph

import (
	"fmt"
	"io"
	"strings"
)

// Print writes an indented outline of g: selector, nodes, and their visible
// edges.
func (g *Graph) Print(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Graph: %s\n", g.name)
	if g.selector == nil {
		_, err := io.WriteString(w, b.String())
		return err
	}
	fmt.Fprintf(&b, "|-- NodeSelector: %s\n", g.selector.name)
	for _, n := range g.selector.Nodes() {
		fmt.Fprintf(&b, "|   |-- %d %s\n", n.id, n.name)
		for _, nb := range n.Neighbors() {
			e := nb.Edge
			fmt.Fprintf(&b, "|   |   |-- %d %s", e.id, e.name)
			switch e.kind {
			case KindWaypoint:
				b.WriteString(" (waypoint)")
			case KindLevelSet:
				b.WriteString(" (level set)")
			}
			fmt.Fprintf(&b, " --> %s\n", e.To().name)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type dotAttr struct {
	key, value string
}

type dotAttrs []dotAttr

func (a dotAttrs) with(key, value string) dotAttrs {
	out := make(dotAttrs, 0, len(a)+1)
	for _, kv := range a {
		if kv.key != key {
			out = append(out, kv)
		}
	}
	return append(out, dotAttr{key: key, value: value})
}

func (a dotAttrs) String() string {
	parts := make([]string, len(a))
	for i, kv := range a {
		parts[i] = fmt.Sprintf("%s=%q", kv.key, kv.value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func tooltip(header string, names []string) string {
	lines := []string{header}
	for _, n := range names {
		lines = append(lines, "- "+n)
	}
	return strings.Join(lines, "\n")
}

// DotPrint writes g in the Graphviz dot language. Waypoint nodes are dashed
// and the last segment of a waypoint edge is dotted.
func (g *Graph) DotPrint(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", g.name)
	if g.selector != nil {
		for _, n := range g.selector.Nodes() {
			n.dotPrint(&b, nil)
		}
		for _, n := range g.selector.Nodes() {
			for _, nb := range n.Neighbors() {
				nb.Edge.dotPrint(&b, nil)
			}
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (n *Node) dotPrint(b *strings.Builder, da dotAttrs) {
	da = da.with("label", n.name).
		with("tooltip", tooltip("Node constraints:", n.constraintNames()))
	fmt.Fprintf(b, "  %d %s;\n", n.id, da)
}

func (e *Edge) dotPrint(b *strings.Builder, da dotAttrs) {
	tp := tooltip("Edge constraints:", e.constraintNames())
	switch e.kind {
	case KindWaypoint:
		if !e.wp.complete() {
			break
		}
		for _, wp := range e.wp.waypoints {
			wp.node.dotPrint(b, da.with("style", "dashed"))
			wp.edge.dotPrint(b, da.with("style", "solid"))
		}
		last := e.wp.terminalNode()
		da = da.with("style", "dotted").with("dir", "both").with("arrowtail", "dot").
			with("shape", "onormal").with("label", e.name).with("tooltip", tp)
		fmt.Fprintf(b, "  %d -> %d %s;\n", last.id, e.To().id, da)
		return
	case KindLevelSet:
		da = da.with("style", "dashed")
		if params, locks := e.ParamConstraints(); len(params)+len(locks) > 0 {
			var names []string
			for _, t := range params {
				names = append(names, t.Numerical.Name())
			}
			for _, lj := range locks {
				names = append(names, lj.Name())
			}
			tp += "\n\n" + tooltip("Extra numerical constraints are:", names)
		}
	}
	da = da.with("shape", "onormal").with("label", e.name).with("tooltip", tp)
	fmt.Fprintf(b, "  %d -> %d %s;\n", e.From().id, e.To().id, da)
}
