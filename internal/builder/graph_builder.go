package builder

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/manigraph/internal/ctxlog"
	"github.com/specialistvlad/manigraph/internal/graph"
)

// Object is a movable object of the task.
type Object struct {
	Name    string
	Handles []Handle
	// Place and PrePlace describe how the object rests when no gripper holds
	// it. An empty Place means the object can be held anywhere.
	Place    FoliatedManifold
	PrePlace FoliatedManifold
}

type handleRef struct {
	object int
	handle Handle
}

// graspState maps each gripper to the index of the handle it holds, or -1.
type graspState []int

func (s graspState) count() int {
	n := 0
	for _, h := range s {
		if h >= 0 {
			n++
		}
	}
	return n
}

func (s graspState) holds(h int) bool {
	return slices.Contains(s, h)
}

func (s graspState) key() string {
	return fmt.Sprint([]int(s))
}

// enumerateStates lists every injective assignment of handles to grippers,
// most grasps first.
func enumerateStates(nGrippers, nHandles int) []graspState {
	var out []graspState
	cur := make(graspState, nGrippers)
	used := make([]bool, nHandles)
	var rec func(i int)
	rec = func(i int) {
		if i == nGrippers {
			out = append(out, slices.Clone(cur))
			return
		}
		cur[i] = -1
		rec(i + 1)
		for h := range nHandles {
			if used[h] {
				continue
			}
			used[h] = true
			cur[i] = h
			rec(i + 1)
			used[h] = false
		}
	}
	rec(0)
	slices.SortStableFunc(out, func(a, b graspState) int {
		return cmp.Compare(b.count(), a.count())
	})
	return out
}

type graphBuilder struct {
	objects  []Object
	grippers []Gripper
	handles  []handleRef
	grasps   map[[2]int][2]FoliatedManifold
}

// GraphBuilder populates g with one node per grasp state of grippers on the
// handles of objects, a loop edge per node, and the transitions adding one
// grasp to a state. Nodes holding more grasps come first in the selector.
func GraphBuilder(ctx context.Context, objects []Object, grippers []Gripper, g *graph.Graph) error {
	if g == nil {
		return graph.ErrNilGraph
	}
	ns := g.NodeSelector()
	if ns == nil {
		return fmt.Errorf("graph %q: %w", g.Name(), graph.ErrNoNodeSelector)
	}
	logger := ctxlog.FromContext(ctx)

	b := &graphBuilder{objects: objects, grippers: grippers, grasps: map[[2]int][2]FoliatedManifold{}}
	for i, o := range objects {
		for _, h := range o.Handles {
			b.handles = append(b.handles, handleRef{object: i, handle: h})
		}
	}

	states := enumerateStates(len(grippers), len(b.handles))
	nodes := make(map[string]*graph.Node, len(states))
	for _, s := range states {
		n := ns.CreateNode(b.stateName(s), false)
		b.stateManifold(s, -1).AddToNode(n)
		loop := n.LinkTo("Loop | "+n.Name(), n, 1, graph.KindPlain)
		b.stateManifold(s, -1).AddToEdge(loop)
		nodes[s.key()] = n
	}

	transitions := 0
	for _, s := range states {
		from := nodes[s.key()]
		for gi, held := range s {
			if held >= 0 {
				continue
			}
			for hi := range b.handles {
				if s.holds(hi) {
					continue
				}
				next := slices.Clone(s)
				next[gi] = hi
				if _, err := CreateEdges(ctx, b.transition(s, gi, hi, from, nodes[next.key()])); err != nil {
					return fmt.Errorf("building transition from %q: %w", from.Name(), err)
				}
				transitions++
			}
		}
	}
	logger.Info("Constraint graph built.", "graph", g.Name(), "states", len(states), "transitions", transitions)
	return nil
}

func (b *graphBuilder) stateName(s graspState) string {
	var parts []string
	for gi, hi := range s {
		if hi >= 0 {
			parts = append(parts, b.grippers[gi].Name()+" grasps "+b.handles[hi].handle.Name())
		}
	}
	if len(parts) == 0 {
		return "free"
	}
	return strings.Join(parts, " : ")
}

func (b *graphBuilder) grasp(gi, hi int) (grasp, pregrasp FoliatedManifold) {
	k := [2]int{gi, hi}
	m, ok := b.grasps[k]
	if !ok {
		m[0], m[1] = GraspManifold(b.grippers[gi], b.handles[hi].handle)
		b.grasps[k] = m
	}
	return m[0], m[1]
}

func (b *graphBuilder) objectFree(s graspState, oi int) bool {
	for _, hi := range s {
		if hi >= 0 && b.handles[hi].object == oi {
			return false
		}
	}
	return true
}

// stateManifold gathers the grasps held in s and the placements of the free
// objects, leaving out object skip.
func (b *graphBuilder) stateManifold(s graspState, skip int) FoliatedManifold {
	var m FoliatedManifold
	for gi, hi := range s {
		if hi >= 0 {
			grasp, _ := b.grasp(gi, hi)
			m = m.Merge(grasp)
		}
	}
	for oi, o := range b.objects {
		if oi != skip && b.objectFree(s, oi) {
			m = m.Merge(o.Place)
		}
	}
	return m
}

func (b *graphBuilder) transition(s graspState, gi, hi int, from, to *graph.Node) EdgeSpec {
	gripper, h := b.grippers[gi], b.handles[hi]
	grasp, pregrasp := b.grasp(gi, hi)
	spec := EdgeSpec{
		ForwName:    fmt.Sprintf("%s > %s | %s", gripper.Name(), h.handle.Name(), from.Name()),
		BackName:    fmt.Sprintf("%s < %s | %s", gripper.Name(), h.handle.Name(), from.Name()),
		From:        from,
		To:          to,
		WForw:       1,
		WBack:       1,
		Grasp:       grasp,
		PreGrasp:    pregrasp,
		Submanifold: b.stateManifold(s, h.object),
		Stages:      Stages{PreGrasp: !pregrasp.Empty()},
	}
	if o := b.objects[h.object]; b.objectFree(s, h.object) && !o.Place.Empty() {
		spec.Place = o.Place
		spec.PrePlace = o.PrePlace
		spec.Stages.Place = true
	}
	return spec
}
