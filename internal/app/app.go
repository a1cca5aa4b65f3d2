package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/manigraph/internal/builder"
	"github.com/specialistvlad/manigraph/internal/config"
	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/ctxlog"
	"github.com/specialistvlad/manigraph/internal/graph"
	"github.com/specialistvlad/manigraph/internal/metrics"
	"github.com/specialistvlad/manigraph/internal/model"
	"github.com/specialistvlad/manigraph/internal/registry"
	"github.com/specialistvlad/manigraph/internal/steering"
)

// ErrDuplicateState is returned when a declared state reuses the name of a
// node already in the graph, typically one generated from the grippers.
var ErrDuplicateState = errors.New("state already exists in the graph")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	registry *registry.Registry
	metrics  *metrics.Registry

	graph      atomic.Pointer[graph.Graph]
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger, constraint registry and metrics registry. The
// task is not read until Build.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New(modules...)
	logger.Debug("Constraint factories registered.", "kinds", reg.Kinds())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		registry: reg,
		metrics:  metrics.NewRegistry(),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Metrics returns the registry every graph built by the app reports to.
func (a *App) Metrics() *metrics.Registry { return a.metrics }

// Graph returns the last graph built, or nil.
func (a *App) Graph() *graph.Graph { return a.graph.Load() }

// Build loads the task, validates it and returns the populated graph.
func (a *App) Build(ctx context.Context) (*graph.Graph, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger
	logger.Debug("Building constraint graph.", "task_path", a.config.TaskPath)

	m, err := a.loader.Load(ctx, a.config.TaskPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	if err := a.registry.Validate(ctx, m); err != nil {
		return nil, err
	}

	robot, err := newRobot(m.Robot)
	if err != nil {
		return nil, err
	}
	name := robot.Name()
	if m.Graph != nil {
		name = m.Graph.Name
	}
	g := graph.New(ctx, name, robot, steering.NewStraight(), graph.WithMetrics(a.metrics))
	ns := g.CreateNodeSelector(name)

	catalog, err := a.registry.Instantiate(ctx, m, robot)
	if err != nil {
		return nil, err
	}
	if m.Graph != nil {
		if m.Graph.ErrorThreshold > 0 {
			g.SetErrorThreshold(m.Graph.ErrorThreshold)
		}
		if m.Graph.MaxIterations > 0 {
			g.SetMaxIterations(m.Graph.MaxIterations)
		}
		if err := attach(catalog, g, m.Graph.Constraints, m.Graph.Locks); err != nil {
			return nil, fmt.Errorf("graph %q: %w", name, err)
		}
	}

	if len(m.Grippers) > 0 {
		objects, grippers, err := registry.Manipulation(m, robot)
		if err != nil {
			return nil, err
		}
		if err := builder.GraphBuilder(ctx, objects, grippers, g); err != nil {
			return nil, err
		}
	}

	for _, s := range m.States {
		if _, exists := g.NodeByName(s.Name); exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateState, s.Name)
		}
		n := ns.CreateNode(s.Name, s.Waypoint)
		if err := attach(catalog, n, s.Constraints, s.Locks); err != nil {
			return nil, fmt.Errorf("state %q: %w", s.Name, err)
		}
		path, err := catalog.Constraints(s.PathConstraints)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", s.Name, err)
		}
		for _, nc := range path {
			n.AddNumericalConstraintForPath(nc, nil)
		}
	}

	for _, t := range m.Transitions {
		if err := link(g, catalog, t); err != nil {
			return nil, fmt.Errorf("transition %q: %w", t.Name, err)
		}
	}

	a.graph.Store(g)
	logger.Info("Constraint graph ready.", "graph", name, "nodes", len(g.Nodes()), "edges", len(g.Edges()))
	return g, nil
}

// Run builds the graph and, when a metrics port is configured, serves the
// metrics and health endpoints until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run method started.")
	if _, err := a.Build(ctx); err != nil {
		return fmt.Errorf("failed to build constraint graph: %w", err)
	}
	if a.config.MetricsPort <= 0 {
		a.logger.Debug("Metrics server not started: disabled.")
		return nil
	}

	errCh := a.startMetricsServer(ctx, a.config.MetricsPort)
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return a.closeMetricsServer(context.WithoutCancel(ctx))
}

func newRobot(def *config.Robot) (*model.Robot, error) {
	robot := model.NewRobot(def.Name)
	for _, j := range def.Joints {
		if _, err := robot.AddJoint(j.Name, j.Size); err != nil {
			return nil, err
		}
	}
	return robot, nil
}

// constrained is the part of a graph component that receives constraints.
type constrained interface {
	AddNumericalConstraint(nc *constraint.Numerical, passive constraint.Intervals)
	AddLockedJointConstraint(lj *constraint.LockedJoint)
}

func attach(c *registry.Catalog, target constrained, constraintNames, lockNames []string) error {
	ncs, err := c.Constraints(constraintNames)
	if err != nil {
		return err
	}
	ljs, err := c.Locks(lockNames)
	if err != nil {
		return err
	}
	for _, nc := range ncs {
		target.AddNumericalConstraint(nc, nil)
	}
	for _, lj := range ljs {
		target.AddLockedJointConstraint(lj)
	}
	return nil
}

// link creates the edge of a declared transition. Crossing waypoint states
// yields a waypoint edge whose hidden stages are named <name>_e<i> and
// follow the path constraints of the source state.
func link(g *graph.Graph, c *registry.Catalog, t *config.Transition) error {
	from, _ := g.NodeByName(t.From)
	to, _ := g.NodeByName(t.To)

	var edges []*graph.Edge
	switch {
	case len(t.Via) > 0:
		e := from.LinkTo(t.Name, to, t.Weight, graph.KindWaypoint)
		e.SetWaypointCount(len(t.Via))
		edges = append(edges, e)
		prev := from
		for i, v := range t.Via {
			wn, _ := g.NodeByName(v)
			sub := prev.LinkTo(fmt.Sprintf("%s_e%d", t.Name, i), wn, -1, graph.KindPlain)
			sub.SetNode(from)
			if err := e.SetWaypoint(i, sub, wn); err != nil {
				return err
			}
			edges = append(edges, sub)
			prev = wn
		}

	case t.Kind == config.KindLevelSet:
		e := from.LinkTo(t.Name, to, t.Weight, graph.KindLevelSet)
		cond, err := c.Constraints(t.Condition)
		if err != nil {
			return err
		}
		param, err := c.Constraints(t.Param)
		if err != nil {
			return err
		}
		for _, nc := range cond {
			e.InsertConditionConstraint(nc, nil)
		}
		for _, nc := range param {
			e.InsertParamConstraint(nc, nil)
		}
		edges = append(edges, e)

	default:
		edges = append(edges, from.LinkTo(t.Name, to, t.Weight, graph.KindPlain))
	}

	for _, e := range edges {
		e.SetShort(t.Short)
		if err := attach(c, e, t.Constraints, t.Locks); err != nil {
			return err
		}
	}
	if t.Kind == config.KindLevelSet {
		edges[0].BuildHistogram()
	}
	return nil
}
