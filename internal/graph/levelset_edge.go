package graph

import (
	"github.com/specialistvlad/manigraph/internal/constraint"
	"github.com/specialistvlad/manigraph/internal/foliation"
	"github.com/specialistvlad/manigraph/internal/roadmap"
)

// levelSet is the state of a KindLevelSet edge.
//
// Condition constraints define the foliated region; parametrizer
// constraints select a leaf inside it. Projection keeps every edge
// constraint offset from the start configuration, except the parametrizer
// whose right-hand side comes from a sampled target leaf.
type levelSet struct {
	histogram  foliation.Histogram
	paramTerms []constraint.Term
	paramLocks []*constraint.LockedJoint
	condTerms  []constraint.Term
	condLocks  []*constraint.LockedJoint

	extra lazy[*constraint.Set]
}

func (e *Edge) SetHistogram(h foliation.Histogram) {
	e.mustBe(KindLevelSet, "SetHistogram")
	e.ls.histogram = h
}

func (e *Edge) Histogram() foliation.Histogram {
	e.mustBe(KindLevelSet, "Histogram")
	return e.ls.histogram
}

// BuildHistogram creates a leaf histogram from the edge's condition and
// parametrizer constraints and installs it.
func (e *Edge) BuildHistogram() *foliation.LeafHistogram {
	e.mustBe(KindLevelSet, "BuildHistogram")
	g := e.graph
	f := foliation.New(e.name, g.errorThreshold)
	for _, t := range e.ls.condTerms {
		f.AddCondition(t.Numerical, t.Passive)
	}
	for _, lj := range e.ls.condLocks {
		f.AddConditionLock(lj)
	}
	for _, t := range e.ls.paramTerms {
		f.AddParametrizer(t.Numerical)
	}
	for _, lj := range e.ls.paramLocks {
		f.AddParametrizerLock(lj)
	}
	h := foliation.NewLeafHistogram(f, g.errorThreshold)
	e.ls.histogram = h
	return h
}

// InsertParamConstraint adds a constraint selecting the target leaf.
func (e *Edge) InsertParamConstraint(nc *constraint.Numerical, passive constraint.Intervals) {
	e.mustBe(KindLevelSet, "InsertParamConstraint")
	e.ls.paramTerms = append(e.ls.paramTerms, constraint.Term{Numerical: nc, Passive: passive})
	e.ls.extra.reset()
}

func (e *Edge) InsertParamLock(lj *constraint.LockedJoint) {
	e.mustBe(KindLevelSet, "InsertParamLock")
	e.ls.paramLocks = append(e.ls.paramLocks, lj)
	e.ls.extra.reset()
}

// InsertConditionConstraint adds a constraint defining the foliated region.
func (e *Edge) InsertConditionConstraint(nc *constraint.Numerical, passive constraint.Intervals) {
	e.mustBe(KindLevelSet, "InsertConditionConstraint")
	e.ls.condTerms = append(e.ls.condTerms, constraint.Term{Numerical: nc, Passive: passive})
}

func (e *Edge) InsertConditionLock(lj *constraint.LockedJoint) {
	e.mustBe(KindLevelSet, "InsertConditionLock")
	e.ls.condLocks = append(e.ls.condLocks, lj)
}

func (e *Edge) ParamConstraints() ([]constraint.Term, []*constraint.LockedJoint) {
	e.mustBe(KindLevelSet, "ParamConstraints")
	return append([]constraint.Term(nil), e.ls.paramTerms...), append([]*constraint.LockedJoint(nil), e.ls.paramLocks...)
}

func (e *Edge) ConditionConstraints() ([]constraint.Term, []*constraint.LockedJoint) {
	e.mustBe(KindLevelSet, "ConditionConstraints")
	return append([]constraint.Term(nil), e.ls.condTerms...), append([]*constraint.LockedJoint(nil), e.ls.condLocks...)
}

// ExtraConfigConstraint returns the cached level-set projection set: graph,
// parametrizer, edge and destination node constraints.
func (e *Edge) ExtraConfigConstraint() *constraint.Set {
	e.mustBe(KindLevelSet, "ExtraConfigConstraint")
	return e.ls.extra.get(e.buildExtraConfigConstraint)
}

func (e *Edge) buildExtraConfigConstraint() *constraint.Set {
	g := e.graph
	to := e.To()
	set := constraint.NewSet(e.name + "/extra")
	proj := g.newProjector(e.name + "/extra")
	g.insertNumericalConstraints(proj)
	for _, t := range e.ls.paramTerms {
		proj.Add(t.Numerical, t.Passive)
	}
	e.insertNumericalConstraints(proj)
	to.insertNumericalConstraints(proj)
	g.insertLockedJoints(proj)
	for _, lj := range e.ls.paramLocks {
		proj.AddLockedJoint(lj)
	}
	e.insertLockedJoints(proj)
	to.insertLockedJoints(proj)
	set.AddConstraint(proj)
	return set
}

// applyLevelSet projects q onto a leaf not yet reached by component cc. It
// leaves q untouched and reports false when no such leaf is known.
func (e *Edge) applyLevelSet(cc roadmap.ComponentID, qOffset, q constraint.Configuration) bool {
	g := e.graph
	if e.ls.histogram == nil {
		g.logger.Warn("Level set edge has no histogram.", "edge", e.name)
		return false
	}
	distrib := e.ls.histogram.DistribOutOfConnectedComponent(cc)
	if distrib.Size() == 0 {
		g.logger.Warn("Distrib is empty.", "edge", e.name)
		if g.metrics != nil {
			g.metrics.RecordLevelSetMiss(e.name)
		}
		return false
	}
	target := distrib.Sample(g.rng).Configuration()

	set := e.ExtraConfigConstraint()
	cp := set.ConfigProjector()
	cp.RightHandSideFromConfig(qOffset)
	for _, t := range e.ls.paramTerms {
		t.Numerical.RightHandSideFromConfig(target)
	}
	for _, lj := range e.ls.paramLocks {
		lj.RightHandSideFromConfig(target)
	}
	cp.UpdateRightHandSide()

	if set.Apply(q) {
		return true
	}
	e.warnProjectionFailure(set)
	return false
}
