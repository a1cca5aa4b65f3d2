package builder

import "github.com/specialistvlad/manigraph/internal/constraint"

// Gripper is an end-effector able to grasp handles.
type Gripper interface {
	Name() string
	// Clearance is the distance kept to a handle before grasping it.
	Clearance() float64
}

// Handle is a part of an object that grippers can grasp.
type Handle interface {
	Name() string
	Clearance() float64
	// CreateGrasp returns the constraint "gripper holds the handle".
	CreateGrasp(g Gripper) *constraint.Numerical
	// CreateGraspComplement returns the parametric constraint telling grasps
	// of the same handle apart. Its output may be empty.
	CreateGraspComplement(g Gripper) *constraint.Numerical
	// CreatePreGrasp returns the constraint "gripper faces the handle at the
	// given clearance", or nil when the handle has no approach.
	CreatePreGrasp(g Gripper, clearance float64) *constraint.Numerical
}

// GraspManifold returns the grasp and pregrasp manifolds of gripper on
// handle. The grasp complement becomes the grasp foliation unless it has no
// output.
func GraspManifold(gripper Gripper, handle Handle) (grasp, pregrasp FoliatedManifold) {
	gc := handle.CreateGrasp(gripper)
	grasp.NC = append(grasp.NC, constraint.Term{Numerical: gc})
	grasp.NCPath = append(grasp.NCPath, constraint.Term{Numerical: gc})
	if gcc := handle.CreateGraspComplement(gripper); gcc != nil && gcc.OutputSize() > 0 {
		grasp.NCFol = append(grasp.NCFol, constraint.Term{Numerical: gcc})
	}

	c := handle.Clearance() + gripper.Clearance()
	if pgc := handle.CreatePreGrasp(gripper, c); pgc != nil {
		pregrasp.NC = append(pregrasp.NC, constraint.Term{Numerical: pgc})
		pregrasp.NCPath = append(pregrasp.NCPath, constraint.Term{Numerical: pgc})
	}
	return grasp, pregrasp
}

// StrictPlacementManifold returns the placement and preplacement manifolds
// of an object whose stable poses are foliated by complement. A nil or empty
// complement leaves the placement unfoliated.
func StrictPlacementManifold(placement, preplacement, complement *constraint.Numerical) (place, preplace FoliatedManifold) {
	place.NC = append(place.NC, constraint.Term{Numerical: placement})
	place.NCPath = append(place.NCPath, constraint.Term{Numerical: placement})
	if complement != nil && complement.OutputSize() > 0 {
		place.NCFol = append(place.NCFol, constraint.Term{Numerical: complement})
	}
	return place, preplacementManifold(preplacement)
}

// RelaxedPlacementManifold is StrictPlacementManifold with the object pose
// held by locked joints instead of a complement constraint.
func RelaxedPlacementManifold(placement, preplacement *constraint.Numerical, objectLocks []*constraint.LockedJoint) (place, preplace FoliatedManifold) {
	place.NC = append(place.NC, constraint.Term{Numerical: placement})
	place.NCPath = append(place.NCPath, constraint.Term{Numerical: placement})
	place.LJFol = append(place.LJFol, objectLocks...)
	return place, preplacementManifold(preplacement)
}

func preplacementManifold(preplacement *constraint.Numerical) FoliatedManifold {
	var m FoliatedManifold
	if preplacement == nil {
		return m
	}
	m.NC = append(m.NC, constraint.Term{Numerical: preplacement})
	m.NCPath = append(m.NCPath, constraint.Term{Numerical: preplacement})
	return m
}
