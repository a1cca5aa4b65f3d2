/*
Package builder expands high-level manipulation manifolds into constraint
graph sub-graphs.

A grasp or a placement is described by a FoliatedManifold: the constraints
that hold while resting on the manifold, the constraints that hold along paths
on it, and optionally the constraints telling the leaves of its foliation
apart (where the object sits on the table, how the gripper holds the handle).

# Transitions

CreateEdges connects two existing nodes with a forward and a backward edge.
The shape of the sub-graph depends on which optional stages exist:

 1. No pregrasp, no placement: two plain edges, the forward one possibly a
    level-set edge when a foliated grasp is requested.

 2. Pregrasp only: one "_pregrasp" waypoint node and a waypoint edge with one
    waypoint in each direction.

 3. Placement only: one "_intersec" waypoint node where both the grasp and the
    placement hold, and a waypoint edge with one waypoint in each direction.

 4. Pregrasp and placement: three waypoint nodes ("_pregrasp", "_intersec",
    "_preplace") and a waypoint edge with three waypoints in each direction.
    The segments leaving and reaching the intersection are short.

Constraints are distributed by role: placement constraints on the nodes and
edges where the object rests, grasp constraints where it is held, and the
submanifold constraints everywhere. The endpoints themselves are left alone:
the caller populates them.

# Graphs

GraphBuilder goes one level up: from objects and grippers it creates one node
per grasp state and calls CreateEdges for every way of adding one grasp to a
state.
*/
package builder
