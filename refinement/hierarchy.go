// Package refinement stores the refinement hierarchy of a Cartesian
// abstraction: a DAG of split decisions used to map a concrete state down
// to the abstract state ID it currently belongs to, in O(depth) time
// without touching the abstraction's transition system.
//
// Grounded on the original planner's
// cartesian_abstractions/refinement_hierarchy.{h,cc}.
package refinement

import "github.com/gocegar/planner/task"

// NodeID indexes into a Hierarchy's node arena. The root is always 0.
type NodeID int

// Undefined marks an absent child, split variable, or (for a leaf) never
// appears as a var/value.
const Undefined = -1

// node is either a leaf (holds a state ID) or an inner/helper node (holds
// a split variable, a split value, and two children). Right_child is
// always the child for the split value; left_child may itself be a
// helper node when a split removes more than one value from a variable.
type node struct {
	leftChild  NodeID
	rightChild NodeID
	v          int // split variable for inner nodes, Undefined for leaves
	value      int // split value for inner nodes, state ID for leaves
}

func newLeaf(stateID int) node {
	return node{leftChild: Undefined, rightChild: Undefined, v: Undefined, value: stateID}
}

func (n node) isSplit() bool { return n.leftChild != Undefined }

func (n node) stateID() int { return n.value }

// child returns the child node to follow for the given value of n's split
// variable.
func (n node) child(val int) NodeID {
	if val == n.value {
		return n.rightChild
	}
	return n.leftChild
}

// Hierarchy is the DAG of split decisions for one abstraction. Node 0 is
// the root, initially a leaf for abstract state 0 (the fully abstracted,
// single-state abstraction).
type Hierarchy struct {
	task  task.Task
	nodes []node
}

// New returns a Hierarchy with a single leaf node for state 0.
func New(t task.Task) *Hierarchy {
	return &Hierarchy{task: t, nodes: []node{newLeaf(0)}}
}

func (h *Hierarchy) addNode(stateID int) NodeID {
	id := NodeID(len(h.nodes))
	h.nodes = append(h.nodes, newLeaf(stateID))
	return id
}

// NumNodes returns the number of nodes currently in the hierarchy's arena.
func (h *Hierarchy) NumNodes() int { return len(h.nodes) }

// Split records that the state at nodeID was split on variable v: each
// value in values now maps to the right-hand abstract state rightStateID,
// every other value of v maps to the left-hand abstract state
// leftStateID. Splitting off more than one value turns nodeID into a
// chain of helper nodes so every branch remains a simple two-way test.
//
// Returns the NodeID of the (possibly helper-chained) left leaf and of
// the right leaf.
func (h *Hierarchy) Split(nodeID NodeID, v int, values []int, leftStateID, rightStateID int) (NodeID, NodeID) {
	helperID := nodeID
	rightChildID := h.addNode(rightStateID)
	for _, value := range values {
		newHelperID := h.addNode(leftStateID)
		h.nodes[helperID] = node{v: v, value: value, leftChild: newHelperID, rightChild: rightChildID}
		helperID = newHelperID
	}
	return helperID, rightChildID
}

// GetNodeID walks from the root, following state's value for each split
// node's variable, until it reaches a leaf.
func (h *Hierarchy) GetNodeID(state []int) NodeID {
	id := NodeID(0)
	for h.nodes[id].isSplit() {
		n := h.nodes[id]
		id = n.child(state[n.v])
	}
	return id
}

// GetAbstractStateID returns the abstract state ID that concreteState
// belongs to, converting concreteState through the task's ancestor
// conversion when this hierarchy belongs to a derived subtask.
func (h *Hierarchy) GetAbstractStateID(concreteState []int) int {
	state := concreteState
	if h.task.NeedsAncestorConversion(concreteState) {
		state = h.task.ConvertAncestorState(concreteState)
	}
	return h.nodes[h.GetNodeID(state)].stateID()
}

// leftChildNode tracks one candidate useless-refinement site while
// walking the hierarchy bottom-up: a pair of sibling leaves (or leaves
// reached by skipping a helper chain) and their goal distances.
type leftChildNode struct {
	leftNodeID        NodeID
	siblingID         NodeID
	dist              int
	siblingDist       int
	parent            *leftChildNode
	isChildOfRightNode bool
}

const distUnset = -1

// getLeafNodes collects every pair of sibling leaf nodes in the
// hierarchy, annotated with their goal distances, by recursively
// descending from root (or from struct, when called for a lower pair).
func (h *Hierarchy) getLeafNodes(goalDistances []int, structNode *leftChildNode) []*leftChildNode {
	if structNode == nil {
		structNode = &leftChildNode{leftNodeID: 0, siblingID: Undefined, dist: distUnset, siblingDist: distUnset}
	}

	leftNode := h.nodes[structNode.leftNodeID]
	var rightNode *node
	if structNode.parent != nil {
		n := h.nodes[structNode.siblingID]
		rightNode = &n
	}

	var leaves []*leftChildNode
	candidates := []*node{&leftNode, rightNode}
	for i, cur := range candidates {
		isRightNode := i == 1
		if cur == nil || !cur.isSplit() {
			continue
		}

		rightChild := cur.rightChild
		bottomLeftChild := cur.leftChild
		for h.nodes[bottomLeftChild].isSplit() && h.nodes[bottomLeftChild].rightChild == rightChild {
			bottomLeftChild = h.nodes[bottomLeftChild].leftChild
		}

		child := &leftChildNode{
			leftNodeID:         bottomLeftChild,
			siblingID:          rightChild,
			dist:               distUnset,
			siblingDist:        distUnset,
			parent:             structNode,
			isChildOfRightNode: isRightNode,
		}

		bottomSplit := h.nodes[bottomLeftChild].isSplit()
		rightSplit := h.nodes[rightChild].isSplit()
		if bottomSplit || rightSplit {
			leaves = append(leaves, h.getLeafNodes(goalDistances, child)...)
		}
		if !bottomSplit {
			child.dist = goalDistances[h.nodes[bottomLeftChild].stateID()]
		}
		if !rightSplit {
			child.siblingDist = goalDistances[h.nodes[rightChild].stateID()]
		}
		if !bottomSplit && !rightSplit {
			leaves = append(leaves, child)
		}
	}
	return leaves
}

// NUselessRefinements counts splits that did not change either child's
// distance to the goal: a breadth-first walk up from sibling leaf pairs
// with equal goal distance, propagating the shared distance to the
// parent split and counting it once there too.
func (h *Hierarchy) NUselessRefinements(goalDistances []int) int {
	openList := h.getLeafNodes(goalDistances, nil)

	seen := make(map[*leftChildNode]bool)
	useless := 0
	for len(openList) > 0 {
		cur := openList[0]
		openList = openList[1:]

		if cur.dist == cur.siblingDist {
			useless++
			if cur.parent != nil {
				if cur.isChildOfRightNode {
					cur.parent.siblingDist = cur.dist
				} else {
					cur.parent.dist = cur.dist
				}
				if !seen[cur.parent] {
					openList = append(openList, cur.parent)
					seen[cur.parent] = true
				}
			}
		}
	}
	return useless
}
