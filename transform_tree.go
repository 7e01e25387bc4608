package gekko

import (
	"github.com/pkg/errors"
)

var (
	ErrStaleHandle    = errors.New("transform node handle is not valid")
	ErrHierarchyCycle = errors.New("parent is the node itself or one of its descendants")
)

// NodeHandle addresses a node in a transform tree. Slots are recycled with a
// new generation, so a handle to a destroyed node never resolves again.
type NodeHandle struct {
	index      uint32
	generation uint32
}

// NoNode is the zero handle. As a parent it means "root".
var NoNode = NodeHandle{}

func (h NodeHandle) IsNone() bool {
	return h.generation == 0
}

type transformNode[P any, M any] struct {
	generation uint32
	alive      bool
	active     bool
	entity     EntityId

	pose  P
	local M
	world M
	flags TransformFlags

	parent   NodeHandle
	children []NodeHandle
}

// transformTree is an arena of nodes shared by the 2D and 3D hierarchies.
// Local and world matrices are computed lazily from the pose and the parent chain.
type transformTree[P any, M any] struct {
	nodes []transformNode[P, M]
	free  []uint32
	live  int

	localOf  func(P) M
	compose  func(parentWorld, local M) M
	identity M

	stack []NodeHandle // scratch for iterative walks
}

func newTransformTree[P any, M any](localOf func(P) M, compose func(M, M) M, identity M) transformTree[P, M] {
	return transformTree[P, M]{
		localOf:  localOf,
		compose:  compose,
		identity: identity,
	}
}

func (t *transformTree[P, M]) node(h NodeHandle) *transformNode[P, M] {
	if h.generation == 0 || int(h.index) >= len(t.nodes) {
		return nil
	}
	n := &t.nodes[h.index]
	if !n.alive || n.generation != h.generation {
		return nil
	}
	return n
}

// Create adds a root node owned by entity. New nodes count as changed this frame.
func (t *transformTree[P, M]) Create(entity EntityId, pose P) NodeHandle {
	var idx uint32
	if len(t.free) > 0 {
		idx = t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
	} else {
		idx = uint32(len(t.nodes))
		t.nodes = append(t.nodes, transformNode[P, M]{})
	}
	n := &t.nodes[idx]
	gen := n.generation + 1
	if gen == 0 {
		gen = 1
	}
	*n = transformNode[P, M]{
		generation: gen,
		alive:      true,
		active:     true,
		entity:     entity,
		pose:       pose,
		local:      t.identity,
		world:      t.identity,
		flags:      FlagLocalDirty | FlagWorldDirty | FlagLocalChanged | FlagWorldChanged,
	}
	t.live++
	return NodeHandle{index: idx, generation: gen}
}

// Destroy frees the node. Its children become roots and keep their local pose.
func (t *transformTree[P, M]) Destroy(h NodeHandle) error {
	n := t.node(h)
	if n == nil {
		return ErrStaleHandle
	}
	for _, child := range n.children {
		c := t.node(child)
		c.parent = NoNode
		c.flags |= FlagParentChanged | FlagHierarchyChanged
		t.dirtyWorld(child)
	}
	n.children = nil
	if p := t.node(n.parent); p != nil {
		p.children = removeHandle(p.children, h)
		p.flags |= FlagHierarchyChanged
	}

	var zero P
	n.alive = false
	n.pose = zero
	n.parent = NoNode
	n.entity = NoEntity
	t.free = append(t.free, h.index)
	t.live--
	return nil
}

func (t *transformTree[P, M]) Valid(h NodeHandle) bool {
	return t.node(h) != nil
}

// Len is the number of live nodes.
func (t *transformTree[P, M]) Len() int {
	return t.live
}

func (t *transformTree[P, M]) Entity(h NodeHandle) EntityId {
	if n := t.node(h); n != nil {
		return n.entity
	}
	return NoEntity
}

func (t *transformTree[P, M]) Pose(h NodeHandle) (P, bool) {
	if n := t.node(h); n != nil {
		return n.pose, true
	}
	var zero P
	return zero, false
}

// SetLocalPose replaces the whole local pose.
func (t *transformTree[P, M]) SetLocalPose(h NodeHandle, pose P) error {
	return t.mutateLocal(h, func(p *P) { *p = pose })
}

func (t *transformTree[P, M]) mutateLocal(h NodeHandle, update func(*P)) error {
	n := t.node(h)
	if n == nil {
		return ErrStaleHandle
	}
	update(&n.pose)
	n.flags |= FlagLocalDirty | FlagLocalChanged
	t.dirtyWorld(h)
	return nil
}

// dirtyWorld marks h and all its descendants as needing a new world matrix.
// A node carrying both WorldDirty and WorldChanged already has them on every
// descendant, so its subtree is skipped.
func (t *transformTree[P, M]) dirtyWorld(h NodeHandle) {
	stack := append(t.stack[:0], h)
	first := true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.node(cur)
		if n == nil {
			continue
		}
		if !first && n.flags.Has(FlagWorldDirty|FlagWorldChanged) {
			continue
		}
		first = false
		n.flags |= FlagWorldDirty | FlagWorldChanged
		stack = append(stack, n.children...)
	}
	t.stack = stack[:0]
}

func (t *transformTree[P, M]) LocalMatrix(h NodeHandle) M {
	n := t.node(h)
	if n == nil {
		return t.identity
	}
	if n.flags.Any(FlagLocalDirty) {
		n.local = t.localOf(n.pose)
		n.flags &^= FlagLocalDirty
	}
	return n.local
}

// WorldMatrix returns parentWorld * local, recomputing the dirty part of the
// ancestor chain top-down.
func (t *transformTree[P, M]) WorldMatrix(h NodeHandle) M {
	n := t.node(h)
	if n == nil {
		return t.identity
	}
	if !n.flags.Any(FlagWorldDirty) {
		return n.world
	}

	// Collect the dirty prefix of the trunk; dirtiness only ever extends downward,
	// so the first clean ancestor ends the chain.
	chain := append(t.stack[:0], h)
	for p := n.parent; !p.IsNone(); {
		pn := t.node(p)
		if pn == nil || !pn.flags.Any(FlagWorldDirty) {
			break
		}
		chain = append(chain, p)
		p = pn.parent
	}

	for i := len(chain) - 1; i >= 0; i-- {
		cur := t.node(chain[i])
		local := t.LocalMatrix(chain[i])
		if parent := t.node(cur.parent); parent != nil {
			cur.world = t.compose(parent.world, local)
		} else {
			cur.world = local
		}
		cur.flags &^= FlagWorldDirty
	}
	t.stack = chain[:0]
	return n.world
}

func (t *transformTree[P, M]) Parent(h NodeHandle) NodeHandle {
	if n := t.node(h); n != nil {
		return n.parent
	}
	return NoNode
}

// Children returns a copy of the child list in insertion order.
func (t *transformTree[P, M]) Children(h NodeHandle) []NodeHandle {
	n := t.node(h)
	if n == nil || len(n.children) == 0 {
		return nil
	}
	res := make([]NodeHandle, len(n.children))
	copy(res, n.children)
	return res
}

// IsAncestor reports whether ancestor is on the parent chain of h (h itself excluded).
func (t *transformTree[P, M]) IsAncestor(ancestor, h NodeHandle) bool {
	for p := t.Parent(h); !p.IsNone(); p = t.Parent(p) {
		if p == ancestor {
			return true
		}
	}
	return false
}

// SetParent moves h under parent, or to the root when parent is NoNode.
func (t *transformTree[P, M]) SetParent(h NodeHandle, parent NodeHandle) error {
	n := t.node(h)
	if n == nil {
		return ErrStaleHandle
	}
	if !parent.IsNone() {
		if t.node(parent) == nil {
			return errors.Wrap(ErrStaleHandle, "new parent")
		}
		if parent == h || t.IsAncestor(h, parent) {
			return ErrHierarchyCycle
		}
	}
	if n.parent == parent {
		return nil
	}

	if old := t.node(n.parent); old != nil {
		old.children = removeHandle(old.children, h)
		old.flags |= FlagHierarchyChanged
	}
	if p := t.node(parent); p != nil {
		p.children = append(p.children, h)
		p.flags |= FlagHierarchyChanged
	}
	n.parent = parent
	n.flags |= FlagParentChanged | FlagHierarchyChanged
	t.dirtyWorld(h)
	return nil
}

func (t *transformTree[P, M]) SetActive(h NodeHandle, active bool) error {
	n := t.node(h)
	if n == nil {
		return ErrStaleHandle
	}
	n.active = active
	return nil
}

func (t *transformTree[P, M]) Active(h NodeHandle) bool {
	n := t.node(h)
	return n != nil && n.active
}

func (t *transformTree[P, M]) Flags(h NodeHandle) TransformFlags {
	if n := t.node(h); n != nil {
		return n.flags
	}
	return 0
}

// LocalChanged is true when the local pose changed this frame or the previous one.
func (t *transformTree[P, M]) LocalChanged(h NodeHandle) bool {
	return t.Flags(h).Any(FlagLocalChanged | FlagLocalChangedPrev)
}

func (t *transformTree[P, M]) WorldChanged(h NodeHandle) bool {
	return t.Flags(h).Any(FlagWorldChanged | FlagWorldChangedPrev)
}

func (t *transformTree[P, M]) ParentChanged(h NodeHandle) bool {
	return t.Flags(h).Any(FlagParentChanged | FlagParentChangedPrev)
}

func (t *transformTree[P, M]) HierarchyChanged(h NodeHandle) bool {
	return t.Flags(h).Any(FlagHierarchyChanged | FlagHierarchyChangedPrev)
}

// ProcessEndFrame ages the change bits of every node by one frame.
func (t *transformTree[P, M]) ProcessEndFrame() {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.alive {
			n.flags = n.flags.shifted()
		}
	}
}

// Walk visits h and its descendants depth-first, parents before children and
// siblings in insertion order. With activeOnly, inactive subtrees are skipped.
// fn returning false stops the walk.
func (t *transformTree[P, M]) Walk(h NodeHandle, activeOnly bool, fn func(NodeHandle) bool) {
	if t.node(h) == nil {
		return
	}
	// Own stack: fn may query world matrices, which reuse the scratch stack.
	stack := []NodeHandle{h}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.node(cur)
		if n == nil || (activeOnly && !n.active) {
			continue
		}
		if !fn(cur) {
			return
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

// Trunk visits h and then each ancestor up to the root. fn returning false stops the walk.
func (t *transformTree[P, M]) Trunk(h NodeHandle, fn func(NodeHandle) bool) {
	for cur := h; t.node(cur) != nil; cur = t.Parent(cur) {
		if !fn(cur) {
			return
		}
	}
}

// Roots returns every live node without a parent, in slot order.
func (t *transformTree[P, M]) Roots() []NodeHandle {
	var res []NodeHandle
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.alive && n.parent.IsNone() {
			res = append(res, NodeHandle{index: uint32(i), generation: n.generation})
		}
	}
	return res
}

// Reset drops every node. Outstanding handles become stale.
func (t *transformTree[P, M]) Reset() {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.alive {
			n.alive = false
			n.children = nil
			n.parent = NoNode
			t.free = append(t.free, uint32(i))
		}
	}
	t.live = 0
}

func removeHandle(list []NodeHandle, h NodeHandle) []NodeHandle {
	for i, c := range list {
		if c == h {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
