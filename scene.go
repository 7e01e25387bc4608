package gekko

import (
	"github.com/pkg/errors"

	"github.com/gekko3d/gekko-editor/event"
)

var (
	ErrNoTransform     = errors.New("entity has no transform")
	ErrTransformExists = errors.New("entity already has a transform")
	ErrMixedHierarchy  = errors.New("entities live in different transform hierarchies")
)

// Scene binds entities to nodes of the 3D and 2D transform trees.
type Scene struct {
	ecs *Ecs
	log Logger

	Transforms3D *Transform3DTree
	Transforms2D *Transform2DTree

	nodes3D map[EntityId]NodeHandle
	nodes2D map[EntityId]NodeHandle

	resetting event.Signal[*Scene]
}

func NewScene(ecs *Ecs, log Logger) *Scene {
	if log == nil {
		log = NewNopLogger()
	}
	return &Scene{
		ecs:          ecs,
		log:          log,
		Transforms3D: NewTransform3DTree(),
		Transforms2D: NewTransform2DTree(),
		nodes3D:      make(map[EntityId]NodeHandle),
		nodes2D:      make(map[EntityId]NodeHandle),
	}
}

func (s *Scene) AddTransform3D(eid EntityId, pose Pose3D) (NodeHandle, error) {
	if s.hasTransform(eid) {
		return NoNode, errors.Wrapf(ErrTransformExists, "entity %d", eid)
	}
	h := s.Transforms3D.Create(eid, pose)
	s.nodes3D[eid] = h
	return h, nil
}

func (s *Scene) AddTransform2D(eid EntityId, pose Pose2D) (NodeHandle, error) {
	if s.hasTransform(eid) {
		return NoNode, errors.Wrapf(ErrTransformExists, "entity %d", eid)
	}
	h := s.Transforms2D.Create(eid, pose)
	s.nodes2D[eid] = h
	return h, nil
}

func (s *Scene) hasTransform(eid EntityId) bool {
	_, in3D := s.nodes3D[eid]
	_, in2D := s.nodes2D[eid]
	return in3D || in2D
}

func (s *Scene) Transform3D(eid EntityId) (NodeHandle, bool) {
	h, ok := s.nodes3D[eid]
	return h, ok
}

func (s *Scene) Transform2D(eid EntityId) (NodeHandle, bool) {
	h, ok := s.nodes2D[eid]
	return h, ok
}

// RemoveTransform destroys the entity's node; its children become roots.
func (s *Scene) RemoveTransform(eid EntityId) {
	if h, ok := s.nodes3D[eid]; ok {
		s.orphanChildren(s.Transforms3D.Children(h), s.Transforms3D.Entity)
		_ = s.Transforms3D.Destroy(h)
		delete(s.nodes3D, eid)
	}
	if h, ok := s.nodes2D[eid]; ok {
		s.orphanChildren(s.Transforms2D.Children(h), s.Transforms2D.Entity)
		_ = s.Transforms2D.Destroy(h)
		delete(s.nodes2D, eid)
	}
}

func (s *Scene) orphanChildren(children []NodeHandle, entityOf func(NodeHandle) EntityId) {
	for _, c := range children {
		s.log.Debugf("scene: entity %d orphaned", entityOf(c))
	}
}

// hierarchy is the dimension-independent part of a transform tree.
type hierarchy interface {
	Entity(h NodeHandle) EntityId
	Parent(h NodeHandle) NodeHandle
	Children(h NodeHandle) []NodeHandle
	SetParent(h NodeHandle, parent NodeHandle) error
	SetActive(h NodeHandle, active bool) error
	Active(h NodeHandle) bool
	Walk(h NodeHandle, activeOnly bool, fn func(NodeHandle) bool)
	Trunk(h NodeHandle, fn func(NodeHandle) bool)
	ProcessEndFrame()
}

func (s *Scene) lookup(eid EntityId) (hierarchy, NodeHandle, bool) {
	if h, ok := s.nodes3D[eid]; ok {
		return s.Transforms3D, h, true
	}
	if h, ok := s.nodes2D[eid]; ok {
		return s.Transforms2D, h, true
	}
	return nil, NoNode, false
}

// SetParent moves child under parent. NoEntity as parent makes child a root.
func (s *Scene) SetParent(child, parent EntityId) error {
	tree, ch, ok := s.lookup(child)
	if !ok {
		return errors.Wrapf(ErrNoTransform, "entity %d", child)
	}
	if parent == NoEntity {
		return tree.SetParent(ch, NoNode)
	}
	parentTree, ph, ok := s.lookup(parent)
	if !ok {
		return errors.Wrapf(ErrNoTransform, "parent entity %d", parent)
	}
	if parentTree != tree {
		return errors.Wrapf(ErrMixedHierarchy, "entity %d under %d", child, parent)
	}
	if err := tree.SetParent(ch, ph); err != nil {
		return errors.Wrapf(err, "entity %d under %d", child, parent)
	}
	return nil
}

// CanParent reports whether SetParent(child, parent) would succeed.
func (s *Scene) CanParent(child, parent EntityId) error {
	tree, ch, ok := s.lookup(child)
	if !ok {
		return errors.Wrapf(ErrNoTransform, "entity %d", child)
	}
	if parent == NoEntity {
		return nil
	}
	parentTree, ph, ok := s.lookup(parent)
	if !ok {
		return errors.Wrapf(ErrNoTransform, "parent entity %d", parent)
	}
	if parentTree != tree {
		return errors.Wrapf(ErrMixedHierarchy, "entity %d under %d", child, parent)
	}
	if ph == ch {
		return ErrHierarchyCycle
	}
	cycle := false
	tree.Trunk(ph, func(h NodeHandle) bool {
		cycle = h == ch
		return !cycle
	})
	if cycle {
		return ErrHierarchyCycle
	}
	return nil
}

// Parent returns the parent entity, or NoEntity for roots and unknown entities.
func (s *Scene) Parent(eid EntityId) EntityId {
	tree, h, ok := s.lookup(eid)
	if !ok {
		return NoEntity
	}
	return tree.Entity(tree.Parent(h))
}

func (s *Scene) Children(eid EntityId) []EntityId {
	tree, h, ok := s.lookup(eid)
	if !ok {
		return nil
	}
	children := tree.Children(h)
	res := make([]EntityId, 0, len(children))
	for _, c := range children {
		res = append(res, tree.Entity(c))
	}
	return res
}

func (s *Scene) SetActive(eid EntityId, active bool) error {
	tree, h, ok := s.lookup(eid)
	if !ok {
		return errors.Wrapf(ErrNoTransform, "entity %d", eid)
	}
	return tree.SetActive(h, active)
}

// Entities lists root and its descendants in depth-first pre-order.
func (s *Scene) Entities(root EntityId, activeOnly bool) []EntityId {
	tree, h, ok := s.lookup(root)
	if !ok {
		return nil
	}
	var res []EntityId
	tree.Walk(h, activeOnly, func(n NodeHandle) bool {
		res = append(res, tree.Entity(n))
		return true
	})
	return res
}

// SubtreeComponents collects component T from root and its descendants in
// depth-first pre-order. The pointers address ECS storage and are valid until
// the next structural change of the ECS.
func SubtreeComponents[T any](s *Scene, root EntityId, activeOnly bool) []*T {
	var res []*T
	for _, eid := range s.Entities(root, activeOnly) {
		if c := getComponent[T](s.ecs, eid); c != nil {
			res = append(res, c)
		}
	}
	return res
}

// FirstTrunkComponent returns the T closest to eid on the path from eid to its root.
func FirstTrunkComponent[T any](s *Scene, eid EntityId) *T {
	tree, h, ok := s.lookup(eid)
	if !ok {
		return nil
	}
	var found *T
	tree.Trunk(h, func(n NodeHandle) bool {
		found = getComponent[T](s.ecs, tree.Entity(n))
		return found == nil
	})
	return found
}

// LastTrunkComponent returns the T farthest from eid on the path from eid to its root.
func LastTrunkComponent[T any](s *Scene, eid EntityId) *T {
	tree, h, ok := s.lookup(eid)
	if !ok {
		return nil
	}
	var found *T
	tree.Trunk(h, func(n NodeHandle) bool {
		if c := getComponent[T](s.ecs, tree.Entity(n)); c != nil {
			found = c
		}
		return true
	})
	return found
}

// ProcessEndFrame ages the change flags of both trees.
func (s *Scene) ProcessEndFrame() {
	s.Transforms3D.ProcessEndFrame()
	s.Transforms2D.ProcessEndFrame()
}

// Resetting fires at the start of Reset, while the old nodes still resolve.
func (s *Scene) Resetting() *event.Signal[*Scene] {
	return &s.resetting
}

// Reset drops every transform. Anything holding handles or actions into the
// old scene has to let go when Resetting fires.
func (s *Scene) Reset() {
	s.resetting.Emit(s)
	s.Transforms3D.Reset()
	s.Transforms2D.Reset()
	clear(s.nodes3D)
	clear(s.nodes2D)
}
