package gekko

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/gekko3d/gekko-editor/history"
)

// valueChange moves a target between two values through set.
type valueChange[V any] struct {
	before V
	after  V
	set    func(V) error
}

func (c *valueChange[V]) Apply() error  { return c.set(c.after) }
func (c *valueChange[V]) Revert() error { return c.set(c.before) }

// TransformEdit is an undoable edit of one transform channel (position,
// rotation or scale) of one entity.
type TransformEdit[V any] struct {
	*history.Action
	change *valueChange[V]
}

func newTransformEdit[V any](name string, before, after V, set func(V) error) *TransformEdit[V] {
	change := &valueChange[V]{before: before, after: after, set: set}
	return &TransformEdit[V]{
		Action: history.NewAction(name, change),
		change: change,
	}
}

func (e *TransformEdit[V]) Before() V { return e.change.before }
func (e *TransformEdit[V]) After() V  { return e.change.after }

// Merge replaces the target value of a drag in progress. An applied edit
// takes the new value immediately; the history is left untouched.
func (e *TransformEdit[V]) Merge(to V) error {
	return e.Modify(func() { e.change.after = to })
}

// on3D resolves the entity's node at apply time, so an edit keeps working
// when the entity was reparented in between.
func (s *Scene) on3D(eid EntityId, fn func(t *Transform3DTree, h NodeHandle) error) error {
	h, ok := s.Transform3D(eid)
	if !ok {
		return errors.Wrapf(ErrNoTransform, "entity %d", eid)
	}
	return fn(s.Transforms3D, h)
}

func (s *Scene) on2D(eid EntityId, fn func(t *Transform2DTree, h NodeHandle) error) error {
	h, ok := s.Transform2D(eid)
	if !ok {
		return errors.Wrapf(ErrNoTransform, "entity %d", eid)
	}
	return fn(s.Transforms2D, h)
}

func NewTranslate3D(scene *Scene, eid EntityId, to mgl32.Vec3) (*TransformEdit[mgl32.Vec3], error) {
	h, ok := scene.Transform3D(eid)
	if !ok {
		return nil, errors.Wrapf(ErrNoTransform, "translate entity %d", eid)
	}
	before := scene.Transforms3D.LocalPosition(h)
	return newTransformEdit(fmt.Sprintf("Translate entity %d", eid), before, to, func(v mgl32.Vec3) error {
		return scene.on3D(eid, func(t *Transform3DTree, h NodeHandle) error {
			return t.SetLocalPosition(h, v)
		})
	}), nil
}

func NewRotate3D(scene *Scene, eid EntityId, to mgl32.Quat) (*TransformEdit[mgl32.Quat], error) {
	h, ok := scene.Transform3D(eid)
	if !ok {
		return nil, errors.Wrapf(ErrNoTransform, "rotate entity %d", eid)
	}
	before := scene.Transforms3D.LocalRotation(h)
	return newTransformEdit(fmt.Sprintf("Rotate entity %d", eid), before, to, func(v mgl32.Quat) error {
		return scene.on3D(eid, func(t *Transform3DTree, h NodeHandle) error {
			return t.SetLocalRotation(h, v)
		})
	}), nil
}

func NewScale3D(scene *Scene, eid EntityId, to mgl32.Vec3) (*TransformEdit[mgl32.Vec3], error) {
	h, ok := scene.Transform3D(eid)
	if !ok {
		return nil, errors.Wrapf(ErrNoTransform, "scale entity %d", eid)
	}
	before := scene.Transforms3D.LocalScale(h)
	return newTransformEdit(fmt.Sprintf("Scale entity %d", eid), before, to, func(v mgl32.Vec3) error {
		return scene.on3D(eid, func(t *Transform3DTree, h NodeHandle) error {
			return t.SetLocalScale(h, v)
		})
	}), nil
}

func NewTranslate2D(scene *Scene, eid EntityId, to mgl32.Vec2) (*TransformEdit[mgl32.Vec2], error) {
	h, ok := scene.Transform2D(eid)
	if !ok {
		return nil, errors.Wrapf(ErrNoTransform, "translate entity %d", eid)
	}
	before := scene.Transforms2D.LocalPosition(h)
	return newTransformEdit(fmt.Sprintf("Translate entity %d", eid), before, to, func(v mgl32.Vec2) error {
		return scene.on2D(eid, func(t *Transform2DTree, h NodeHandle) error {
			return t.SetLocalPosition(h, v)
		})
	}), nil
}

// NewRotate2D edits the planar rotation, in radians.
func NewRotate2D(scene *Scene, eid EntityId, to float32) (*TransformEdit[float32], error) {
	h, ok := scene.Transform2D(eid)
	if !ok {
		return nil, errors.Wrapf(ErrNoTransform, "rotate entity %d", eid)
	}
	before := scene.Transforms2D.LocalRotation(h)
	return newTransformEdit(fmt.Sprintf("Rotate entity %d", eid), before, to, func(v float32) error {
		return scene.on2D(eid, func(t *Transform2DTree, h NodeHandle) error {
			return t.SetLocalRotation(h, v)
		})
	}), nil
}

func NewScale2D(scene *Scene, eid EntityId, to mgl32.Vec2) (*TransformEdit[mgl32.Vec2], error) {
	h, ok := scene.Transform2D(eid)
	if !ok {
		return nil, errors.Wrapf(ErrNoTransform, "scale entity %d", eid)
	}
	before := scene.Transforms2D.LocalScale(h)
	return newTransformEdit(fmt.Sprintf("Scale entity %d", eid), before, to, func(v mgl32.Vec2) error {
		return scene.on2D(eid, func(t *Transform2DTree, h NodeHandle) error {
			return t.SetLocalScale(h, v)
		})
	}), nil
}

// NewChangeParent moves child under parent, or to the root for NoEntity.
// Undo restores the previous parent. Cyclic moves are refused up front.
func NewChangeParent(scene *Scene, child, parent EntityId) (*history.Action, error) {
	if err := scene.CanParent(child, parent); err != nil {
		return nil, err
	}
	change := &valueChange[EntityId]{
		before: scene.Parent(child),
		after:  parent,
		set: func(p EntityId) error {
			return scene.SetParent(child, p)
		},
	}
	name := fmt.Sprintf("Parent entity %d to %d", child, parent)
	if parent == NoEntity {
		name = fmt.Sprintf("Unparent entity %d", child)
	}
	return history.NewAction(name, change), nil
}

func NewSelectEntities(sel *Selection, ids []EntityId) *history.Action {
	change := &valueChange[[]EntityId]{
		before: sel.Entities(),
		after:  append([]EntityId(nil), ids...),
		set: func(v []EntityId) error {
			sel.SetEntities(v)
			return nil
		},
	}
	return history.NewAction(fmt.Sprintf("Select %d entities", len(ids)), change)
}

func NewSelectObjects(sel *Selection, objs []any) *history.Action {
	change := &valueChange[[]any]{
		before: sel.Objects(),
		after:  append([]any(nil), objs...),
		set: func(v []any) error {
			sel.SetObjects(v)
			return nil
		},
	}
	return history.NewAction(fmt.Sprintf("Select %d objects", len(objs)), change)
}
