package gekko

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-editor/history"
)

// TransformDrag turns a gizmo drag into history entries. The first update of
// each channel pushes an edit; later updates merge into it as long as it is
// still the newest applied entry, so a whole drag undoes in one step.
type TransformDrag struct {
	scene   *Scene
	history *history.Manager
	entity  EntityId
	merge   bool

	translate *TransformEdit[mgl32.Vec3]
	rotate    *TransformEdit[mgl32.Quat]
	scale     *TransformEdit[mgl32.Vec3]
}

// BeginDrag starts a drag of eid. With merge off every update is its own entry.
func BeginDrag(scene *Scene, hist *history.Manager, eid EntityId, merge bool) *TransformDrag {
	return &TransformDrag{
		scene:   scene,
		history: hist,
		entity:  eid,
		merge:   merge,
	}
}

func (d *TransformDrag) Entity() EntityId {
	return d.entity
}

func (d *TransformDrag) Translate(to mgl32.Vec3) error {
	return dragTo(d, &d.translate, to, func() (*TransformEdit[mgl32.Vec3], error) {
		return NewTranslate3D(d.scene, d.entity, to)
	})
}

func (d *TransformDrag) Rotate(to mgl32.Quat) error {
	return dragTo(d, &d.rotate, to, func() (*TransformEdit[mgl32.Quat], error) {
		return NewRotate3D(d.scene, d.entity, to)
	})
}

func (d *TransformDrag) Scale(to mgl32.Vec3) error {
	return dragTo(d, &d.scale, to, func() (*TransformEdit[mgl32.Vec3], error) {
		return NewScale3D(d.scene, d.entity, to)
	})
}

// End closes the drag; the next update starts a fresh history entry.
func (d *TransformDrag) End() {
	d.translate = nil
	d.rotate = nil
	d.scale = nil
}

func dragTo[V any](d *TransformDrag, edit **TransformEdit[V], to V, create func() (*TransformEdit[V], error)) error {
	if cur := *edit; cur != nil && d.merge && cur.Applied() && d.history.LastAction() == cur.Action {
		return cur.Merge(to)
	}
	e, err := create()
	if err != nil {
		return err
	}
	if err := d.history.ApplyAction(e.Action); err != nil {
		return err
	}
	*edit = e
	return nil
}
