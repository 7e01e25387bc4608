package gekko

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-editor/history"
)

func newEditorScene(t *testing.T) (*Scene, *history.Manager) {
	t.Helper()
	_, _, scene := newSceneApp(t)
	return scene, history.NewManager()
}

func TestTranslateUndoRedo(t *testing.T) {
	scene, hist := newEditorScene(t)
	h, err := scene.AddTransform3D(1, pose3(1, 0, 0))
	require.NoError(t, err)

	edit, err := NewTranslate3D(scene, 1, mgl32.Vec3{5, 5, 5})
	require.NoError(t, err)
	require.NoError(t, hist.ApplyAction(edit.Action))
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, scene.Transforms3D.LocalPosition(h))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, edit.Before())

	_, err = hist.Undo()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, scene.Transforms3D.LocalPosition(h))

	_, err = hist.Redo()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, scene.Transforms3D.WorldPosition(h))
}

func TestTransformEditMissingTransform(t *testing.T) {
	scene, _ := newEditorScene(t)
	_, err := scene.AddTransform2D(1, IdentityPose2D())
	require.NoError(t, err)

	_, err = NewTranslate3D(scene, 1, mgl32.Vec3{})
	assert.ErrorIs(t, err, ErrNoTransform)
	_, err = NewRotate3D(scene, 2, mgl32.QuatIdent())
	assert.ErrorIs(t, err, ErrNoTransform)
	_, err = NewScale2D(scene, 2, mgl32.Vec2{})
	assert.ErrorIs(t, err, ErrNoTransform)
}

func TestMergeKeepsHistorySize(t *testing.T) {
	scene, hist := newEditorScene(t)
	h, err := scene.AddTransform3D(1, IdentityPose3D())
	require.NoError(t, err)

	edit, err := NewTranslate3D(scene, 1, mgl32.Vec3{1, 0, 0})
	require.NoError(t, err)
	require.NoError(t, hist.ApplyAction(edit.Action))

	for i := 2; i <= 10; i++ {
		require.NoError(t, edit.Merge(mgl32.Vec3{float32(i), 0, 0}))
		assert.Equal(t, 1, hist.Len())
		assert.Equal(t, mgl32.Vec3{float32(i), 0, 0}, scene.Transforms3D.LocalPosition(h))
	}

	_, err = hist.Undo()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{}, scene.Transforms3D.LocalPosition(h))
	_, err = hist.Redo()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{10, 0, 0}, scene.Transforms3D.LocalPosition(h))
}

func TestMergeWhileRevertedOnlyUpdatesPayload(t *testing.T) {
	scene, _ := newEditorScene(t)
	h, err := scene.AddTransform2D(1, IdentityPose2D())
	require.NoError(t, err)

	edit, err := NewRotate2D(scene, 1, 1)
	require.NoError(t, err)
	require.NoError(t, edit.Merge(2))
	assert.Equal(t, float32(0), scene.Transforms2D.LocalRotation(h))

	require.NoError(t, edit.Apply())
	assert.Equal(t, float32(2), scene.Transforms2D.LocalRotation(h))
}

func TestTransformRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	scene, hist := newEditorScene(t)
	hist.SetCapacity(1000)

	var nodes []NodeHandle
	var start []Pose3D
	for eid := EntityId(1); eid <= 5; eid++ {
		pose := Pose3D{
			Position: mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()},
			Rotation: mgl32.QuatRotate(rng.Float32(), mgl32.Vec3{0, 1, 0}),
			Scale:    mgl32.Vec3{1, 1, 1},
		}
		h, err := scene.AddTransform3D(eid, pose)
		require.NoError(t, err)
		nodes = append(nodes, h)
		start = append(start, pose)
	}

	const n = 60
	for i := 0; i < n; i++ {
		eid := EntityId(rng.Intn(5) + 1)
		var a *history.Action
		switch rng.Intn(3) {
		case 0:
			e, err := NewTranslate3D(scene, eid, mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()})
			require.NoError(t, err)
			a = e.Action
		case 1:
			e, err := NewRotate3D(scene, eid, mgl32.QuatRotate(rng.Float32(), mgl32.Vec3{1, 0, 0}))
			require.NoError(t, err)
			a = e.Action
		case 2:
			e, err := NewScale3D(scene, eid, mgl32.Vec3{rng.Float32(), 2, 3})
			require.NoError(t, err)
			a = e.Action
		}
		require.NoError(t, hist.ApplyAction(a))
	}

	for i := 0; i < n; i++ {
		ok, err := hist.Undo()
		require.NoError(t, err)
		require.True(t, ok)
	}
	for i, h := range nodes {
		pose, _ := scene.Transforms3D.Pose(h)
		assert.Equal(t, start[i], pose, "entity %d", i+1)
	}
}

func TestChangeParentAction(t *testing.T) {
	scene, hist := newEditorScene(t)
	for _, eid := range []EntityId{1, 2, 3} {
		_, err := scene.AddTransform3D(eid, IdentityPose3D())
		require.NoError(t, err)
	}
	require.NoError(t, scene.SetParent(3, 1))

	a, err := NewChangeParent(scene, 3, 2)
	require.NoError(t, err)
	require.NoError(t, hist.ApplyAction(a))
	assert.Equal(t, EntityId(2), scene.Parent(3))

	_, err = hist.Undo()
	require.NoError(t, err)
	assert.Equal(t, EntityId(1), scene.Parent(3))

	unparent, err := NewChangeParent(scene, 3, NoEntity)
	require.NoError(t, err)
	assert.Equal(t, "Unparent entity 3", unparent.Name())

	_, err = NewChangeParent(scene, 1, 3)
	assert.ErrorIs(t, err, ErrHierarchyCycle)
	_, err = NewChangeParent(scene, 7, 1)
	assert.ErrorIs(t, err, ErrNoTransform)
}

func TestSelectActions(t *testing.T) {
	sel := &Selection{}
	hist := history.NewManager()
	changes := 0
	sel.Changed().Subscribe(func(*Selection) { changes++ })

	require.NoError(t, hist.ApplyAction(NewSelectEntities(sel, []EntityId{1, 2, 2})))
	assert.Equal(t, []EntityId{1, 2}, sel.Entities())

	require.NoError(t, hist.ApplyAction(NewSelectEntities(sel, []EntityId{3})))
	require.NoError(t, hist.ApplyAction(NewSelectObjects(sel, []any{"asset:crate"})))
	assert.Equal(t, []any{"asset:crate"}, sel.Objects())

	_, err := hist.Undo()
	require.NoError(t, err)
	assert.Empty(t, sel.Objects())
	_, err = hist.Undo()
	require.NoError(t, err)
	assert.Equal(t, []EntityId{1, 2}, sel.Entities())
	_, err = hist.Undo()
	require.NoError(t, err)
	assert.Empty(t, sel.Entities())

	assert.Equal(t, 6, changes)
}

func TestApplyActionsGroupsEdits(t *testing.T) {
	scene, hist := newEditorScene(t)
	h, err := scene.AddTransform3D(1, IdentityPose3D())
	require.NoError(t, err)

	move, err := NewTranslate3D(scene, 1, mgl32.Vec3{1, 2, 3})
	require.NoError(t, err)
	grow, err := NewScale3D(scene, 1, mgl32.Vec3{2, 2, 2})
	require.NoError(t, err)

	require.NoError(t, hist.ApplyActions(move.Action, grow.Action))
	assert.Equal(t, 1, hist.Len())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, scene.Transforms3D.LocalScale(h))

	_, err = hist.Undo()
	require.NoError(t, err)
	assert.Equal(t, IdentityPose3D(), mustPose(t, scene, h))
}

func mustPose(t *testing.T, scene *Scene, h NodeHandle) Pose3D {
	t.Helper()
	p, ok := scene.Transforms3D.Pose(h)
	require.True(t, ok)
	return p
}
