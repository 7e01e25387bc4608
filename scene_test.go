package gekko

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Tag struct {
	Name string
}

type Layer struct {
	Index int
}

func newSceneApp(t *testing.T) (*App, *Commands, *Scene) {
	t.Helper()
	app := NewApp()
	app.UseModules(HierarchyModule{})
	scene := Resource[Scene](app)
	require.NotNil(t, scene)
	return app, app.Commands(), scene
}

func TestSceneAddTransform(t *testing.T) {
	_, _, scene := newSceneApp(t)

	h, err := scene.AddTransform3D(1, pose3(1, 2, 3))
	require.NoError(t, err)
	got, ok := scene.Transform3D(1)
	assert.True(t, ok)
	assert.Equal(t, h, got)

	_, err = scene.AddTransform3D(1, IdentityPose3D())
	assert.ErrorIs(t, err, ErrTransformExists)
	_, err = scene.AddTransform2D(1, IdentityPose2D())
	assert.ErrorIs(t, err, ErrTransformExists)

	_, ok = scene.Transform2D(1)
	assert.False(t, ok)
}

func TestSceneSetParent(t *testing.T) {
	_, _, scene := newSceneApp(t)
	for _, eid := range []EntityId{1, 2, 3} {
		_, err := scene.AddTransform3D(eid, IdentityPose3D())
		require.NoError(t, err)
	}
	_, err := scene.AddTransform2D(4, IdentityPose2D())
	require.NoError(t, err)

	require.NoError(t, scene.SetParent(2, 1))
	require.NoError(t, scene.SetParent(3, 2))
	assert.Equal(t, EntityId(1), scene.Parent(2))
	assert.Equal(t, []EntityId{2}, scene.Children(1))

	assert.ErrorIs(t, scene.SetParent(1, 3), ErrHierarchyCycle)
	assert.ErrorIs(t, scene.CanParent(1, 3), ErrHierarchyCycle)
	assert.ErrorIs(t, scene.SetParent(4, 1), ErrMixedHierarchy)
	assert.ErrorIs(t, scene.SetParent(9, 1), ErrNoTransform)
	assert.ErrorIs(t, scene.SetParent(1, 9), ErrNoTransform)

	require.NoError(t, scene.SetParent(3, NoEntity))
	assert.Equal(t, NoEntity, scene.Parent(3))
}

func TestSceneEntitiesAndComponents(t *testing.T) {
	app, cmd, scene := newSceneApp(t)

	root := cmd.AddEntity(&Tag{Name: "root"}, &Layer{Index: 1})
	a := cmd.AddEntity(&Tag{Name: "a"})
	b := cmd.AddEntity(&Layer{Index: 2})
	c := cmd.AddEntity(&Tag{Name: "c"})
	app.FlushCommands()

	for _, eid := range []EntityId{root, a, b, c} {
		_, err := scene.AddTransform3D(eid, IdentityPose3D())
		require.NoError(t, err)
	}
	require.NoError(t, scene.SetParent(a, root))
	require.NoError(t, scene.SetParent(b, a))
	require.NoError(t, scene.SetParent(c, root))

	assert.Equal(t, []EntityId{root, a, b, c}, scene.Entities(root, false))

	tags := SubtreeComponents[Tag](scene, root, false)
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	assert.Equal(t, []string{"root", "a", "c"}, names)

	require.NoError(t, scene.SetActive(a, false))
	assert.Equal(t, []EntityId{root, c}, scene.Entities(root, true))
	assert.Len(t, SubtreeComponents[Layer](scene, root, true), 1)

	// Pointers address ECS storage.
	tags[0].Name = "renamed"
	assert.Equal(t, "renamed", GetComponent[Tag](cmd, root).Name)

	assert.Equal(t, 2, FirstTrunkComponent[Layer](scene, b).Index)
	assert.Equal(t, 1, LastTrunkComponent[Layer](scene, b).Index)
	assert.Equal(t, "a", FirstTrunkComponent[Tag](scene, b).Name)
	assert.Equal(t, "renamed", LastTrunkComponent[Tag](scene, b).Name)
	assert.Equal(t, 1, FirstTrunkComponent[Layer](scene, c).Index)
	assert.Nil(t, FirstTrunkComponent[EditorSelectedComponent](scene, b))
	assert.Nil(t, LastTrunkComponent[Tag](scene, 99))
}

func TestSceneRemovedEntityOrphansChildren(t *testing.T) {
	app, cmd, scene := newSceneApp(t)
	parent := cmd.AddEntity(&Tag{Name: "parent"})
	child := cmd.AddEntity(&Tag{Name: "child"})
	app.FlushCommands()

	_, err := scene.AddTransform3D(parent, pose3(10, 0, 0))
	require.NoError(t, err)
	childNode, err := scene.AddTransform3D(child, pose3(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, scene.SetParent(child, parent))

	cmd.RemoveEntity(parent)
	app.FlushCommands()

	_, ok := scene.Transform3D(parent)
	assert.False(t, ok)
	assert.Equal(t, NoEntity, scene.Parent(child))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, scene.Transforms3D.WorldPosition(childNode))
}

func TestSceneEndFrameRunsInFinale(t *testing.T) {
	app, _, scene := newSceneApp(t)
	h, err := scene.AddTransform3D(1, IdentityPose3D())
	require.NoError(t, err)

	app.Tick()
	assert.True(t, scene.Transforms3D.LocalChanged(h))
	app.Tick()
	assert.False(t, scene.Transforms3D.LocalChanged(h))
}

func TestSceneReset(t *testing.T) {
	_, _, scene := newSceneApp(t)
	h, err := scene.AddTransform2D(1, IdentityPose2D())
	require.NoError(t, err)

	fired := 0
	scene.Resetting().Subscribe(func(s *Scene) {
		fired++
		_, ok := s.Transform2D(1)
		assert.True(t, ok, "nodes still resolve while Resetting fires")
	})
	scene.Reset()

	assert.Equal(t, 1, fired)
	assert.False(t, scene.Transforms2D.Valid(h))
	assert.Nil(t, scene.Entities(1, false))
}
