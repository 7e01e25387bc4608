package gekko

type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	scene := NewScene(app.ecs, app.Logger())
	cmd.AddResources(scene)

	// Removed entities lose their node; children become roots.
	app.OnEntityRemoved(scene.RemoveTransform)

	app.UseSystem(
		System(transformEndFrameSystem).
			InStage(Finale),
	)
}

// transformEndFrameSystem runs last in the frame, after every transform write.
func transformEndFrameSystem(scene *Scene) {
	scene.ProcessEndFrame()
}
