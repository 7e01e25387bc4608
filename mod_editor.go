package gekko

import (
	"github.com/gekko3d/gekko-editor/history"
)

// EditorModule installs the undo history, the selection and the undo/redo
// shortcuts. Install it after HierarchyModule and InputModule.
type EditorModule struct {
	Config *EditorConfig
}

func (m EditorModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := app.Logger()

	hist := history.NewManager(
		history.WithCapacity(cfg.History.Capacity),
		history.WithLogger(log),
	)
	settings := cfg.Editor
	cmd.AddResources(hist, &Selection{}, &settings)

	// Actions hold entity ids into the scene; they must not outlive it.
	if scene := Resource[Scene](app); scene != nil {
		scene.Resetting().Subscribe(func(*Scene) {
			log.Debugf("editor: scene reset, dropping %d history entries", hist.Len())
			hist.Clear()
		})
	} else {
		log.Warnf("editor: no Scene resource, install HierarchyModule first")
	}

	if Resource[Input](app) != nil {
		app.UseSystem(System(undoShortcutSystem).InStage(PreUpdate))
	} else {
		log.Warnf("editor: no Input resource, undo shortcuts disabled")
	}
	app.UseSystem(System(selectionSyncSystem).InStage(PostUpdate))
}

// undoShortcutSystem maps Ctrl+Z to undo and Ctrl+Y (or Ctrl+Shift+Z) to redo.
func undoShortcutSystem(cmd *Commands, input *Input, hist *history.Manager, settings *EditorSettings) {
	if !input.Control() {
		return
	}

	var err error
	switch {
	case input.JustPressed[KeyZ] && input.Shift():
		if settings.RedoShiftZ {
			_, err = hist.Redo()
		}
	case input.JustPressed[KeyZ]:
		_, err = hist.Undo()
	case input.JustPressed[KeyY]:
		_, err = hist.Redo()
	}
	if err != nil {
		cmd.app.Logger().Errorf("editor: %v", err)
	}
}
