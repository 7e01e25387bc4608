package gekko

import (
	"slices"

	"github.com/gekko3d/gekko-editor/event"
)

// EditorSelectedComponent marks an entity as selected in the editor.
type EditorSelectedComponent struct{}

// Selection is the editor's current selection: scene entities plus
// arbitrary objects such as asset ids.
type Selection struct {
	entities []EntityId
	objects  []any

	changed event.Signal[*Selection]
}

func (s *Selection) Entities() []EntityId {
	return slices.Clone(s.entities)
}

func (s *Selection) Objects() []any {
	return slices.Clone(s.objects)
}

func (s *Selection) IsSelected(eid EntityId) bool {
	return slices.Contains(s.entities, eid)
}

// SetEntities replaces the entity selection. Duplicates are dropped, order is kept.
func (s *Selection) SetEntities(ids []EntityId) {
	next := make([]EntityId, 0, len(ids))
	for _, id := range ids {
		if id != NoEntity && !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	if slices.Equal(next, s.entities) {
		return
	}
	s.entities = next
	s.changed.Emit(s)
}

func (s *Selection) SetObjects(objs []any) {
	s.objects = slices.Clone(objs)
	s.changed.Emit(s)
}

func (s *Selection) Clear() {
	if len(s.entities) == 0 && len(s.objects) == 0 {
		return
	}
	s.entities = nil
	s.objects = nil
	s.changed.Emit(s)
}

func (s *Selection) Changed() *event.Signal[*Selection] {
	return &s.changed
}

// selectionSyncSystem mirrors the entity selection into EditorSelectedComponent
// markers and forgets entities that no longer exist.
func selectionSyncSystem(cmd *Commands, sel *Selection) {
	alive := slices.DeleteFunc(sel.Entities(), func(eid EntityId) bool {
		return !cmd.HasEntity(eid)
	})
	if len(alive) != len(sel.entities) {
		sel.SetEntities(alive)
	}

	marked := MakeQuery1[EditorSelectedComponent](cmd).Collect()
	for _, eid := range marked {
		if !sel.IsSelected(eid) {
			cmd.RemoveComponents(eid, EditorSelectedComponent{})
		}
	}
	for _, eid := range sel.entities {
		if !slices.Contains(marked, eid) {
			cmd.AddComponents(eid, EditorSelectedComponent{})
		}
	}
}
