package gekko

import (
	"reflect"
)

type Query1[A any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A] { return Query1[A]{ecs: cmd.app.ecs} }

// Map calls m for every entity that has an A. Returning false stops the iteration.
// When A is passed as an optional, entities without it are visited with a nil pointer.
func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := q.ecs.getComponentId(reflect.TypeOf((*A)(nil)).Elem())
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		var comps1 []A
		noA := false
		if compData, ok := arch.componentData[id1]; ok {
			comps1 = compData.([]A)
		} else if _, ok := opt[id1]; ok {
			noA = true
		} else {
			continue
		}

		for entityId, row := range arch.entities {
			var a *A
			if !noA {
				a = &comps1[row]
			}
			if !m(entityId, a) {
				return
			}
		}
	}
}

// Collect returns the matching entity ids; handy when the caller is about to
// change the archetypes it iterates over.
func (q Query1[A]) Collect() []EntityId {
	var res []EntityId
	q.Map(func(eid EntityId, _ *A) bool {
		res = append(res, eid)
		return true
	})
	return res
}

func identifyOptionals(ecs *Ecs, optionals ...any) set[componentId] {
	res := make(set[componentId])
	for _, o := range optionals {
		t := reflect.TypeOf(o)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		res[ecs.getComponentId(t)] = struct{}{}
	}
	return res
}

// GetComponent returns the entity's component of type T, or nil.
func GetComponent[T any](cmd *Commands, entityId EntityId) *T {
	return getComponent[T](cmd.app.ecs, entityId)
}
