package gekko

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestEcs_MakeEcs(t *testing.T) {
	ecs := MakeEcs()

	// Check if the fields are initialized properly
	if len(ecs.archetypes) != 0 {
		t.Errorf("Expected archetypes to be empty, got %v", ecs.archetypes)
	}

	if len(ecs.entityIndex) != 0 {
		t.Errorf("Expected entityIndex to be empty, got %v", ecs.entityIndex)
	}

	if ecs.entityIdCounter != 0 {
		t.Errorf("Expected entityIdCounter to be 0, got %v", ecs.entityIdCounter)
	}

	if ecs.componentIdCounter != 0 {
		t.Errorf("Expected componentIdCounter to be 0, got %v", ecs.componentIdCounter)
	}
}

func TestEcs_AddEntity(t *testing.T) {
	ecs := MakeEcs()

	// Add an entity with no components (can also test with components added)
	entityId := ecs.addEntity()

	// Check if the entity is added to the entityIndex
	if _, ok := ecs.entityIndex[entityId]; !ok {
		t.Errorf("Expected entityId %v to be in entityIndex", entityId)
	}

	type TestComponent struct {
		x string
	}
	testComp := TestComponent{
		x: "test",
	}

	entityId2 := ecs.addEntity(testComp)
	// Check if the entity is added to the entityIndex
	if _, ok := ecs.entityIndex[entityId2]; !ok {
		t.Errorf("Expected entityId %v to be in entityIndex", entityId2)
	}

	archId1 := ecs.entityIndex[entityId]
	archId2 := ecs.entityIndex[entityId2]
	if archId1 == archId2 {
		t.Errorf("Entities with different components ended up in the same Archetype")
	}
}

func TestEcs_AddComponents(t *testing.T) {
	type TestComponent0 struct{ a int }
	type TestComponent1 struct{ x string }
	type TestComponent2 struct{ y string }
	type TestComponent3 struct{ z string }

	ecs := MakeEcs()

	// Create a new entity
	entityId := ecs.addEntity(TestComponent0{a: 1337})

	// Add components to the entity
	ecs.addComponents(entityId, TestComponent1{x: "test"}, TestComponent2{y: "hello"})

	// Test using pointers too
	ecs.addComponents(entityId, &TestComponent3{z: "test-2"})

	// Verify if the entity's archetype has changed or the components are properly added
	// The specific checks depend on your component's expected behavior.
	// For example, check if the new archetype has the added components.
	archId := ecs.entityIndex[entityId]
	arch := ecs.archetypes[archId]
	if 4 != len(arch.componentData) {
		t.Errorf("Should have ended up in an Archetype with 4 components")
	}

	// Same shape again: overwritten in place, no archetype move.
	ecs.addComponents(entityId, TestComponent1{x: "again"})
	if ecs.entityIndex[entityId] != archId {
		t.Errorf("Expected entity to stay in its archetype")
	}
	if got := getComponent[TestComponent1](&ecs, entityId); got == nil || got.x != "again" {
		t.Errorf("Expected TestComponent1 to be overwritten, got %v", got)
	}
	if got := getComponent[TestComponent0](&ecs, entityId); got == nil || got.a != 1337 {
		t.Errorf("Expected TestComponent0 to survive the moves, got %v", got)
	}
}

func TestEcs_RemoveComponents(t *testing.T) {
	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }
	type Unused struct{}

	ecs := MakeEcs()
	id := ecs.addEntity(Position{1, 2}, Velocity{3, 4})
	before := ecs.entityIndex[id]

	ecs.removeComponents(id, Unused{})
	if ecs.entityIndex[id] != before {
		t.Errorf("Removing a missing component should not move the entity")
	}

	ecs.removeComponents(id, &Velocity{})
	if getComponent[Velocity](&ecs, id) != nil {
		t.Errorf("Velocity should be gone")
	}
	if got := getComponent[Position](&ecs, id); got == nil || *got != (Position{1, 2}) {
		t.Errorf("Position should survive, got %v", got)
	}

	// Unknown entities are ignored.
	ecs.removeComponents(id+1, Position{})
	ecs.addComponents(id+1, Position{})
	if ecs.hasEntity(id + 1) {
		t.Errorf("addComponents must not create entities")
	}
}
func TestEcs_AddInvalidComponentShouldPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on invalid component type")
		}
	}()

	ecs := MakeEcs()
	ecs.addEntity(123) // invalid component
}

func TestEcs_ComponentRegistration(t *testing.T) {
	type Position struct{ x, y float64 }

	ecs := MakeEcs()
	id1 := ecs.getComponentId(reflect.TypeOf(Position{}))
	id2 := ecs.getComponentId(reflect.TypeOf(Position{}))

	if id1 != id2 {
		t.Errorf("expected component IDs to be equal")
	}

	tp := ecs.getComponentType(id1)
	if tp != reflect.TypeOf(Position{}) {
		t.Errorf("expected Position type, got %s", tp.Name())
	}
}

func TestEcs_ArchetypeKeyExtension(t *testing.T) {
	key := dedupAndSortArchetypeKey([]componentId{3, 1, 2, 1, 3})
	expected := archetypeKey{1, 2, 3}

	for i, v := range key {
		if v != expected[i] {
			t.Errorf("dedup: expected %v, got %v", expected, key)
		}
	}

	key = combineArchetypeKeys([]componentId{1, 2, 3}, []componentId{4, 3, 2, 1})
	expected = archetypeKey{1, 2, 3, 4}

	for i, v := range key {
		if v != expected[i] {
			t.Errorf("combine: expected %v, got %v", expected, key)
		}
	}
}

func TestEcs_RemoveEntity(t *testing.T) {
	type Position struct{ X, Y float64 }

	ecs := MakeEcs()
	id := ecs.addEntity(Position{1, 2})
	ecs.removeEntity(id)

	if _, ok := ecs.entityIndex[id]; ok {
		t.Errorf("entity not removed")
	}
}

func TestEcs_EntityIdsStartAfterNoEntity(t *testing.T) {
	ecs := MakeEcs()
	if id := ecs.addEntity(); id == NoEntity {
		t.Errorf("NoEntity must never be handed out")
	}
}

func TestEcs_ComponentTypeByName(t *testing.T) {
	type Health struct{ HP int }

	ecs := MakeEcs()
	id := ecs.addEntity(Health{HP: 3})

	tp, err := ecs.componentTypeByName("Health")
	if err != nil || tp != reflect.TypeOf(Health{}) {
		t.Fatalf("expected Health to resolve, got %v: %v", tp, err)
	}
	if _, err := ecs.componentTypeByName("gekko.Health"); err != nil {
		t.Errorf("expected the qualified name to resolve: %v", err)
	}
	if _, err := ecs.componentTypeByName("Mana"); !errors.Is(err, ErrNoComponent) {
		t.Errorf("unregistered names must not resolve, got %v", err)
	}

	slot, ok := ecs.componentValue(id, tp)
	if !ok || !slot.CanSet() {
		t.Fatalf("expected an addressable component slot")
	}
	slot.Field(0).SetInt(9)
	if getComponent[Health](&ecs, id).HP != 9 {
		t.Errorf("slot writes should land in ECS storage")
	}
}

func TestEcs_RecycleEntity(t *testing.T) {
	ecs := MakeEcs()

	// Add an entity
	id := ecs.addEntity()

	// Recycle the entity
	ecs.recycleEntity(id)

	// Ensure that the entity is removed from the entityIndex and archetype
	if _, ok := ecs.entityIndex[id]; ok {
		t.Errorf("Expected entityId %v to be removed from entityIndex", id)
	}
}

func TestEcs_ComponentTypeByNameAmbiguous(t *testing.T) {
	ecs := MakeEcs()
	ecs.addEntity(Time{})
	ecs.addEntity(time.Time{})

	if _, err := ecs.componentTypeByName("Time"); !errors.Is(err, ErrAmbiguousComponent) {
		t.Errorf("expected a bare name shared by two packages to be ambiguous, got %v", err)
	}
	for _, want := range []reflect.Type{reflect.TypeOf(Time{}), reflect.TypeOf(time.Time{})} {
		got, err := ecs.componentTypeByName(want.String())
		if err != nil || got != want {
			t.Errorf("expected %s to resolve exactly, got %v: %v", want, got, err)
		}
	}
}
