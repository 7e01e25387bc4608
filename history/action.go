// Package history records reversible editor actions and moves a cursor
// through them for undo and redo.
package history

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gekko3d/gekko-editor/event"
)

// Change is the reversible payload of an Action.
// Apply moves the target to the "after" state, Revert back to the "before" state.
type Change interface {
	Apply() error
	Revert() error
}

// AppliedEvent is emitted whenever an action's applied flag flips.
type AppliedEvent struct {
	Action  *Action
	Applied bool
}

// now is swapped out by tests that care about timestamps.
var now = time.Now

type Action struct {
	id       string
	name     string
	change   Change
	applied  bool
	created  int64
	modified int64

	appliedChanged event.Signal[AppliedEvent]
}

// NewAction wraps change into an unapplied action.
func NewAction(name string, change Change) *Action {
	ts := now().Unix()
	return &Action{
		id:       uuid.NewString(),
		name:     name,
		change:   change,
		created:  ts,
		modified: ts,
	}
}

func (a *Action) ID() string      { return a.id }
func (a *Action) Name() string    { return a.name }
func (a *Action) Applied() bool   { return a.applied }
func (a *Action) Created() int64  { return a.created }
func (a *Action) Modified() int64 { return a.modified }
func (a *Action) Change() Change  { return a.change }

// AppliedChanged fires after every successful Apply or Revert.
func (a *Action) AppliedChanged() *event.Signal[AppliedEvent] {
	return &a.appliedChanged
}

func (a *Action) Apply() error {
	if a.applied {
		return errors.Wrapf(ErrAlreadyApplied, "apply %q", a.name)
	}
	if err := a.change.Apply(); err != nil {
		return errors.Wrapf(err, "apply %q", a.name)
	}
	a.setApplied(true)
	return nil
}

func (a *Action) Revert() error {
	if !a.applied {
		return errors.Wrapf(ErrNotApplied, "revert %q", a.name)
	}
	if err := a.change.Revert(); err != nil {
		return errors.Wrapf(err, "revert %q", a.name)
	}
	a.setApplied(false)
	return nil
}

// Modify lets the owner update the change payload in place. When the action is
// applied the change is re-applied right away so the target reflects the new
// payload without a revert/apply round trip.
func (a *Action) Modify(update func()) error {
	update()
	a.modified = now().Unix()
	if !a.applied {
		return nil
	}
	if err := a.change.Apply(); err != nil {
		return errors.Wrapf(err, "re-apply %q", a.name)
	}
	return nil
}

func (a *Action) setApplied(applied bool) {
	a.applied = applied
	a.modified = now().Unix()
	a.appliedChanged.Emit(AppliedEvent{Action: a, Applied: applied})
}

func (a *Action) String() string {
	state := "reverted"
	if a.applied {
		state = "applied"
	}
	return a.name + " (" + state + ")"
}
