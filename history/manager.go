package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/gekko3d/gekko-editor/event"
)

const DefaultCapacity = 100

// Logger is the subset of the engine logger the manager writes to.
type Logger interface {
	DebugEnabled() bool
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

type managerState int

const (
	stateIdle managerState = iota
	stateTransitioning
)

// Manager is a bounded linear undo/redo history.
//
// The cursor points at the last applied action, or is -1 when nothing is
// applied. Entries after the cursor are redoable.
type Manager struct {
	actions    []*Action
	current    int
	capacity   int
	lastChange time.Time
	state      managerState

	clock   func() time.Time
	log     Logger
	changed event.Signal[*Manager]
}

type Option func(*Manager)

// WithCapacity bounds the number of entries. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n >= 1 {
			m.capacity = n
		}
	}
}

func WithLogger(l Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		current:  -1,
		capacity: DefaultCapacity,
		clock:    time.Now,
		log:      nopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Len() int              { return len(m.actions) }
func (m *Manager) Capacity() int         { return m.capacity }
func (m *Manager) CurrentIndex() int     { return m.current }
func (m *Manager) LastChange() time.Time { return m.lastChange }
func (m *Manager) CanUndo() bool         { return m.current >= 0 }
func (m *Manager) CanRedo() bool         { return m.current < len(m.actions)-1 }

// Changed fires after every push, undo, redo, jump and clear.
func (m *Manager) Changed() *event.Signal[*Manager] {
	return &m.changed
}

// At returns the entry at index i, or nil when i is out of range.
func (m *Manager) At(i int) *Action {
	if i < 0 || i >= len(m.actions) {
		return nil
	}
	return m.actions[i]
}

// LastAction returns the action under the cursor, or nil when nothing is applied.
func (m *Manager) LastAction() *Action {
	return m.At(m.current)
}

// validatePush checks a and every action nested in it before the history is
// touched: none may be nil, applied, already recorded or listed twice.
func (m *Manager) validatePush(a *Action) error {
	recorded := make(map[*Action]struct{})
	var record func(*Action)
	record = func(x *Action) {
		recorded[x] = struct{}{}
		for _, c := range Children(x) {
			record(c)
		}
	}
	for _, e := range m.actions {
		record(e)
	}

	seen := make(map[*Action]struct{})
	var check func(*Action) error
	check = func(x *Action) error {
		if x == nil {
			return errors.Wrapf(ErrNilAction, "push %q", a.Name())
		}
		if _, ok := recorded[x]; ok {
			return errors.Wrapf(ErrDuplicateAction, "push %q", x.Name())
		}
		if _, ok := seen[x]; ok {
			return errors.Wrapf(ErrDuplicateAction, "push %q twice", x.Name())
		}
		seen[x] = struct{}{}
		if x.Applied() {
			return errors.Wrapf(ErrAlreadyApplied, "push %q", x.Name())
		}
		for _, c := range Children(x) {
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	return check(a)
}

// ApplyAction discards the redo branch, appends a and applies it.
func (m *Manager) ApplyAction(a *Action) error {
	if a == nil {
		return ErrNilAction
	}
	if m.state != stateIdle {
		return errors.Wrapf(ErrReentrantTransition, "push %q", a.Name())
	}
	if err := m.validatePush(a); err != nil {
		return err
	}

	if dropped := len(m.actions) - (m.current + 1); dropped > 0 {
		m.log.Debugf("history: discarding %d redo entries", dropped)
		clear(m.actions[m.current+1:])
		m.actions = m.actions[:m.current+1]
	}

	if len(m.actions) >= m.capacity {
		m.evictOldest(len(m.actions) - m.capacity + 1)
	}

	m.actions = append(m.actions, a)
	if err := m.SetCurrentIndex(len(m.actions) - 1); err != nil {
		m.actions[len(m.actions)-1] = nil
		m.actions = m.actions[:len(m.actions)-1]
		return err
	}
	return nil
}

// ApplyActions records several actions as a single undo step.
func (m *Manager) ApplyActions(actions ...*Action) error {
	switch len(actions) {
	case 0:
		return ErrEmptyGroup
	case 1:
		return m.ApplyAction(actions[0])
	}
	for _, a := range actions {
		if a == nil {
			return ErrNilAction
		}
	}
	return m.ApplyAction(NewGroup("", actions...))
}

// SetCurrentIndex reverts or applies entries until the cursor sits at target.
// When a step fails the cursor stays at the last position that was reached.
func (m *Manager) SetCurrentIndex(target int) error {
	if target == m.current {
		return nil
	}
	if target < -1 || target >= len(m.actions) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d of %d", target, len(m.actions))
	}
	if m.state != stateIdle {
		return errors.Wrapf(ErrReentrantTransition, "index %d", target)
	}

	m.state = stateTransitioning
	defer func() { m.state = stateIdle }()

	var err error
	if target < m.current {
		for m.current > target {
			if err = m.actions[m.current].Revert(); err != nil {
				break
			}
			m.current--
		}
	} else {
		for m.current < target {
			if err = m.actions[m.current+1].Apply(); err != nil {
				break
			}
			m.current++
		}
	}

	m.lastChange = m.clock()
	m.state = stateIdle
	m.changed.Emit(m)
	if err != nil {
		m.log.Warnf("history: stopped at index %d: %v", m.current, err)
	}
	if m.log.DebugEnabled() {
		m.log.Debugf("%s", m.Dump())
	}
	return err
}

// Undo reverts the action under the cursor. It reports false at the start of history.
func (m *Manager) Undo() (bool, error) {
	if !m.CanUndo() {
		return false, nil
	}
	if err := m.SetCurrentIndex(m.current - 1); err != nil {
		return false, err
	}
	return true, nil
}

// Redo re-applies the next entry. It reports false at the end of history.
func (m *Manager) Redo() (bool, error) {
	if !m.CanRedo() {
		return false, nil
	}
	if err := m.SetCurrentIndex(m.current + 1); err != nil {
		return false, err
	}
	return true, nil
}

// Clear drops every entry without reverting anything; the current scene state
// becomes the new baseline.
func (m *Manager) Clear() {
	clear(m.actions)
	m.actions = m.actions[:0]
	m.current = -1
	m.lastChange = m.clock()
	m.changed.Emit(m)
}

// SetCapacity changes the bound, evicting the oldest entries when needed.
func (m *Manager) SetCapacity(n int) {
	if n < 1 {
		return
	}
	m.capacity = n
	if len(m.actions) > n {
		m.evictOldest(len(m.actions) - n)
		m.changed.Emit(m)
	}
}

func (m *Manager) evictOldest(count int) {
	if count <= 0 {
		return
	}
	for i := 0; i < count; i++ {
		m.log.Debugf("history: evicting %q", m.actions[i].Name())
	}
	remaining := copy(m.actions, m.actions[count:])
	clear(m.actions[remaining:])
	m.actions = m.actions[:remaining]
	m.current -= count
	if m.current < -1 {
		m.current = -1
	}
}

// Dump renders the history for debug logs.
func (m *Manager) Dump() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "history: %d/%d entries, cursor %d\n", len(m.actions), m.capacity, m.current)
	for i, a := range m.actions {
		marker := "  "
		if i == m.current {
			marker = "> "
		}
		fmt.Fprintf(&sb, "%s%d %s\n", marker, i, a)
		if m.log.DebugEnabled() {
			sb.WriteString(spew.Sdump(a.Change()))
		}
	}
	return sb.String()
}
