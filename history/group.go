package history

import (
	"strings"

	"github.com/pkg/errors"
)

type groupChange struct {
	children []*Action
}

// NewGroup composes actions into a single undo step. Children are applied in
// order and reverted in reverse order.
func NewGroup(name string, actions ...*Action) *Action {
	children := make([]*Action, len(actions))
	copy(children, actions)
	if name == "" {
		names := make([]string, len(children))
		for i, c := range children {
			names[i] = c.Name()
		}
		name = strings.Join(names, ", ")
	}
	return NewAction(name, &groupChange{children: children})
}

// Children returns the members of a group action, or nil for a leaf action.
func Children(a *Action) []*Action {
	g, ok := a.change.(*groupChange)
	if !ok {
		return nil
	}
	res := make([]*Action, len(g.children))
	copy(res, g.children)
	return res
}

func (g *groupChange) Apply() error {
	for i, child := range g.children {
		if err := child.Apply(); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := g.children[j].Revert(); rerr != nil {
					return errors.Wrapf(err, "rollback also failed: %v", rerr)
				}
			}
			return err
		}
	}
	return nil
}

func (g *groupChange) Revert() error {
	for i := len(g.children) - 1; i >= 0; i-- {
		if err := g.children[i].Revert(); err != nil {
			for j := i + 1; j < len(g.children); j++ {
				if aerr := g.children[j].Apply(); aerr != nil {
					return errors.Wrapf(err, "rollback also failed: %v", aerr)
				}
			}
			return err
		}
	}
	return nil
}
