package history

import "github.com/pkg/errors"

var (
	ErrAlreadyApplied      = errors.New("action is already applied")
	ErrNotApplied          = errors.New("action is not applied")
	ErrDuplicateAction     = errors.New("action is already in history")
	ErrIndexOutOfRange     = errors.New("history index out of range")
	ErrReentrantTransition = errors.New("history index change already in progress")
	ErrEmptyGroup          = errors.New("no actions to apply")
	ErrNilAction           = errors.New("nil action")
)
