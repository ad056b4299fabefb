package history

import (
	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
)

var (
	// ErrNothingToUndo is returned by [Stack.Undo] on an empty undo side.
	ErrNothingToUndo = errors.New(errors.ErrCodeNothingToUndo, "nothing to undo")
	// ErrNothingToRedo is returned by [Stack.Redo] on an empty redo side.
	ErrNothingToRedo = errors.New(errors.ErrCodeNothingToRedo, "nothing to redo")
)

// Stack is a linear undo/redo history. Commands below the cursor are
// applied; commands at or above it have been undone.
type Stack struct {
	cmds   []Command
	cursor int
	limit  int
}

// NewStack returns an empty history keeping at most limit commands. A limit
// of zero or less keeps everything.
func NewStack(limit int) *Stack {
	return &Stack{limit: limit}
}

// Push runs cmd and records it, discarding the redo tail. A command whose
// Redo fails is not recorded.
func (s *Stack) Push(g *circuit.Graph, cmd Command) error {
	if err := cmd.Redo(g); err != nil {
		return err
	}
	clear(s.cmds[s.cursor:])
	s.cmds = append(s.cmds[:s.cursor], cmd)
	s.cursor++
	if s.limit > 0 && len(s.cmds) > s.limit {
		drop := len(s.cmds) - s.limit
		s.cmds = append(s.cmds[:0], s.cmds[drop:]...)
		s.cursor -= drop
	}
	return nil
}

// Undo reverts the most recent applied command.
func (s *Stack) Undo(g *circuit.Graph) error {
	if s.cursor == 0 {
		return ErrNothingToUndo
	}
	cmd := s.cmds[s.cursor-1]
	if err := cmd.Undo(g); err != nil {
		return wrap(err, "undo %s", cmd.Name())
	}
	s.cursor--
	return nil
}

// Redo reapplies the most recently undone command.
func (s *Stack) Redo(g *circuit.Graph) error {
	if s.cursor == len(s.cmds) {
		return ErrNothingToRedo
	}
	cmd := s.cmds[s.cursor]
	if err := cmd.Redo(g); err != nil {
		return wrap(err, "redo %s", cmd.Name())
	}
	s.cursor++
	return nil
}

// CanUndo reports whether Undo has a command to revert.
func (s *Stack) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether Redo has a command to reapply.
func (s *Stack) CanRedo() bool { return s.cursor < len(s.cmds) }

// UndoName returns the name of the command Undo would revert.
func (s *Stack) UndoName() string {
	if !s.CanUndo() {
		return ""
	}
	return s.cmds[s.cursor-1].Name()
}

// RedoName returns the name of the command Redo would reapply.
func (s *Stack) RedoName() string {
	if !s.CanRedo() {
		return ""
	}
	return s.cmds[s.cursor].Name()
}

// Len returns the number of recorded commands on both sides of the cursor.
func (s *Stack) Len() int { return len(s.cmds) }

// Cursor returns the number of applied commands.
func (s *Stack) Cursor() int { return s.cursor }

// Clear drops all history.
func (s *Stack) Clear() {
	s.cmds = nil
	s.cursor = 0
}

// wrap keeps the code of err so callers can still match on it.
func wrap(err error, format string, args ...any) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, format, args...)
}
