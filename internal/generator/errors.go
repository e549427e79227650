package generator

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure.
type Kind int

const (
	TemplateNotFound Kind = iota + 1
	ItemDataInvalid
	WriteFailed
)

func (k Kind) String() string {
	switch k {
	case TemplateNotFound:
		return "template_not_found"
	case ItemDataInvalid:
		return "item_data_invalid"
	case WriteFailed:
		return "write_failed"
	}
	return "unknown"
}

// Sentinels for errors.Is.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrItemDataInvalid  = errors.New("item data invalid")
	ErrWriteFailed      = errors.New("write failed")
)

// Error is returned by Generate for every failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTemplateNotFound:
		return e.Kind == TemplateNotFound
	case ErrItemDataInvalid:
		return e.Kind == ItemDataInvalid
	case ErrWriteFailed:
		return e.Kind == WriteFailed
	}
	return false
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of a generation error, or 0.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return 0
}
