package explorer

import (
	"errors"
	"fmt"
)

// Errors wrapped by Error.
var (
	// ErrEmptyFile is returned when a file holds no user variables.
	ErrEmptyFile = errors.New("no user variables")

	// ErrUnsupportedShape is returned for arrays with more than two
	// non-singleton dimensions.
	ErrUnsupportedShape = errors.New("more than two non-singleton dimensions")

	// ErrUnsupportedClass is returned for sparse, function handle and
	// opaque arrays.
	ErrUnsupportedClass = errors.New("unsupported array class")

	// ErrUnknownVariable is returned when a selected name is not in the file.
	ErrUnknownVariable = errors.New("unknown variable")
)

// ErrorKind tells the front ends how to report an Error.
type ErrorKind int

const (
	// ReadError means the file could not be read or decoded.
	ReadError ErrorKind = iota + 1
	// EmptyError means the file has no user variables.
	EmptyError
	// DisplayError means a variable could not be shown as a table.
	DisplayError
	// RenderError means the detail text of a row could not be produced.
	RenderError
)

func (k ErrorKind) String() string {
	switch k {
	case ReadError:
		return "read"
	case EmptyError:
		return "empty"
	case DisplayError:
		return "display"
	case RenderError:
		return "render"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by Load and by Session operations.
type Error struct {
	Kind     ErrorKind
	Path     string
	Variable string
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ReadError:
		return fmt.Sprintf("Could not read file: %v", e.Err)
	case EmptyError:
		return "No data found in file."
	case DisplayError:
		return fmt.Sprintf("Variable %s is complex: %v", e.Variable, e.Err)
	case RenderError:
		return fmt.Sprintf("Could not render details: %v", e.Err)
	}
	return fmt.Sprintf("%v", e.Err)
}

// Title is the heading used for dialogs.
func (e *Error) Title() string {
	switch e.Kind {
	case EmptyError:
		return "Empty"
	case DisplayError:
		return "Display Error"
	case RenderError:
		return "Render Error"
	}
	return "Error"
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
