package terminal

import "errors"

// ErrInvalidSize is returned by Resize when either dimension is <= 0.
var ErrInvalidSize = errors.New("terminal: invalid size")
