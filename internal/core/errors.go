package core

import "errors"

// ErrNotFound signals that the requested question does not exist. The web
// layer maps it to 404; other errors become 500s.
var ErrNotFound = errors.New("question not found")

// ErrInvalidScore rejects score values outside {0, 1, null}.
var ErrInvalidScore = errors.New("score must be 0, 1, or null")
