package session

import "errors"

// ErrSessionNotFound is returned by any operation referencing an unknown
// session id.
var ErrSessionNotFound = errors.New("session: not found")

// ErrSessionAlreadyExists is returned by CreateBuffer when the id is
// already registered.
var ErrSessionAlreadyExists = errors.New("session: already exists")
