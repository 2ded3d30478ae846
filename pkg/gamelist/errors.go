package gamelist

import "errors"

var (
	// ErrNotFound indicates a lookup miss (field by name, game by id)
	ErrNotFound = errors.New("gamelist: not found")

	// ErrInvalidPayload indicates a transport payload that cannot be restored
	ErrInvalidPayload = errors.New("gamelist: invalid payload")
)
