// Package gamedoc reads and writes the gamelist.xml catalog document
package gamedoc

import "errors"

var (
	// ErrMalformedDocument indicates unbalanced or misordered game markers.
	// The whole document is rejected; no partial catalog is produced.
	ErrMalformedDocument = errors.New("gamedoc: malformed document")
)
