// Package emulator inspects ROM source directories: marker files, the
// accepted extension list, game files on disk and completeness figures.
package emulator

import "errors"

var (
	// ErrInvalidDirectory is returned when a path is missing or not a directory
	ErrInvalidDirectory = errors.New("emulator: invalid directory")

	// ErrMissingRequiredFiles is returned when a directory lacks gamelist.xml or _info.txt
	ErrMissingRequiredFiles = errors.New("emulator: missing required files")

	// ErrUnreadableDirectory is returned when a directory cannot be listed
	ErrUnreadableDirectory = errors.New("emulator: cannot read directory")
)
