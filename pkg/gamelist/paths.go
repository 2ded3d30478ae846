package gamelist

import (
	"path/filepath"
	"strings"
)

// NormalizePath converts a scanned file path into the "./filename" form used
// by the document's path field.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	base := filepath.Base(filepath.FromSlash(p))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return "./" + base
}

// DirectoryName returns the last element of a directory path, used as the
// emulator name for a source directory.
func DirectoryName(dir string) string {
	clean := filepath.Clean(dir)
	name := filepath.Base(clean)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
